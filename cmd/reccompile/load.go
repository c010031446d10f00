package main

import (
	"os"
	"path/filepath"

	"github.com/reusee/rectm/faults"
	"github.com/reusee/rectm/recfuncs"
)

// loadProgram picks the frontend by extension: Starlark scripts, JSON or CUE definition files, or the text notation.
func loadProgram(path string) (*recfuncs.Program, error) {
	switch filepath.Ext(path) {
	case ".star":
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return recfuncs.ExecScript(path, content)
	case ".json", ".cue":
		return recfuncs.LoadDefinitions(path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return recfuncs.ParseText(string(content))
}

func selectFunc(program *recfuncs.Program, name string) (recfuncs.Func, error) {
	if name == "" {
		return program.Main, nil
	}
	f, ok := program.Lookup(name)
	if !ok {
		return nil, &faults.NameError{
			Name:   name,
			Reason: "function not defined",
		}
	}
	return f, nil
}
