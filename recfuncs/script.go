package recfuncs

import (
	"fmt"
	"slices"

	"github.com/reusee/rectm/faults"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// FuncValue exposes a Func to Starlark scripts.
type FuncValue struct {
	Func Func
}

var _ starlark.Value = new(FuncValue)

func (f *FuncValue) String() string {
	return f.Func.String()
}

func (f *FuncValue) Type() string {
	return "recfunc"
}

func (f *FuncValue) Freeze() {}

func (f *FuncValue) Truth() starlark.Bool {
	return starlark.True
}

func (f *FuncValue) Hash() (uint32, error) {
	return starlark.String(f.Func.String()).Hash()
}

func funcArg(fnName string, v starlark.Value) (Func, error) {
	f, ok := v.(*FuncValue)
	if !ok {
		return nil, fmt.Errorf("%s: expecting recfunc, got %s", fnName, v.Type())
	}
	return f.Func, nil
}

func wrapValue[T Func](f T, err error) (starlark.Value, error) {
	if err != nil {
		return nil, err
	}
	return &FuncValue{Func: f}, nil
}

var scriptBuiltins = starlark.StringDict{

	"zero": starlark.NewBuiltin("zero", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0); err != nil {
			return nil, err
		}
		return &FuncValue{Func: Zero{}}, nil
	}),

	"succ": starlark.NewBuiltin("succ", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0); err != nil {
			return nil, err
		}
		return &FuncValue{Func: Succ{}}, nil
	}),

	"proj": starlark.NewBuiltin("proj", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var n, i int
		if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 2, &n, &i); err != nil {
			return nil, err
		}
		return wrapValue(NewProj(n, i))
	}),

	"comp": starlark.NewBuiltin("comp", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(kwargs) > 0 {
			return nil, fmt.Errorf("%s: unexpected keyword arguments", fn.Name())
		}
		if len(args) < 1 {
			return nil, fmt.Errorf("%s: missing outer function", fn.Name())
		}
		funcs := make([]Func, 0, len(args))
		for _, arg := range args {
			f, err := funcArg(fn.Name(), arg)
			if err != nil {
				return nil, err
			}
			funcs = append(funcs, f)
		}
		return wrapValue(NewComp(funcs[0], funcs[1:]...))
	}),

	"prim": starlark.NewBuiltin("prim", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var z, s starlark.Value
		if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "z", &z, "s", &s); err != nil {
			return nil, err
		}
		base, err := funcArg(fn.Name(), z)
		if err != nil {
			return nil, err
		}
		step, err := funcArg(fn.Name(), s)
		if err != nil {
			return nil, err
		}
		return wrapValue(NewPrim(base, step))
	}),

	"mu": starlark.NewBuiltin("mu", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var v starlark.Value
		if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &v); err != nil {
			return nil, err
		}
		f, err := funcArg(fn.Name(), v)
		if err != nil {
			return nil, err
		}
		return wrapValue(NewMu(f))
	}),
}

// ExecScript runs a Starlark script. Every global bound to a function becomes a definition, and main is required.
func ExecScript(filename string, src []byte) (*Program, error) {
	thread := &starlark.Thread{
		Name: filename,
	}
	globals, err := starlark.ExecFileOptions(
		&syntax.FileOptions{
			Set:             true,
			While:           true,
			TopLevelControl: true,
		},
		thread,
		filename,
		src,
		scriptBuiltins,
	)
	if err != nil {
		return nil, &faults.ParseError{
			What: "script",
			Err:  err,
		}
	}

	ret := new(Program)
	names := globals.Keys()
	slices.Sort(names)
	for _, name := range names {
		v, ok := globals[name].(*FuncValue)
		if !ok {
			continue
		}
		ret.Definitions = append(ret.Definitions, Definition{
			Name: name,
			Func: v.Func,
		})
	}
	main, ok := ret.Lookup("main")
	if !ok {
		return nil, &faults.ValidationError{
			What:   "script",
			Reason: "main is not bound to a function",
		}
	}
	ret.Main = main
	return ret, nil
}
