package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/reusee/dscope"
	"github.com/reusee/rectm/cmds"
	"github.com/reusee/rectm/debugs"
	"github.com/reusee/rectm/machines"
	"github.com/reusee/rectm/meters"
	"github.com/reusee/rectm/modes"
	"github.com/reusee/rectm/tapes"
)

var (
	defFile      = cmds.Var[string]("-def")
	tapeLiteral  = cmds.Var[string]("-tape")
	compactTape  = cmds.Switch("-compact")
	replFlag     = cmds.Switch("-repl")
	inspectFlag  = cmds.Switch("-inspect")
	snapshotFile = cmds.Var[string]("-snapshot")
	resumeFile   = cmds.Var[string]("-resume")
)

func main() {
	cmds.Execute(os.Args[1:])
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dscope.New(
		new(Module),
		modes.ForProduction(),
	).Call(func(
		run RunMachine,
		inspect debugs.InspectMachine,
		serve meters.Serve,
	) {
		go func() {
			if err := serve(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "metrics: %v\n", err)
			}
		}()

		m, err := loadMachine(*defFile, *tapeLiteral, *compactTape, *resumeFile)
		if err != nil {
			fail(err)
		}

		if *replFlag {
			runConsole(ctx, &console{
				m:       m,
				run:     run,
				inspect: inspect,
				out:     os.Stdout,
			})
		} else if err := runBatch(ctx, run, m, os.Stdout); err != nil {
			fail(err)
		}

		if *inspectFlag {
			inspect(ctx, "machine", m)
		}

		if *snapshotFile != "" {
			if err := writeSnapshot(*snapshotFile, m); err != nil {
				fail(err)
			}
		}

		if !m.IsAccepted() {
			os.Exit(1)
		}
	})
}

// runBatch runs m once and prints its status. Stopping at the step bound is reported, not returned, so the machine can still be inspected and saved.
func runBatch(ctx context.Context, run RunMachine, m *machines.Machine, out io.Writer) error {
	err := run(ctx, m)
	fmt.Fprintln(out, renderStatus(m))
	if errors.Is(err, machines.ErrStepLimit) {
		fmt.Fprintf(out, "step bound reached, still running in %s\n", m.State())
		return nil
	}
	return err
}

func loadMachine(defPath string, literal string, compact bool, resumePath string) (*machines.Machine, error) {
	if defPath == "" {
		return nil, fmt.Errorf("-def is required")
	}
	content, err := os.ReadFile(defPath)
	if err != nil {
		return nil, err
	}
	def, err := machines.ParseDefinition(string(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", defPath, err)
	}

	var tape tapes.Tape
	if literal != "" {
		if compact {
			tape, err = tapes.ParseCompactTape(literal)
		} else {
			tape, err = tapes.ParseTape(literal)
		}
		if err != nil {
			return nil, err
		}
	}
	m := machines.New(def, tape)

	if resumePath != "" {
		f, err := os.Open(resumePath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		snapshot, err := machines.DecodeSnapshot(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", resumePath, err)
		}
		m.Restore(snapshot)
	}

	return m, nil
}

func writeSnapshot(path string, m *machines.Machine) error {
	content, err := m.Snapshot().Bytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, content, 0644)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(-1)
}
