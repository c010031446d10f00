package main

import (
	"context"
	"fmt"
	"time"

	"github.com/reusee/rectm/logs"
	"github.com/reusee/rectm/machines"
	"github.com/reusee/rectm/meters"
	"github.com/reusee/rectm/recfuncs"
	"github.com/reusee/rectm/recirs"
	"github.com/reusee/rectm/rectms"
)

type Target string

const (
	// machine code from the direct compiler
	TargetTM Target = "tm"
	// IR functions
	TargetIR Target = "ir"
	// flattened IR
	TargetJump Target = "jump"
	// machine code lowered from the IR
	TargetLowered Target = "lowered"
)

const entryName = "main"

func ParseTarget(s string) (Target, error) {
	switch t := Target(s); t {
	case "":
		return TargetTM, nil
	case TargetTM, TargetIR, TargetJump, TargetLowered:
		return t, nil
	}
	return "", fmt.Errorf("unknown target %q, expecting tm, ir, jump or lowered", s)
}

// Compiled holds a machine definition for tm and lowered, a registry and its jump program for ir and jump.
type Compiled struct {
	Target     Target
	Definition *machines.Definition
	Registry   *recirs.Registry
	Jump       *recirs.JumpProgram
}

func (c *Compiled) String() string {
	switch c.Target {
	case TargetIR:
		return c.Registry.Program(recirs.Alphabet...).String()
	case TargetJump:
		return c.Jump.String()
	}
	return c.Definition.String()
}

// Run applies the compiled function to args. It returns the result and the steps taken.
func (c *Compiled) Run(ctx context.Context, args []int, limit int) (int, int, error) {
	if c.Definition != nil {
		m := machines.New(c.Definition, rectms.Encode(args))
		if err := m.Run(ctx, limit); err != nil {
			return 0, m.Steps(), err
		}
		if !m.IsAccepted() {
			return 0, m.Steps(), fmt.Errorf("machine rejected in state %s", m.State())
		}
		n, err := rectms.DecodeNumber(m.Tape())
		return n, m.Steps(), err
	}
	m := recirs.NewJumpMachine(c.Jump, rectms.Encode(args))
	if err := m.Run(ctx, limit); err != nil {
		return 0, m.Steps(), err
	}
	n, err := rectms.DecodeNumber(m.Tape())
	return n, m.Steps(), err
}

type Compile func(ctx context.Context, f recfuncs.Func, target Target) (*Compiled, error)

func (Module) Compile(
	logger logs.Logger,
	m *meters.Meters,
) Compile {
	return func(ctx context.Context, f recfuncs.Func, target Target) (_ *Compiled, err error) {
		defer func() {
			if err != nil {
				err = logs.WrapSpan(ctx, fmt.Errorf("compile %s: %w", target, err))
			}
		}()
		t0 := time.Now()
		ret := &Compiled{
			Target: target,
		}

		if target == TargetTM {
			b, err := rectms.Compile(f)
			if err != nil {
				return nil, err
			}
			ret.Definition, err = b.Definition()
			if err != nil {
				return nil, err
			}

		} else {
			ret.Registry = recirs.NewRegistry()
			if err := recirs.CompileRec(ret.Registry, f, entryName); err != nil {
				return nil, err
			}
			logger.DebugContext(ctx, "compiled to ir", "functions", ret.Registry.Len())
			ret.Jump, err = recirs.Flatten(ret.Registry, entryName)
			if err != nil {
				return nil, err
			}
			logger.DebugContext(ctx, "flattened", "instructions", len(ret.Jump.Instrs))
			if target == TargetLowered {
				ret.Definition, err = recirs.Lower(ret.Jump, recirs.Alphabet)
				if err != nil {
					return nil, err
				}
			}
		}

		m.ObserveCompilation(string(target))
		args := []any{
			"target", target,
			"duration", time.Since(t0),
		}
		if ret.Definition != nil {
			args = append(args, "entries", ret.Definition.Len(), "states", len(ret.Definition.States()))
		}
		logger.InfoContext(ctx, "compiled", args...)
		return ret, nil
	}
}
