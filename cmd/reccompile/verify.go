package main

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/reusee/rectm/faults"
	"github.com/reusee/rectm/logs"
	"github.com/reusee/rectm/machines"
	"github.com/reusee/rectm/meters"
	"github.com/reusee/rectm/recfuncs"
	"github.com/reusee/rectm/syncs"
	"github.com/reusee/rectm/tmconfigs"
	"golang.org/x/sync/errgroup"
)

type VerifyReport struct {
	Checked int
	// vectors whose evaluation or runs exceeded the step bound
	Skipped int
}

// Verify checks every definition of program on all argument vectors with components up to maxArg.
// The evaluator result must match the machine compiled directly and the flattened IR.
type Verify func(ctx context.Context, program *recfuncs.Program, maxArg int) (VerifyReport, error)

func (Module) Verify(
	logger logs.Logger,
	newSpan logs.NewSpan,
	m *meters.Meters,
	compile Compile,
	workers tmconfigs.VerifyWorkers,
	maxSteps tmconfigs.MaxSteps,
) Verify {
	return func(ctx context.Context, program *recfuncs.Program, maxArg int) (report VerifyReport, err error) {
		ctx, _ = newSpan(ctx, "", "verify")

		defs := program.Definitions
		if len(defs) == 0 && program.Main != nil {
			defs = []recfuncs.Definition{
				{Name: entryName, Func: program.Main},
			}
		}

		type job struct {
			name     string
			f        recfuncs.Func
			compiled []*Compiled
		}
		var jobs []job
		for _, def := range defs {
			j := job{
				name: def.Name,
				f:    def.Func,
			}
			for _, target := range []Target{TargetTM, TargetJump} {
				c, err := compile(ctx, def.Func, target)
				if err != nil {
					return report, fmt.Errorf("%s: %w", def.Name, err)
				}
				j.compiled = append(j.compiled, c)
			}
			jobs = append(jobs, j)
		}

		var checked, skipped atomic.Int64
		// Acquire observes ctx, so dispatch stops at the first failure. g.SetLimit would block in g.Go instead.
		sem := syncs.NewSemaphore(int(workers))
		g, ctx := errgroup.WithContext(ctx)
	loop:
		for _, j := range jobs {
			for args := range argVectors(j.f.Arity(), maxArg) {
				if err := sem.Acquire(ctx); err != nil {
					break loop
				}
				g.Go(func() error {
					defer sem.Release()
					ok, err := verifyVector(ctx, m, j.name, j.f, j.compiled, args, int(maxSteps))
					if err != nil {
						return err
					}
					if ok {
						checked.Add(1)
					} else {
						skipped.Add(1)
					}
					return nil
				})
			}
		}
		err = g.Wait()

		report.Checked = int(checked.Load())
		report.Skipped = int(skipped.Load())
		logger.InfoContext(ctx, "verified",
			"definitions", len(jobs),
			"checked", report.Checked,
			"skipped", report.Skipped,
		)
		return report, err
	}
}

// verifyVector reports false when some path exceeded the step bound.
func verifyVector(
	ctx context.Context,
	m *meters.Meters,
	name string,
	f recfuncs.Func,
	compiled []*Compiled,
	args []int,
	limit int,
) (bool, error) {
	expected, err := recfuncs.Eval(ctx, f, args, limit)
	if errors.Is(err, recfuncs.ErrFuelExhausted) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	for _, c := range compiled {
		t0 := time.Now()
		got, steps, err := c.Run(ctx, args, limit)
		m.ObserveRun(steps, meters.OutcomeOf(err == nil, err), time.Since(t0))
		if errors.Is(err, machines.ErrStepLimit) {
			return false, nil
		} else if err != nil {
			return false, fmt.Errorf("%s%v on %s: %w", name, args, c.Target, err)
		}
		if got != expected {
			return false, &faults.ValidationError{
				What:   fmt.Sprintf("%s%v on %s", name, args, c.Target),
				Reason: fmt.Sprintf("got %d, evaluator got %d", got, expected),
			}
		}
	}
	return true, nil
}

// argVectors yields every vector of length n with components in [0, maxArg], in lexicographic order.
func argVectors(n int, maxArg int) func(yield func([]int) bool) {
	return func(yield func([]int) bool) {
		args := make([]int, n)
		for {
			if !yield(append([]int(nil), args...)) {
				return
			}
			i := n - 1
			for i >= 0 && args[i] == maxArg {
				args[i] = 0
				i--
			}
			if i < 0 {
				return
			}
			args[i]++
		}
	}
}
