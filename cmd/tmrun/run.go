package main

import (
	"context"
	"time"

	"github.com/reusee/rectm/logs"
	"github.com/reusee/rectm/machines"
	"github.com/reusee/rectm/meters"
	"github.com/reusee/rectm/tmconfigs"
)

// RunMachine runs m until it halts or MaxSteps more steps were taken.
// With TraceEvery set, the configuration is logged at that interval.
type RunMachine func(ctx context.Context, m *machines.Machine) error

func (Module) RunMachine(
	logger logs.Logger,
	newSpan logs.NewSpan,
	mt *meters.Meters,
	maxSteps tmconfigs.MaxSteps,
	traceEvery tmconfigs.TraceEvery,
) RunMachine {
	return func(ctx context.Context, m *machines.Machine) (err error) {
		ctx, _ = newSpan(ctx, "", "run")
		t0 := time.Now()
		start := m.Steps()
		limit := int(maxSteps)

		defer func() {
			mt.ObserveRun(m.Steps()-start, meters.OutcomeOf(m.IsAccepted(), err), time.Since(t0))
			logger.InfoContext(ctx, "run",
				"steps", m.Steps(),
				"state", m.State(),
				"accepted", m.IsAccepted(),
				"duration", time.Since(t0),
			)
			if err != nil {
				err = logs.WrapSpan(ctx, err)
			}
		}()

		if traceEvery <= 0 {
			return m.Run(ctx, limit)
		}

		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			n := int(traceEvery)
			if limit > 0 {
				n = min(n, limit-(m.Steps()-start))
			}
			if n <= 0 {
				if m.IsTerminated() {
					return nil
				}
				return machines.ErrStepLimit
			}
			done := m.StepN(n)
			logger.DebugContext(ctx, "trace",
				"steps", m.Steps(),
				"state", m.State(),
				"tape", m.Tape().Literal(),
			)
			if done < n {
				return nil
			}
		}
	}
}
