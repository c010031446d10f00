package recfuncs

import (
	"context"
	"errors"
	"fmt"

	"github.com/reusee/rectm/faults"
)

var ErrFuelExhausted = errors.New("fuel exhausted")

// Eval applies f to args. Every application and every minimization trial consumes one unit of fuel.
// fuel <= 0 means unbounded, in which case a diverging minimization only stops with ctx.
func Eval(ctx context.Context, f Func, args []int, fuel int) (int, error) {
	for _, arg := range args {
		if arg < 0 {
			return 0, &faults.ValidationError{
				What:   "argument",
				Reason: fmt.Sprintf("negative number %d", arg),
			}
		}
	}
	e := &evaluator{
		ctx:       ctx,
		fuel:      fuel,
		unbounded: fuel <= 0,
	}
	return e.eval(f, args)
}

type evaluator struct {
	ctx       context.Context
	fuel      int
	unbounded bool
	spent     int
}

func (e *evaluator) burn() error {
	e.spent++
	if e.spent%1024 == 0 {
		if err := e.ctx.Err(); err != nil {
			return err
		}
	}
	if e.unbounded {
		return nil
	}
	if e.fuel <= 0 {
		return ErrFuelExhausted
	}
	e.fuel--
	return nil
}

func (e *evaluator) eval(f Func, args []int) (int, error) {
	if len(args) != f.Arity() {
		return 0, &faults.ValidationError{
			What:   "arguments",
			Reason: fmt.Sprintf("%s takes %d arguments, got %d", f, f.Arity(), len(args)),
		}
	}
	if err := e.burn(); err != nil {
		return 0, err
	}

	switch f := f.(type) {

	case Zero:
		return 0, nil

	case Succ:
		return args[0] + 1, nil

	case Proj:
		return args[f.Index], nil

	case Comp:
		outerArgs := make([]int, len(f.Inner))
		for i, inner := range f.Inner {
			v, err := e.eval(inner, args)
			if err != nil {
				return 0, err
			}
			outerArgs[i] = v
		}
		return e.eval(f.Outer, outerArgs)

	case Prim:
		acc, err := e.eval(f.Base, args[1:])
		if err != nil {
			return 0, err
		}
		stepArgs := make([]int, len(args)+1)
		copy(stepArgs[2:], args[1:])
		for c := 0; c < args[0]; c++ {
			stepArgs[0] = acc
			stepArgs[1] = c
			acc, err = e.eval(f.Step, stepArgs)
			if err != nil {
				return 0, err
			}
		}
		return acc, nil

	case Mu:
		trialArgs := make([]int, len(args)+1)
		copy(trialArgs, args)
		for k := 0; ; k++ {
			trialArgs[len(args)] = k
			v, err := e.eval(f.F, trialArgs)
			if err != nil {
				return 0, err
			}
			if v == 0 {
				return k, nil
			}
		}

	}

	panic(fmt.Errorf("unknown function type %T", f))
}
