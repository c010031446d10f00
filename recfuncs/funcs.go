package recfuncs

import (
	"fmt"
	"strings"

	"github.com/reusee/rectm/faults"
)

// Func is a recursive function. Values are immutable trees.
type Func interface {
	Arity() int
	String() string
	isFunc()
}

// Zero is the nullary constant 0.
type Zero struct{}

// Succ is n+1.
type Succ struct{}

// Proj selects argument Index of Length arguments.
type Proj struct {
	Length int
	Index  int
}

// Comp is Outer(Inner[0](x...), ..., Inner[k-1](x...)) with Length arguments.
type Comp struct {
	Length int
	Outer  Func
	Inner  []Func
}

// Prim is f(0, x...) = Base(x...), f(c+1, x...) = Step(f(c, x...), c, x...).
type Prim struct {
	Base Func
	Step Func
}

// Mu is the least k such that F(x..., k) = 0.
type Mu struct {
	F Func
}

var (
	_ Func = Zero{}
	_ Func = Succ{}
	_ Func = Proj{}
	_ Func = Comp{}
	_ Func = Prim{}
	_ Func = Mu{}
)

func (Zero) isFunc() {}
func (Succ) isFunc() {}
func (Proj) isFunc() {}
func (Comp) isFunc() {}
func (Prim) isFunc() {}
func (Mu) isFunc()   {}

func (Zero) Arity() int {
	return 0
}

func (Succ) Arity() int {
	return 1
}

func (p Proj) Arity() int {
	return p.Length
}

func (c Comp) Arity() int {
	return c.Length
}

func (p Prim) Arity() int {
	return p.Base.Arity() + 1
}

func (m Mu) Arity() int {
	return m.F.Arity() - 1
}

func (Zero) String() string {
	return "ZERO"
}

func (Succ) String() string {
	return "SUCC"
}

func (p Proj) String() string {
	return fmt.Sprintf("PROJ[%d,%d]", p.Length, p.Index)
}

func (c Comp) String() string {
	inner := make([]string, 0, len(c.Inner))
	for _, f := range c.Inner {
		inner = append(inner, f.String())
	}
	return fmt.Sprintf("COMP[%s: (%s)]", c.Outer, strings.Join(inner, ", "))
}

func (p Prim) String() string {
	return fmt.Sprintf("PRIM[z: %s s: %s]", p.Base, p.Step)
}

func (m Mu) String() string {
	return fmt.Sprintf("MUOP[%s]", m.F)
}

func NewProj(length int, index int) (Proj, error) {
	if index < 0 || index >= length {
		return Proj{}, &faults.ValidationError{
			What:   "projection",
			Reason: fmt.Sprintf("index %d out of %d arguments", index, length),
		}
	}
	return Proj{
		Length: length,
		Index:  index,
	}, nil
}

// NewComp requires one inner function per outer argument, all of the same arity.
func NewComp(outer Func, inner ...Func) (Comp, error) {
	if outer == nil {
		return Comp{}, &faults.ValidationError{
			What:   "composition",
			Reason: "outer function is nil",
		}
	}
	if len(inner) == 0 {
		return Comp{}, &faults.ValidationError{
			What:   "composition",
			Reason: "no inner functions",
		}
	}
	if len(inner) != outer.Arity() {
		return Comp{}, &faults.ValidationError{
			What:   "composition",
			Reason: fmt.Sprintf("outer function %s takes %d arguments, got %d inner functions", outer, outer.Arity(), len(inner)),
		}
	}
	for _, f := range inner {
		if f == nil {
			return Comp{}, &faults.ValidationError{
				What:   "composition",
				Reason: "inner function is nil",
			}
		}
	}
	length := inner[0].Arity()
	for _, f := range inner[1:] {
		if f.Arity() != length {
			return Comp{}, &faults.ValidationError{
				What:   "composition",
				Reason: fmt.Sprintf("inner function %s takes %d arguments, expecting %d", f, f.Arity(), length),
			}
		}
	}
	return Comp{
		Length: length,
		Outer:  outer,
		Inner:  inner,
	}, nil
}

func NewPrim(base Func, step Func) (Prim, error) {
	if base == nil || step == nil {
		return Prim{}, &faults.ValidationError{
			What:   "primitive recursion",
			Reason: "nil function",
		}
	}
	if step.Arity() != base.Arity()+2 {
		return Prim{}, &faults.ValidationError{
			What: "primitive recursion",
			Reason: fmt.Sprintf("step function %s takes %d arguments, expecting %d",
				step, step.Arity(), base.Arity()+2),
		}
	}
	return Prim{
		Base: base,
		Step: step,
	}, nil
}

func NewMu(f Func) (Mu, error) {
	if f == nil || f.Arity() < 1 {
		return Mu{}, &faults.ValidationError{
			What:   "minimization",
			Reason: "function takes no arguments",
		}
	}
	return Mu{
		F: f,
	}, nil
}

// Walk visits f and its sub-functions in pre-order.
func Walk(f Func, fn func(Func) bool) bool {
	if !fn(f) {
		return false
	}
	switch f := f.(type) {
	case Comp:
		if !Walk(f.Outer, fn) {
			return false
		}
		for _, inner := range f.Inner {
			if !Walk(inner, fn) {
				return false
			}
		}
	case Prim:
		return Walk(f.Base, fn) && Walk(f.Step, fn)
	case Mu:
		return Walk(f.F, fn)
	}
	return true
}

// IsTotal reports whether f contains no minimization.
func IsTotal(f Func) bool {
	return Walk(f, func(f Func) bool {
		_, ok := f.(Mu)
		return !ok
	})
}
