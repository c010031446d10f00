package recirs

import (
	"fmt"
	"slices"
	"strings"

	"github.com/reusee/rectm/faults"
	"github.com/reusee/rectm/tapes"
)

// JumpProgram is a flat list of instructions. Execution ends when the counter passes the last instruction.
type JumpProgram struct {
	Instrs []Instr
}

// Instr is a Move, an Assign or a JumpTo.
type Instr interface {
	isInstr()
	String() string
}

func (Move) isInstr()   {}
func (Assign) isInstr() {}
func (JumpTo) isInstr() {}

// JumpTo is the resolved form of every control statement.
type JumpTo struct {
	Target int
	Cond   *Cond
}

func (j JumpTo) String() string {
	return fmt.Sprintf("goto %d", j.Target) + condSuffix(j.Cond)
}

func (p *JumpProgram) String() string {
	var b strings.Builder
	for i, instr := range p.Instrs {
		fmt.Fprintf(&b, "%d: %s\n", i, instr)
	}
	return b.String()
}

// Vars are sorted.
func (p *JumpProgram) Vars() []Var {
	var ret []Var
	for _, instr := range p.Instrs {
		ret = append(ret, instrUses(instr)...)
		if v, ok := instrDef(instr); ok {
			ret = append(ret, v)
		}
	}
	slices.Sort(ret)
	return slices.Compact(ret)
}

// Signs returns the sorted constants used by the program.
func (p *JumpProgram) Signs() []tapes.Sign {
	var ret []tapes.Sign
	add := func(op Operand) {
		if c, ok := op.(Const); ok {
			ret = append(ret, tapes.Sign(c))
		}
	}
	for _, instr := range p.Instrs {
		switch instr := instr.(type) {
		case Assign:
			add(instr.Src)
		case JumpTo:
			if instr.Cond != nil {
				add(instr.Cond.Left)
				add(instr.Cond.Right)
			}
		}
	}
	slices.Sort(ret)
	return slices.Compact(ret)
}

// maxInstrs bounds inlining
const maxInstrs = 1 << 22

// Flatten inlines every call reachable from entry. Each inlined call gets its own copy of the callee variables,
// named "{instance}.{var}", and blanks them on entry.
func Flatten(r *Registry, entry string) (*JumpProgram, error) {
	if err := r.ValidateNoRecursion(); err != nil {
		return nil, err
	}
	fn, ok := r.Lookup(entry)
	if !ok {
		return nil, &faults.NameError{
			Name:   entry,
			Reason: "function not registered",
		}
	}
	f := &flattener{
		registry: r,
	}
	if err := f.inline(fn, false); err != nil {
		return nil, err
	}
	return &JumpProgram{
		Instrs: f.instrs,
	}, nil
}

type flattener struct {
	registry  *Registry
	instrs    []Instr
	instances int
}

func (f *flattener) emit(instr Instr) error {
	if len(f.instrs) >= maxInstrs {
		return &faults.ValidationError{
			What:   "jump program",
			Reason: fmt.Sprintf("more than %d instructions", maxInstrs),
		}
	}
	f.instrs = append(f.instrs, instr)
	return nil
}

func (f *flattener) inline(fn *Function, blankVars bool) error {
	instance := f.instances
	f.instances++
	rename := func(op Operand) Operand {
		if v, ok := op.(Var); ok {
			return Var(fmt.Sprintf("%d.%s", instance, v))
		}
		return op
	}
	renameCond := func(c *Cond) *Cond {
		if c == nil {
			return nil
		}
		return &Cond{
			Left:     rename(c.Left),
			Right:    rename(c.Right),
			Negative: c.Negative,
		}
	}

	if blankVars {
		for _, v := range fn.Vars() {
			if err := f.emit(Assign{
				Dst: rename(v),
				Src: Const(tapes.Blank),
			}); err != nil {
				return err
			}
		}
	}

	// label "" is the end of this instance
	type fixup struct {
		at    int
		label string
	}
	var fixups []fixup
	starts := make(map[string]int, len(fn.Blocks))
	jump := func(label string, cond *Cond) error {
		fixups = append(fixups, fixup{
			at:    len(f.instrs),
			label: label,
		})
		return f.emit(JumpTo{
			Cond: renameCond(cond),
		})
	}

	for i, block := range fn.Blocks {
		starts[block.Label] = len(f.instrs)
		next := ""
		if i+1 < len(fn.Blocks) {
			next = fn.Blocks[i+1].Label
		}
		for _, stmt := range block.Body {
			var err error
			switch stmt := stmt.(type) {
			case Move:
				err = f.emit(stmt)
			case Assign:
				err = f.emit(Assign{
					Dst: rename(stmt.Dst),
					Src: rename(stmt.Src),
				})
			case Break:
				err = jump(next, stmt.Cond)
			case Continue:
				err = jump(block.Label, stmt.Cond)
			case Jump:
				err = jump(stmt.Label, stmt.Cond)
			case Return:
				err = jump("", stmt.Cond)
			case Call:
				callee, ok := f.registry.Lookup(stmt.Name)
				if !ok {
					return &faults.NameError{
						Name:   stmt.Name,
						Reason: fmt.Sprintf("called by %s but not registered", fn.Name),
					}
				}
				err = f.inline(callee, true)
			default:
				panic(fmt.Errorf("unknown statement %T", stmt))
			}
			if err != nil {
				return err
			}
		}
	}

	end := len(f.instrs)
	for _, fix := range fixups {
		target := end
		if fix.label != "" {
			target = starts[fix.label]
		}
		j := f.instrs[fix.at].(JumpTo)
		j.Target = target
		f.instrs[fix.at] = j
	}
	return nil
}

func instrUses(instr Instr) []Var {
	var ret []Var
	add := func(op Operand) {
		if v, ok := op.(Var); ok {
			ret = append(ret, v)
		}
	}
	switch instr := instr.(type) {
	case Assign:
		add(instr.Src)
	case JumpTo:
		if instr.Cond != nil {
			add(instr.Cond.Left)
			add(instr.Cond.Right)
		}
	}
	return ret
}

func instrDef(instr Instr) (Var, bool) {
	if a, ok := instr.(Assign); ok {
		v, ok := a.Dst.(Var)
		return v, ok
	}
	return "", false
}
