package recirs

import (
	"context"
	"maps"

	"github.com/reusee/rectm/machines"
	"github.com/reusee/rectm/rectms"
	"github.com/reusee/rectm/tapes"
)

// JumpMachine interprets a JumpProgram directly. One instruction is one step.
type JumpMachine struct {
	program *JumpProgram
	pc      int
	env     map[Var]tapes.Sign
	tape    tapes.Tape
	steps   int
}

func NewJumpMachine(program *JumpProgram, tape tapes.Tape) *JumpMachine {
	return &JumpMachine{
		program: program,
		env:     make(map[Var]tapes.Sign),
		tape:    tape.Clone(),
	}
}

func (m *JumpMachine) PC() int {
	return m.pc
}

func (m *JumpMachine) Tape() tapes.Tape {
	return m.tape.Clone()
}

func (m *JumpMachine) Steps() int {
	return m.steps
}

// Env holds the variables assigned so far. Missing variables are blank.
func (m *JumpMachine) Env() map[Var]tapes.Sign {
	return maps.Clone(m.env)
}

func (m *JumpMachine) IsTerminated() bool {
	return m.pc >= len(m.program.Instrs)
}

func (m *JumpMachine) value(op Operand) tapes.Sign {
	switch op := op.(type) {
	case Var:
		return m.env[op]
	case Head:
		return m.tape.Read()
	case Const:
		return tapes.Sign(op)
	}
	return tapes.Blank
}

func (m *JumpMachine) holds(c *Cond) bool {
	if c == nil {
		return true
	}
	return (m.value(c.Left) == m.value(c.Right)) != c.Negative
}

// Step executes one instruction. It reports false when the machine was already terminated.
func (m *JumpMachine) Step() bool {
	if m.IsTerminated() {
		return false
	}
	next := m.pc + 1
	switch instr := m.program.Instrs[m.pc].(type) {
	case Move:
		m.tape.Move(instr.Dir)
	case Assign:
		v := m.value(instr.Src)
		switch dst := instr.Dst.(type) {
		case Var:
			m.env[dst] = v
		case Head:
			m.tape.Write(v)
		}
	case JumpTo:
		if m.holds(instr.Cond) {
			next = instr.Target
		}
	}
	m.pc = next
	m.steps++
	return true
}

// Run steps until termination. limit <= 0 means no limit.
func (m *JumpMachine) Run(ctx context.Context, limit int) error {
	for i := 0; limit <= 0 || i < limit; i++ {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if !m.Step() {
			return nil
		}
	}
	if m.IsTerminated() {
		return nil
	}
	return machines.ErrStepLimit
}

// Apply flattens entry and runs it on the tuple encoding of args. limit bounds the steps, <= 0 means no bound.
func Apply(ctx context.Context, r *Registry, entry string, args []int, limit int) (int, *JumpMachine, error) {
	program, err := Flatten(r, entry)
	if err != nil {
		return 0, nil, err
	}
	m := NewJumpMachine(program, rectms.Encode(args))
	if err := m.Run(ctx, limit); err != nil {
		return 0, m, err
	}
	n, err := rectms.DecodeNumber(m.Tape())
	if err != nil {
		return 0, m, err
	}
	return n, m, nil
}
