package machines

import (
	"context"
	"errors"

	"github.com/reusee/rectm/tapes"
)

var ErrStepLimit = errors.New("step limit reached")

// Machine is a definition running on a tape. It is not safe for concurrent use.
type Machine struct {
	def   *Definition
	state State
	tape  tapes.Tape
	steps int
}

func New(def *Definition, tape tapes.Tape) *Machine {
	return &Machine{
		def:   def,
		state: def.init,
		tape:  tape.Clone(),
	}
}

func (m *Machine) Definition() *Definition {
	return m.def
}

func (m *Machine) State() State {
	return m.state
}

// Tape returns a copy.
func (m *Machine) Tape() tapes.Tape {
	return m.tape.Clone()
}

func (m *Machine) Steps() int {
	return m.steps
}

func (m *Machine) IsTerminated() bool {
	if m.state == "" {
		return true
	}
	_, ok := m.def.Lookup(Key{
		Read:  m.tape.Read(),
		State: m.state,
	})
	return !ok
}

// IsAccepted is false while running. A terminated machine in a non-accepted state is rejected.
func (m *Machine) IsAccepted() bool {
	return m.IsTerminated() && m.def.IsAccepted(m.state)
}

// Step performs one transition. It reports false when the machine was already terminated.
func (m *Machine) Step() bool {
	if m.state == "" {
		return false
	}
	v, ok := m.def.Lookup(Key{
		Read:  m.tape.Read(),
		State: m.state,
	})
	if !ok {
		return false
	}
	m.tape.Write(v.Write)
	m.state = v.Next
	m.tape.Move(v.Move)
	m.steps++
	return true
}

// StepN performs at most n transitions and returns how many were performed.
// A result below n means the machine terminated.
func (m *Machine) StepN(n int) int {
	for i := 0; i < n; i++ {
		if !m.Step() {
			return i
		}
	}
	return n
}

// Run steps until termination. limit <= 0 means no limit.
func (m *Machine) Run(ctx context.Context, limit int) error {
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
	return ErrStepLimit
}

// Transitions yields every performed step until termination.
func (m *Machine) Transitions(yield func(Entry) bool) {
	for {
		key := Key{
			Read:  m.tape.Read(),
			State: m.state,
		}
		if !m.Step() {
			return
		}
		v, _ := m.def.Lookup(key)
		if !yield(Entry{Key: key, Value: v}) {
			return
		}
	}
}
