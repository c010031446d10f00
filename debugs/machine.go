package debugs

import (
	"context"

	"github.com/reusee/rectm/machines"
)

// InspectMachine opens a tap with accessors bound to m. Stepping in the REPL advances m.
type InspectMachine func(ctx context.Context, what string, m *machines.Machine)

func (Module) InspectMachine(
	tap Tap,
) InspectMachine {
	return func(ctx context.Context, what string, m *machines.Machine) {
		tap(ctx, what, MachineGlobals(m))
	}
}

// MachineGlobals are the REPL bindings of a machine.
func MachineGlobals(m *machines.Machine) map[string]any {
	return map[string]any{
		"state": func() string {
			return string(m.State())
		},
		"steps": func() int {
			return m.Steps()
		},
		"tape": func() string {
			return m.Tape().Literal()
		},
		"head": func() string {
			return m.Tape().Read().String()
		},
		"step": func(n int) int {
			return m.StepN(n)
		},
		"terminated": func() bool {
			return m.IsTerminated()
		},
		"accepted": func() bool {
			return m.IsAccepted()
		},
		"definition": func() string {
			return m.Definition().String()
		},
	}
}
