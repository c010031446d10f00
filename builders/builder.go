package builders

import (
	"slices"
	"strings"

	"github.com/reusee/rectm/faults"
	"github.com/reusee/rectm/machines"
	"github.com/reusee/rectm/tapes"
)

// Builder accumulates a machine definition. Each Build freezes the current code into a new Definition.
type Builder struct {
	name        string
	code        machines.Code
	init        machines.State
	accepted    []machines.State
	hasAccepted bool
	tape        *tapes.Tape
}

func New(name string) (*Builder, error) {
	if err := tapes.CheckIdentifier(name); err != nil {
		return nil, err
	}
	return &Builder{
		name: name,
		code: make(machines.Code),
	}, nil
}

func MustNew(name string) *Builder {
	b, err := New(name)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) Name() string {
	return b.name
}

// Push inserts entries, replacing existing entries with the same key.
func (b *Builder) Push(entries ...machines.Entry) *Builder {
	for _, e := range entries {
		b.code[e.Key] = e.Value
	}
	return b
}

// SetCode replaces the whole code.
func (b *Builder) SetCode(entries []machines.Entry) *Builder {
	b.code = make(machines.Code, len(entries))
	return b.Push(entries...)
}

func (b *Builder) SetInit(s machines.State) *Builder {
	b.init = s
	return b
}

func (b *Builder) SetAccepted(states ...machines.State) *Builder {
	b.accepted = slices.Clone(states)
	b.hasAccepted = true
	return b
}

func (b *Builder) Input(tape tapes.Tape) *Builder {
	t := tape.Clone()
	b.tape = &t
	return b
}

func (b *Builder) Init() machines.State {
	return b.init
}

func (b *Builder) Accepted() []machines.State {
	return slices.Clone(b.accepted)
}

func (b *Builder) Code() machines.Code {
	return b.code.Clone()
}

func (b *Builder) Len() int {
	return len(b.code)
}

// Signs lists every sign read or written by the code, sorted.
func (b *Builder) Signs() []tapes.Sign {
	var ret []tapes.Sign
	for k, v := range b.code {
		ret = append(ret, k.Read, v.Write)
	}
	slices.Sort(ret)
	return slices.Compact(ret)
}

// HasState reports whether s is the init state or appears in the code.
func (b *Builder) HasState(s machines.State) bool {
	if s == b.init {
		return true
	}
	for k, v := range b.code {
		if k.State == s || v.Next == s {
			return true
		}
	}
	return false
}

func (b *Builder) Clone() *Builder {
	ret := &Builder{
		name:        b.name,
		code:        b.code.Clone(),
		init:        b.init,
		accepted:    slices.Clone(b.accepted),
		hasAccepted: b.hasAccepted,
	}
	if b.tape != nil {
		t := b.tape.Clone()
		ret.tape = &t
	}
	return ret
}

// FromSource loads a listing. A listing is either code only, or an init state line followed by an accepted states line and then code.
// A state never contains a comma, so a first line with one starts the code.
// Nothing is changed when the listing is malformed.
func (b *Builder) FromSource(text string) error {
	lines := strings.Split(text, "\n")
	var headers []int
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if len(headers) == 0 && strings.Contains(trimmed, ",") {
			break
		}
		headers = append(headers, i)
		if len(headers) == 2 {
			break
		}
	}

	var init machines.State
	var accepted []machines.State
	codeStart := 0
	if len(headers) > 0 {
		s, err := machines.ParseState(lines[headers[0]])
		if err != nil {
			return &faults.ParseError{
				What: "init state",
				Line: headers[0] + 1,
				Text: lines[headers[0]],
				Err:  err,
			}
		}
		init = s
		codeStart = headers[0] + 1
	}
	if len(headers) > 1 {
		states, err := machines.ParseStates(lines[headers[1]])
		if err != nil {
			return &faults.ParseError{
				What: "accepted states",
				Line: headers[1] + 1,
				Text: lines[headers[1]],
				Err:  err,
			}
		}
		accepted = states
		codeStart = headers[1] + 1
	}

	entries, err := machines.ParseCode(strings.Join(lines[codeStart:], "\n"), codeStart)
	if err != nil {
		return err
	}

	if len(headers) > 0 {
		b.init = init
	}
	if len(headers) > 1 {
		b.accepted = accepted
		b.hasAccepted = true
	}
	b.Push(entries...)
	return nil
}

func (b *Builder) Definition() (*machines.Definition, error) {
	if b.init == "" {
		return nil, &faults.BuildError{
			Builder: b.name,
			Missing: "init state",
		}
	}
	if !b.hasAccepted {
		return nil, &faults.BuildError{
			Builder: b.name,
			Missing: "accepted states",
		}
	}
	return machines.NewDefinition(b.init, b.accepted, b.code.Entries())
}

// Build uses the tape set by Input.
func (b *Builder) Build() (*machines.Machine, error) {
	if b.tape == nil {
		return nil, &faults.BuildError{
			Builder: b.name,
			Missing: "input tape",
		}
	}
	return b.BuildWith(*b.tape)
}

func (b *Builder) BuildWith(tape tapes.Tape) (*machines.Machine, error) {
	def, err := b.Definition()
	if err != nil {
		return nil, err
	}
	return machines.New(def, tape), nil
}
