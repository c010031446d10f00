package machines

import (
	"fmt"
	"slices"
	"strings"

	"github.com/reusee/rectm/faults"
	"github.com/reusee/rectm/tapes"
)

// Definition is immutable once built.
type Definition struct {
	init     State
	accepted map[State]bool
	code     Code
}

// NewDefinition fails when an entry is keyed on an accepted state. Later entries overwrite earlier ones with the same key.
func NewDefinition(init State, accepted []State, entries []Entry) (*Definition, error) {
	def := &Definition{
		init:     init,
		accepted: make(map[State]bool, len(accepted)),
		code:     make(Code, len(entries)),
	}
	for _, s := range accepted {
		def.accepted[s] = true
	}
	for _, e := range entries {
		if def.accepted[e.State] {
			return nil, &faults.ValidationError{
				What:   "definition",
				Reason: fmt.Sprintf("code entry %s is keyed on accepted state %s", e, e.State),
			}
		}
		def.code[e.Key] = e.Value
	}
	return def, nil
}

func (d *Definition) Init() State {
	return d.init
}

func (d *Definition) Accepted() []State {
	ret := make([]State, 0, len(d.accepted))
	for s := range d.accepted {
		ret = append(ret, s)
	}
	slices.Sort(ret)
	return ret
}

func (d *Definition) IsAccepted(s State) bool {
	return d.accepted[s]
}

func (d *Definition) Lookup(key Key) (Value, bool) {
	v, ok := d.code[key]
	return v, ok
}

func (d *Definition) Entries() []Entry {
	return d.code.Entries()
}

func (d *Definition) Len() int {
	return len(d.code)
}

// Signs lists every sign read or written by the code, sorted.
func (d *Definition) Signs() []tapes.Sign {
	var ret []tapes.Sign
	for k, v := range d.code {
		ret = append(ret, k.Read, v.Write)
	}
	slices.Sort(ret)
	return slices.Compact(ret)
}

// States lists the init state, the accepted states and every state mentioned by the code, sorted.
func (d *Definition) States() []State {
	ret := []State{d.init}
	for s := range d.accepted {
		ret = append(ret, s)
	}
	for k, v := range d.code {
		ret = append(ret, k.State, v.Next)
	}
	slices.Sort(ret)
	return slices.Compact(ret)
}

// String is the text form read by ParseDefinition.
func (d *Definition) String() string {
	var b strings.Builder
	b.WriteString(string(d.init))
	b.WriteString("\n")
	for i, s := range d.Accepted() {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(string(s))
	}
	b.WriteString("\n")
	for _, e := range d.Entries() {
		b.WriteString(e.String())
		b.WriteString("\n")
	}
	return b.String()
}

// ParseDefinition reads the init state on the first line, the accepted states on the second line, then code entries.
func ParseDefinition(text string) (*Definition, error) {
	lines := strings.SplitN(text, "\n", 3)
	if len(lines) < 2 {
		return nil, &faults.ParseError{
			What: "definition",
			Line: len(lines),
			Err:  fmt.Errorf("expecting init state and accepted states lines"),
		}
	}
	init, err := ParseState(lines[0])
	if err != nil {
		return nil, &faults.ParseError{
			What: "init state",
			Line: 1,
			Text: lines[0],
			Err:  err,
		}
	}
	accepted, err := ParseStates(lines[1])
	if err != nil {
		return nil, &faults.ParseError{
			What: "accepted states",
			Line: 2,
			Text: lines[1],
			Err:  err,
		}
	}
	var entries []Entry
	if len(lines) == 3 {
		entries, err = ParseCode(lines[2], 2)
		if err != nil {
			return nil, err
		}
	}
	return NewDefinition(init, accepted, entries)
}

// ParseStates splits on commas and whitespace.
func ParseStates(text string) ([]State, error) {
	var ret []State
	for _, field := range strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\r'
	}) {
		s, err := ParseState(field)
		if err != nil {
			return nil, err
		}
		ret = append(ret, s)
	}
	return ret, nil
}
