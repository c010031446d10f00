package machines

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/reusee/rectm/faults"
	"github.com/reusee/rectm/tapes"
)

// State is a control state label. The empty state never has transitions.
type State string

func ParseState(text string) (State, error) {
	text = strings.TrimSpace(text)
	if err := tapes.CheckName(text); err != nil {
		return "", err
	}
	return State(text), nil
}

func MustParseState(text string) State {
	s, err := ParseState(text)
	if err != nil {
		panic(err)
	}
	return s
}

type Key struct {
	Read  tapes.Sign
	State State
}

type Value struct {
	Write tapes.Sign
	Next  State
	Move  tapes.Direction
}

type Entry struct {
	Key
	Value
}

// Code is the transition function. A missing key halts the machine.
type Code map[Key]Value

// Entries are sorted by state then by read sign.
func (c Code) Entries() []Entry {
	ret := make([]Entry, 0, len(c))
	for k, v := range c {
		ret = append(ret, Entry{Key: k, Value: v})
	}
	slices.SortFunc(ret, func(a, b Entry) int {
		return cmp.Or(
			cmp.Compare(a.State, b.State),
			cmp.Compare(a.Read, b.Read),
		)
	})
	return ret
}

func (c Code) Clone() Code {
	ret := make(Code, len(c))
	for k, v := range c {
		ret[k] = v
	}
	return ret
}

// String is the five-field line "read,state,write,next,direction".
func (e Entry) String() string {
	return fmt.Sprintf("%s,%s,%s,%s,%s",
		e.Read, e.State, e.Write, e.Next, e.Move)
}

func ParseEntry(line string) (Entry, error) {
	fields := strings.Split(line, ",")
	if len(fields) != 5 {
		return Entry{}, fmt.Errorf("expecting 5 comma separated fields, got %d", len(fields))
	}
	read, err := tapes.ParseSign(fields[0])
	if err != nil {
		return Entry{}, err
	}
	state, err := ParseState(fields[1])
	if err != nil {
		return Entry{}, err
	}
	write, err := tapes.ParseSign(fields[2])
	if err != nil {
		return Entry{}, err
	}
	next, err := ParseState(fields[3])
	if err != nil {
		return Entry{}, err
	}
	move, err := tapes.ParseDirection(fields[4])
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		Key: Key{
			Read:  read,
			State: state,
		},
		Value: Value{
			Write: write,
			Next:  next,
			Move:  move,
		},
	}, nil
}

// ParseCode reads one entry per line. Blank lines and lines starting with '#' are skipped.
// lineOffset is added to reported line numbers.
func ParseCode(text string, lineOffset int) ([]Entry, error) {
	var ret []Entry
	for i, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		entry, err := ParseEntry(trimmed)
		if err != nil {
			return nil, &faults.ParseError{
				What: "code",
				Line: lineOffset + i + 1,
				Text: trimmed,
				Err:  err,
			}
		}
		ret = append(ret, entry)
	}
	return ret, nil
}

func MustParseCode(text string) []Entry {
	entries, err := ParseCode(text, 0)
	if err != nil {
		panic(err)
	}
	return entries
}
