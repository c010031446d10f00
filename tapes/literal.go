package tapes

import (
	"fmt"
	"strings"

	"github.com/reusee/rectm/faults"
)

// ParseTape reads the comma form "a,b|h|c,d".
func ParseTape(text string) (Tape, error) {
	return parseSegments(text, func(segment string) ([]Sign, error) {
		var ret []Sign
		for field := range strings.SplitSeq(segment, ",") {
			s, err := ParseSign(field)
			if err != nil {
				return nil, err
			}
			ret = append(ret, s)
		}
		return ret, nil
	})
}

// ParseCompactTape reads the form where every rune is one sign, "ab|h|cd". '-' and ' ' are blanks.
func ParseCompactTape(text string) (Tape, error) {
	return parseSegments(text, func(segment string) ([]Sign, error) {
		var ret []Sign
		for _, r := range segment {
			s, err := ParseSign(string(r))
			if err != nil {
				return nil, err
			}
			ret = append(ret, s)
		}
		return ret, nil
	})
}

func parseSegments(text string, parse func(string) ([]Sign, error)) (Tape, error) {
	parts := strings.Split(text, "|")
	if len(parts) != 3 {
		return Tape{}, &faults.ParseError{
			What: "tape",
			Text: text,
			Err:  fmt.Errorf("expecting left|head|right, got %d segments", len(parts)),
		}
	}
	left, err := parse(parts[0])
	if err != nil {
		return Tape{}, &faults.ParseError{What: "tape", Text: text, Err: err}
	}
	heads, err := parse(parts[1])
	if err != nil {
		return Tape{}, &faults.ParseError{What: "tape", Text: text, Err: err}
	}
	if len(heads) > 1 {
		return Tape{}, &faults.ParseError{
			What: "tape",
			Text: text,
			Err:  fmt.Errorf("head segment holds %d signs", len(heads)),
		}
	}
	right, err := parse(parts[2])
	if err != nil {
		return Tape{}, &faults.ParseError{What: "tape", Text: text, Err: err}
	}
	signs := append(left, heads...)
	if len(heads) == 0 {
		signs = append(signs, Blank)
	}
	signs = append(signs, right...)
	return FromSlice(signs, len(left))
}

func MustParseTape(text string) Tape {
	t, err := ParseTape(text)
	if err != nil {
		panic(err)
	}
	return t
}

// Literal is the comma form accepted by ParseTape, without far blank padding.
func (t Tape) Literal() string {
	var b strings.Builder
	left := trimFar(t.Left)
	for i, s := range left {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(s.String())
	}
	b.WriteString("|")
	b.WriteString(t.Head.String())
	b.WriteString("|")
	right := trimFar(t.Right)
	for i := len(right) - 1; i >= 0; i-- {
		if i < len(right)-1 {
			b.WriteString(",")
		}
		b.WriteString(right[i].String())
	}
	return b.String()
}
