package tapes

import (
	"slices"
	"strings"

	"github.com/reusee/rectm/faults"
)

// Tape is unbounded in both directions.
// Left and Right keep the cell nearest to the head last, so moving is a pop and a push.
// Cells that were never materialized read as Blank.
type Tape struct {
	Left  []Sign
	Head  Sign
	Right []Sign
}

// FromSlice places the head on signs[pos]. pos may equal len(signs), the head is then a blank cell.
func FromSlice(signs []Sign, pos int) (Tape, error) {
	if pos < 0 || pos > len(signs) {
		return Tape{}, &faults.IndexError{
			What:  "head position",
			Index: pos,
			Len:   len(signs) + 1,
		}
	}
	t := Tape{
		Left: slices.Clone(signs[:pos]),
	}
	if pos < len(signs) {
		t.Head = signs[pos]
		t.Right = slices.Clone(signs[pos+1:])
		slices.Reverse(t.Right)
	}
	return t, nil
}

func MustFromSlice(signs []Sign, pos int) Tape {
	t, err := FromSlice(signs, pos)
	if err != nil {
		panic(err)
	}
	return t
}

// Slice returns the materialized cells from left to right and the head index.
func (t Tape) Slice() ([]Sign, int) {
	ret := make([]Sign, 0, len(t.Left)+1+len(t.Right))
	ret = append(ret, t.Left...)
	ret = append(ret, t.Head)
	for i := len(t.Right) - 1; i >= 0; i-- {
		ret = append(ret, t.Right[i])
	}
	return ret, len(t.Left)
}

func (t Tape) Read() Sign {
	return t.Head
}

func (t *Tape) Write(s Sign) {
	t.Head = s
}

// Move pops the next cell from the side it moves to, synthesizing a blank when that side is exhausted.
func (t *Tape) Move(d Direction) {
	switch d {
	case Left:
		t.Right = append(t.Right, t.Head)
		t.Head = pop(&t.Left)
	case Right:
		t.Left = append(t.Left, t.Head)
		t.Head = pop(&t.Right)
	}
}

func pop(side *[]Sign) Sign {
	n := len(*side)
	if n == 0 {
		return Blank
	}
	s := (*side)[n-1]
	*side = (*side)[:n-1]
	return s
}

func (t Tape) Clone() Tape {
	return Tape{
		Left:  slices.Clone(t.Left),
		Head:  t.Head,
		Right: slices.Clone(t.Right),
	}
}

// Equal ignores blank padding at the far ends of both sides.
func (t Tape) Equal(other Tape) bool {
	return t.Head == other.Head &&
		slices.Equal(trimFar(t.Left), trimFar(other.Left)) &&
		slices.Equal(trimFar(t.Right), trimFar(other.Right))
}

// both sides keep the far end at index 0
func trimFar(side []Sign) []Sign {
	i := 0
	for i < len(side) && side[i] == Blank {
		i++
	}
	return side[i:]
}

// Signs returns the distinct signs written on the tape, blank included.
func (t Tape) Signs() []Sign {
	signs, _ := t.Slice()
	slices.Sort(signs)
	return slices.Compact(signs)
}

// String renders cells as [a][b]{head}[c].
func (t Tape) String() string {
	var b strings.Builder
	signs, pos := t.Slice()
	for i, s := range signs {
		if i == pos {
			b.WriteString("{")
			b.WriteString(s.String())
			b.WriteString("}")
			continue
		}
		b.WriteString("[")
		b.WriteString(s.String())
		b.WriteString("]")
	}
	return b.String()
}
