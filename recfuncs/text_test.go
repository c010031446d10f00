package recfuncs

import (
	"errors"
	"reflect"
	"testing"

	"github.com/reusee/rectm/faults"
)

func TestParseText(t *testing.T) {
	for _, c := range []struct {
		text     string
		expected Func
	}{
		{"ZERO", Zero{}},
		{"SUCC", Succ{}},
		{"PROJ[3, 0]", Proj{Length: 3, Index: 0}},
		{"COMP[SUCC: (ZERO)]", Comp{Length: 0, Outer: Succ{}, Inner: []Func{Zero{}}}},
		{"PRIM[z: ZERO s: PROJ[2, 0] ]", Prim{Base: Zero{}, Step: Proj{Length: 2, Index: 0}}},
		{"MUOP[SUCC]", Mu{F: Succ{}}},
		{"MUOP[MUOP[PROJ[3, 0]]]", Mu{F: Mu{F: Proj{Length: 3, Index: 0}}}},
		{"let f = PROJ[2,1].\nlet g = SUCC.\nCOMP[f: (g, g)]", Comp{
			Length: 1,
			Outer:  Proj{Length: 2, Index: 1},
			Inner:  []Func{Succ{}, Succ{}},
		}},
		{"# comment\nlet main = SUCC.\n", Succ{}},
	} {
		f, err := ParseFunc(c.text)
		if err != nil {
			t.Fatalf("%s: %v", c.text, err)
		}
		if !reflect.DeepEqual(f, c.expected) {
			t.Fatalf("%s: got %v", c.text, f)
		}
		again, err := ParseFunc(f.String())
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(again, f) {
			t.Fatalf("got %v", again)
		}
	}
}

func TestParseTextErrors(t *testing.T) {
	for _, c := range []struct {
		text string
		line int
	}{
		{"", 0},
		{"PROJ[2, 2]", 1},
		{"let f = ZERO.\nlet f = SUCC.\nf", 2},
		{"let f = ZERO.\ng", 2},
		{"SUCC\nSUCC", 2},
		{"let f = ZERO.\n", 1},
		{"COMP[SUCC: (PROJ[2,0], PROJ[2,1])]", 1},
		{"ZERO!", 1},
		{"PRIM[z: ZERO\ns: SUCC]", 1},
	} {
		_, err := ParseText(c.text)
		var parseErr *faults.ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("%q: got %v", c.text, err)
		}
		if parseErr.Line != c.line {
			t.Fatalf("%q: got line %d", c.text, parseErr.Line)
		}
	}

	_, err := ParseText("PROJ[2, 2]")
	var validationErr *faults.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("got %v", err)
	}
}

func TestProgramString(t *testing.T) {
	prelude := Prelude()
	again, err := ParseText(prelude.String())
	if err != nil {
		t.Fatal(err)
	}
	if len(again.Definitions) != len(prelude.Definitions) {
		t.Fatalf("got %d", len(again.Definitions))
	}
	if !reflect.DeepEqual(again.Main, prelude.MustLookup("add")) {
		t.Fatalf("got %v", again.Main)
	}
}
