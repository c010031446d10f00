package recirs

import (
	"errors"
	"testing"

	"github.com/reusee/rectm/faults"
	"github.com/reusee/rectm/tapes"
)

const sampleIR = `alphabet: (l, x, -)

fn main {
  start: {
    v := @
    @ := const x
    RT
    break if v == const -
    jump start if @ != v
    call other
    return
  }
  tail: {
    LT
    continue if @ == const l
  }
}

fn other {
  only: {
  }
}
`

func TestParse(t *testing.T) {
	p, err := Parse(sampleIR)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Alphabet) != 3 || p.Alphabet[2] != tapes.Blank {
		t.Fatalf("got %v", p.Alphabet)
	}
	main, ok := p.Lookup("main")
	if !ok {
		t.Fatal()
	}
	stmts := main.Blocks[0].Body
	if a, ok := stmts[0].(Assign); !ok || a.Dst != Var("v") || a.Src != (Head{}) {
		t.Fatalf("got %#v", stmts[0])
	}
	if a, ok := stmts[1].(Assign); !ok || a.Dst != (Head{}) || a.Src != Const("x") {
		t.Fatalf("got %#v", stmts[1])
	}
	if b, ok := stmts[3].(Break); !ok || b.Cond.Left != Var("v") || b.Cond.Right != Const(tapes.Blank) || b.Cond.Negative {
		t.Fatalf("got %#v", stmts[3])
	}
	if j, ok := stmts[4].(Jump); !ok || j.Label != "start" || !j.Cond.Negative {
		t.Fatalf("got %#v", stmts[4])
	}
	if r, ok := stmts[6].(Return); !ok || r.Cond != nil {
		t.Fatalf("got %#v", stmts[6])
	}
	if got := main.Callees(); len(got) != 1 || got[0] != "other" {
		t.Fatalf("got %v", got)
	}
	if got := main.Vars(); len(got) != 1 || got[0] != "v" {
		t.Fatalf("got %v", got)
	}

	// round trip
	if p.String() != sampleIR {
		t.Fatalf("got %s", p.String())
	}
	again, err := Parse(p.String())
	if err != nil {
		t.Fatal(err)
	}
	if again.String() != p.String() {
		t.Fatalf("got %s", again.String())
	}
}

func TestParseErrors(t *testing.T) {
	for _, c := range []struct {
		text string
		line int
	}{
		{"alphabet (l)", 1},
		{"alphabet: (l)\nfn f {\n  a: {\n    v = @\n  }\n}", 4},
		{"alphabet: (l)\nfn f {\n  a: {\n    jump b\n  }\n}", 2},
		{"alphabet: (l)\nfn f {\n  a: {\n    v := const\n  }\n}", 5},
		{"alphabet: (l)\nfn f {\n  a: {\n    break if v <> x\n  }\n}", 4},
		{"alphabet: (l)\nfn f {}\nfn f {}", 3},
		{"alphabet: (l)\nfn call {}", 2},
		{"alphabet: (l)\nfn f {\n  a: {\n    RT", 4},
		{"alphabet: (l!)", 1},
	} {
		_, err := Parse(c.text)
		var parseErr *faults.ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("%q: got %v", c.text, err)
		}
		if parseErr.Line != c.line {
			t.Fatalf("%q: got line %d", c.text, parseErr.Line)
		}
	}
}

func TestFragmentLibrary(t *testing.T) {
	lib, err := Fragments()
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{
		"zero", "succ", "normalize", "denormalize", "delete_cell",
		"dec_first", "inc_here", "append_zero", "clear_first",
	} {
		if _, ok := lib.Lookup(name); !ok {
			t.Fatalf("%s not found", name)
		}
	}
	r := NewRegistry()
	if err := lib.Register(r); err != nil {
		t.Fatal(err)
	}
	// idempotent
	if err := lib.Register(r); err != nil {
		t.Fatal(err)
	}
	if err := r.ValidateNoRecursion(); err != nil {
		t.Fatal(err)
	}
}
