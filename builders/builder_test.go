package builders

import (
	"context"
	"errors"
	"testing"

	"github.com/reusee/rectm/faults"
	"github.com/reusee/rectm/machines"
	"github.com/reusee/rectm/tapes"
)

func TestNewName(t *testing.T) {
	if _, err := New("add_1"); err != nil {
		t.Fatal(err)
	}
	var nameErr *faults.NameError
	if _, err := New("1add"); !errors.As(err, &nameErr) {
		t.Fatalf("got %v", err)
	}
	if _, err := New(""); !errors.As(err, &nameErr) {
		t.Fatalf("got %v", err)
	}
}

func TestBuildMissing(t *testing.T) {
	b := MustNew("b")
	var buildErr *faults.BuildError
	if _, err := b.Build(); !errors.As(err, &buildErr) || buildErr.Missing != "input tape" {
		t.Fatalf("got %v", err)
	}
	b.Input(tapes.MustParseTape("||"))
	if _, err := b.Build(); !errors.As(err, &buildErr) || buildErr.Missing != "init state" {
		t.Fatalf("got %v", err)
	}
	b.SetInit("start")
	if _, err := b.Build(); !errors.As(err, &buildErr) || buildErr.Missing != "accepted states" {
		t.Fatalf("got %v", err)
	}
	b.SetAccepted()
	if _, err := b.Build(); err != nil {
		t.Fatal(err)
	}
}

func TestFromSource(t *testing.T) {
	b := MustNew("b")
	if err := b.FromSource(`start
end, done
# flip
a,start,b,start,R
-,start,-,end,C
`); err != nil {
		t.Fatal(err)
	}
	if b.Init() != "start" {
		t.Fatalf("got %v", b.Init())
	}
	if acc := b.Accepted(); len(acc) != 2 || acc[0] != "end" || acc[1] != "done" {
		t.Fatalf("got %v", acc)
	}
	if b.Len() != 2 {
		t.Fatalf("got %d", b.Len())
	}

	// last write wins
	b.Push(machines.Entry{
		Key:   machines.Key{Read: "a", State: "start"},
		Value: machines.Value{Write: "c", Next: "start", Move: tapes.Right},
	})
	if b.Len() != 2 || b.Code()[machines.Key{Read: "a", State: "start"}].Write != "c" {
		t.Fatalf("got %v", b.Code())
	}

	m, err := b.BuildWith(tapes.MustParseTape("|a|a"))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Run(context.Background(), 0); err != nil {
		t.Fatal(err)
	}
	if !m.IsAccepted() || !m.Tape().Equal(tapes.MustParseTape("c,c||")) {
		t.Fatalf("got %v %v", m.State(), m.Tape())
	}
}

func TestFromSourceAtomic(t *testing.T) {
	b := MustNew("b")
	b.SetInit("s")
	err := b.FromSource("start\nend\na,start,b,start,R\na,start,b\n")
	var parseErr *faults.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("got %v", err)
	}
	if parseErr.Line != 4 {
		t.Fatalf("got %d", parseErr.Line)
	}
	if b.Len() != 0 || b.Init() != "s" {
		t.Fatal("should not change")
	}
}

func TestFromSourceCodeOnly(t *testing.T) {
	b := MustNew("b")
	if err := b.FromSource("a,start,b,start,R\n"); err != nil {
		t.Fatal(err)
	}
	if b.Init() != "" || b.Len() != 1 {
		t.Fatalf("got %v %d", b.Init(), b.Len())
	}
}

func TestFromSourceManyAccepted(t *testing.T) {
	b := MustNew("b")
	if err := b.FromSource("start\na,b,c,d,e\nx,start,x,a,R\n"); err != nil {
		t.Fatal(err)
	}
	if acc := b.Accepted(); len(acc) != 5 || acc[0] != "a" || acc[4] != "e" {
		t.Fatalf("got %v", acc)
	}
	if b.Init() != "start" || b.Len() != 1 {
		t.Fatalf("got %v %d", b.Init(), b.Len())
	}

	// a bad first entry in a code only listing is still a code error
	err := MustNew("c").FromSource("a,start,b,start,Q\n")
	var parseErr *faults.ParseError
	if !errors.As(err, &parseErr) || parseErr.Line != 1 {
		t.Fatalf("got %v", err)
	}
}

func TestBuildFreezes(t *testing.T) {
	b := MustNew("b")
	if err := b.FromSource("start\nend\n-,start,x,end,C\n"); err != nil {
		t.Fatal(err)
	}
	m, err := b.BuildWith(tapes.Tape{})
	if err != nil {
		t.Fatal(err)
	}
	b.Push(machines.Entry{
		Key:   machines.Key{Read: tapes.Blank, State: "start"},
		Value: machines.Value{Write: "y", Next: "end", Move: tapes.Stay},
	})
	m.StepN(1)
	if m.Tape().Read() != "x" {
		t.Fatalf("got %v", m.Tape())
	}
}
