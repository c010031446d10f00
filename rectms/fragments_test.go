package rectms

import (
	"context"
	"testing"

	"github.com/reusee/rectm/builders"
	"github.com/reusee/rectm/tapes"
)

func runFragment(t *testing.T, b *builders.Builder, input string) *tapes.Tape {
	t.Helper()
	m, err := b.BuildWith(tapes.MustParseTape(input))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Run(context.Background(), 100000); err != nil {
		t.Fatal(err)
	}
	if !m.IsAccepted() {
		t.Fatalf("%s: rejected in state %s, tape %v", b.Name(), m.State(), m.Tape())
	}
	tape := m.Tape()
	return &tape
}

func TestFragments(t *testing.T) {
	for _, c := range []struct {
		name     string
		builder  *builders.Builder
		input    string
		expected string
	}{
		{"zero", zero(), "|x|l,x,l,l,x", "|x|x"},
		{"zero empty", zero(), "|x|", "|x|x"},
		{"succ", succ(), "|x|l,x", "|x|l,l,x"},
		{"succ zero", succ(), "|x|x", "|x|l,x"},
		{"normalize", normalize(), "|x|-,l,l,-,-,l,x", "|x|l,l,x,x,l,x"},
		{"normalize empty", normalize(), "|x|x", "|x|"},
		{"normalize zero", normalize(), "|x|-,x", "|x|x"},
		{"denormalize", denormalize(), "|x|l,l,x", "|x|-,l,l,x"},
		{"denormalize zero", denormalize(), "|x|x", "|x|-,x"},
		{"truncate", truncate(2), "|x|l,x,x,l,l,x", "|x|l,x,x"},
		{"truncate all", truncate(0), "|x|l,x,l,x", "|x|"},
		{"drop prefix", dropPrefix(2), "|x|l,x,x,l,l,x", "|x|l,l,x"},
		{"drop prefix keeps left", dropPrefix(1), "l,x|x|l,x,l,x", "l,x|x|l,x"},
		{"copy", copyTuple(2), "|x|l,x,l,l,x", "|x|l,x,l,l,x,l,x,l,l,x"},
		{"copy prefix", copyTuple(1), "|x|l,x,l,l,x", "|x|l,x,l,l,x,l,x"},
		{"move right", moveRight(2), "|x|l,x,l,l,x", "x,l,x,l,l|x|"},
		{"move left", moveLeft(2), "x,l,x,l,l|x|", "|x|l,x,l,l,x"},
		{"inc", incHere(), "|x|l,x,l,x", "|x|l,l,x,l,x"},
		{"inc zero", incHere(), "|x|x", "|x|l,x"},
		{"test dec", testDec(), "|x|l,l,x,l,x", "|x|l,x,l,x"},
		{"append zero", appendZero(), "|x|l,x", "|x|l,x,x"},
		{"append zero empty", appendZero(), "|x|", "|x|x"},
		{"clear first", clearFirst(), "|x|l,l,l,x,l,x", "|x|x,l,x"},
		{"clear first zero", clearFirst(), "|x|x,l,x", "|x|x,l,x"},
	} {
		t.Run(c.name, func(t *testing.T) {
			got := runFragment(t, c.builder, c.input)
			if !got.Equal(tapes.MustParseTape(c.expected)) {
				t.Fatalf("got %v", got)
			}
		})
	}
}

func TestBranchFragments(t *testing.T) {
	m, err := testDec().BuildWith(tapes.MustParseTape("|x|x,l,x"))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Run(context.Background(), 1000); err != nil {
		t.Fatal(err)
	}
	if m.State() != "endZ" || !m.Tape().Equal(tapes.MustParseTape("|x|x,l,x")) {
		t.Fatalf("got %v %v", m.State(), m.Tape())
	}

	for input, expected := range map[string]string{
		"|x|x":     "endT",
		"|x|l,l,x": "endF",
	} {
		m, err := isZero().BuildWith(tapes.MustParseTape(input))
		if err != nil {
			t.Fatal(err)
		}
		if err := m.Run(context.Background(), 1000); err != nil {
			t.Fatal(err)
		}
		if string(m.State()) != expected || !m.Tape().Equal(tapes.MustParseTape(input)) {
			t.Fatalf("got %v %v", m.State(), m.Tape())
		}
	}
}

func TestNoOpFragments(t *testing.T) {
	if dropPrefix(0) != nil || copyTuple(0) != nil || moveRight(0) != nil || moveLeft(0) != nil {
		t.Fatal("should be nil")
	}
	b, err := series("empty", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	got := runFragment(t, b, "|x|l,x")
	if !got.Equal(tapes.MustParseTape("|x|l,x")) {
		t.Fatalf("got %v", got)
	}
}
