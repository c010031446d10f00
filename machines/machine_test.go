package machines

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/reusee/rectm/faults"
	"github.com/reusee/rectm/tapes"
)

const flipSource = `start
end
a,start,b,start,R
b,start,b,start,R
-,start,-,end,C
`

func TestRunAccept(t *testing.T) {
	def, err := ParseDefinition(flipSource)
	if err != nil {
		t.Fatal(err)
	}
	m := New(def, tapes.MustParseTape("|a|b,a"))
	if m.IsTerminated() {
		t.Fatal("should not be terminated")
	}
	if err := m.Run(context.Background(), 0); err != nil {
		t.Fatal(err)
	}
	if !m.IsAccepted() {
		t.Fatalf("got %v", m.State())
	}
	if m.Steps() != 4 {
		t.Fatalf("got %d", m.Steps())
	}
	if !m.Tape().Equal(tapes.MustParseTape("b,b,b|-|")) {
		t.Fatalf("got %v", m.Tape())
	}
	// stepping a terminated machine is a no-op
	if m.Step() {
		t.Fatal("should not step")
	}
}

func TestRunReject(t *testing.T) {
	def, err := ParseDefinition(flipSource)
	if err != nil {
		t.Fatal(err)
	}
	m := New(def, tapes.MustParseTape("|a|c"))
	if n := m.StepN(10); n != 1 {
		t.Fatalf("got %d", n)
	}
	if !m.IsTerminated() {
		t.Fatal("should be terminated")
	}
	if m.IsAccepted() {
		t.Fatal("should not be accepted")
	}
	if m.State() != "start" {
		t.Fatalf("got %v", m.State())
	}
}

func TestStepLimit(t *testing.T) {
	def, err := NewDefinition("loop", nil, []Entry{
		{
			Key:   Key{Read: tapes.Blank, State: "loop"},
			Value: Value{Write: tapes.Blank, Next: "loop", Move: tapes.Right},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	m := New(def, tapes.Tape{})
	err = m.Run(context.Background(), 100)
	if !errors.Is(err, ErrStepLimit) {
		t.Fatalf("got %v", err)
	}
	if m.Steps() != 100 {
		t.Fatalf("got %d", m.Steps())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Run(ctx, 0); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}
}

func TestEmptyStateTerminates(t *testing.T) {
	def, err := NewDefinition("", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	m := New(def, tapes.Tape{})
	if !m.IsTerminated() {
		t.Fatal("should be terminated")
	}
	if m.IsAccepted() {
		t.Fatal("should not be accepted")
	}
}

func TestTransitions(t *testing.T) {
	def, err := ParseDefinition(flipSource)
	if err != nil {
		t.Fatal(err)
	}
	m := New(def, tapes.MustParseTape("|a|b"))
	var lines []string
	for entry := range m.Transitions {
		lines = append(lines, entry.String())
	}
	if str := strings.Join(lines, ";"); str != "a,start,b,start,R;b,start,b,start,R;-,start,-,end,C" {
		t.Fatalf("got %s", str)
	}
}

func TestParseDefinitionErrors(t *testing.T) {
	_, err := ParseDefinition("start\nend\na,start,b,start,R\na,start,b,start\n")
	var parseErr *faults.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("got %v", err)
	}
	if parseErr.Line != 4 {
		t.Fatalf("got %d", parseErr.Line)
	}

	_, err = ParseDefinition("st art\nend\n")
	if !errors.As(err, &parseErr) || parseErr.Line != 1 {
		t.Fatalf("got %v", err)
	}

	_, err = ParseDefinition("start\nend\n-,end,-,start,C\n")
	var validationErr *faults.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("got %v", err)
	}
}

func TestDefinitionString(t *testing.T) {
	def, err := ParseDefinition("start\nb, a\n# comment\n\n-,start,x,a,R\n")
	if err != nil {
		t.Fatal(err)
	}
	if str := def.String(); str != "start\na,b\n-,start,x,a,R\n" {
		t.Fatalf("got %q", str)
	}
	again, err := ParseDefinition(def.String())
	if err != nil {
		t.Fatal(err)
	}
	if again.Len() != 1 || again.Init() != "start" {
		t.Fatalf("got %v", again)
	}
	if signs := def.Signs(); len(signs) != 2 || signs[0] != tapes.Blank || signs[1] != "x" {
		t.Fatalf("got %v", signs)
	}
}

func TestSnapshot(t *testing.T) {
	def, err := ParseDefinition(flipSource)
	if err != nil {
		t.Fatal(err)
	}
	m := New(def, tapes.MustParseTape("|a|a,a"))
	m.StepN(2)
	data, err := m.Snapshot().Bytes()
	if err != nil {
		t.Fatal(err)
	}
	m.StepN(10)
	snapshot, err := DecodeSnapshot(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	m.Restore(snapshot)
	if m.Steps() != 2 {
		t.Fatalf("got %d", m.Steps())
	}
	if !m.Tape().Equal(tapes.MustParseTape("b,b|a|")) {
		t.Fatalf("got %v", m.Tape())
	}
}
