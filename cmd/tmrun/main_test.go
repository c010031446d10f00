package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reusee/dscope"
	"github.com/reusee/rectm/configs"
	"github.com/reusee/rectm/machines"
	"github.com/reusee/rectm/modes"
	"github.com/reusee/rectm/tapes"
	"github.com/reusee/rectm/tmconfigs"
)

func newTestScope(t *testing.T, defs ...any) dscope.Scope {
	return dscope.New(
		new(Module),
		modes.ForTest(t),
	).Fork(
		append([]any{
			func() configs.Loader {
				return configs.NewLoader(nil, "")
			},
		}, defs...)...,
	)
}

func TestLoadMachine(t *testing.T) {
	m, err := loadMachine("testdata/flip.tm", "|l|x,l", false, "")
	if err != nil {
		t.Fatal(err)
	}
	if m.State() != "q0" || m.Tape().Literal() != "|l|x,l" {
		t.Fatalf("got %v %v", m.State(), m.Tape())
	}

	compact, err := loadMachine("testdata/flip.tm", "|l|xl", true, "")
	if err != nil {
		t.Fatal(err)
	}
	if !compact.Tape().Equal(m.Tape()) {
		t.Fatalf("got %v", compact.Tape())
	}

	// snapshot and resume
	m.StepN(2)
	path := filepath.Join(t.TempDir(), "snapshot")
	if err := writeSnapshot(path, m); err != nil {
		t.Fatal(err)
	}
	resumed, err := loadMachine("testdata/flip.tm", "", false, path)
	if err != nil {
		t.Fatal(err)
	}
	if resumed.Steps() != 2 || !resumed.Tape().Equal(m.Tape()) {
		t.Fatalf("got %d %v", resumed.Steps(), resumed.Tape())
	}

	if _, err := loadMachine("", "", false, ""); err == nil {
		t.Fatal("should fail")
	}
	if _, err := loadMachine("testdata/flip.tm", "l|x", false, ""); err == nil {
		t.Fatal("should fail")
	}
}

func TestWindow(t *testing.T) {
	tape := tapes.MustParseTape("a,b,c|d|e,f")
	cells, head, cutLeft, cutRight := window(tape, 1)
	if len(cells) != 3 || cells[head] != "d" || !cutLeft || !cutRight {
		t.Fatalf("got %v %d %v %v", cells, head, cutLeft, cutRight)
	}
	cells, head, cutLeft, cutRight = window(tape, 10)
	if len(cells) != 6 || head != 3 || cutLeft || cutRight {
		t.Fatalf("got %v %d %v %v", cells, head, cutLeft, cutRight)
	}
	if !strings.Contains(renderTape(tape), "d") {
		t.Fatal()
	}
}

func TestRunMachine(t *testing.T) {
	newTestScope(t).Call(func(
		run RunMachine,
	) {
		m, err := loadMachine("testdata/flip.tm", "|l|x,l", false, "")
		if err != nil {
			t.Fatal(err)
		}
		if err := run(t.Context(), m); err != nil {
			t.Fatal(err)
		}
		if !m.IsAccepted() || m.Steps() != 4 {
			t.Fatalf("got %v %d", m.State(), m.Steps())
		}
	})

	// traced and bounded
	newTestScope(t,
		func() tmconfigs.MaxSteps {
			return 3
		},
		func() tmconfigs.TraceEvery {
			return 2
		},
	).Call(func(
		run RunMachine,
	) {
		m, err := loadMachine("testdata/flip.tm", "|l|x,l,x,l", false, "")
		if err != nil {
			t.Fatal(err)
		}
		if err := run(t.Context(), m); !errors.Is(err, machines.ErrStepLimit) {
			t.Fatalf("got %v", err)
		}
		if m.Steps() != 3 {
			t.Fatalf("got %d", m.Steps())
		}
		// the bound applies per run
		if err := run(t.Context(), m); err != nil {
			t.Fatal(err)
		}
		if !m.IsAccepted() || m.Steps() != 6 {
			t.Fatalf("got %v %d", m.State(), m.Steps())
		}
	})
}

func TestConsole(t *testing.T) {
	newTestScope(t).Call(func(
		run RunMachine,
	) {
		m, err := loadMachine("testdata/flip.tm", "|l|x", false, "")
		if err != nil {
			t.Fatal(err)
		}
		buf := new(bytes.Buffer)
		c := &console{
			m:   m,
			run: run,
			out: buf,
		}
		ctx := t.Context()
		if err := c.exec(ctx, "s 2"); err != nil {
			t.Fatal(err)
		}
		if m.Steps() != 2 {
			t.Fatalf("got %d", m.Steps())
		}
		buf.Reset()
		if err := c.exec(ctx, "t"); err != nil {
			t.Fatal(err)
		}
		if buf.String() != "x,l|-|\n" {
			t.Fatalf("got %q", buf.String())
		}
		if err := c.exec(ctx, "r"); err != nil {
			t.Fatal(err)
		}
		if !m.IsAccepted() {
			t.Fatalf("got %v", m.State())
		}
		if err := c.exec(ctx, "s x"); err == nil {
			t.Fatal("should fail")
		}
		if err := c.exec(ctx, "foo"); err == nil {
			t.Fatal("should fail")
		}
		if err := c.exec(ctx, ""); err != nil {
			t.Fatal(err)
		}
		if err := c.exec(ctx, "q"); !errors.Is(err, errQuit) {
			t.Fatalf("got %v", err)
		}
	})
}

func TestRunBatchResume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot")
	newTestScope(t,
		func() tmconfigs.MaxSteps {
			return 3
		},
	).Call(func(
		run RunMachine,
	) {
		m, err := loadMachine("testdata/flip.tm", "|l|x,l,x,l", false, "")
		if err != nil {
			t.Fatal(err)
		}
		buf := new(bytes.Buffer)
		if err := runBatch(t.Context(), run, m, buf); err != nil {
			t.Fatal(err)
		}
		if m.IsTerminated() || m.Steps() != 3 {
			t.Fatalf("got %v %d", m.State(), m.Steps())
		}
		if !strings.Contains(buf.String(), "step bound reached") {
			t.Fatalf("got %q", buf.String())
		}
		if err := writeSnapshot(path, m); err != nil {
			t.Fatal(err)
		}

		resumed, err := loadMachine("testdata/flip.tm", "", false, path)
		if err != nil {
			t.Fatal(err)
		}
		if resumed.Steps() != 3 || !resumed.Tape().Equal(m.Tape()) {
			t.Fatalf("got %d %v", resumed.Steps(), resumed.Tape())
		}
		buf.Reset()
		if err := runBatch(t.Context(), run, resumed, buf); err != nil {
			t.Fatal(err)
		}
		if !resumed.IsAccepted() || resumed.Steps() != 6 {
			t.Fatalf("got %v %d", resumed.State(), resumed.Steps())
		}
		if strings.Contains(buf.String(), "step bound reached") {
			t.Fatalf("got %q", buf.String())
		}
	})

	// other errors are returned
	newTestScope(t).Call(func(
		run RunMachine,
	) {
		m, err := loadMachine("testdata/flip.tm", "|l|", false, "")
		if err != nil {
			t.Fatal(err)
		}
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		if err := runBatch(ctx, run, m, io.Discard); !errors.Is(err, context.Canceled) {
			t.Fatalf("got %v", err)
		}
	})
}
