package recfuncs

import (
	"context"
	"errors"
	"testing"

	"github.com/reusee/rectm/faults"
)

func TestConstructors(t *testing.T) {
	var validationErr *faults.ValidationError

	if _, err := NewProj(3, 3); !errors.As(err, &validationErr) {
		t.Fatalf("got %v", err)
	}
	if _, err := NewProj(3, -1); !errors.As(err, &validationErr) {
		t.Fatalf("got %v", err)
	}
	p, err := NewProj(3, 2)
	if err != nil {
		t.Fatal(err)
	}
	if p.Arity() != 3 {
		t.Fatalf("got %d", p.Arity())
	}

	if _, err := NewComp(Succ{}); !errors.As(err, &validationErr) {
		t.Fatalf("got %v", err)
	}
	if _, err := NewComp(Succ{}, p, Succ{}); !errors.As(err, &validationErr) {
		t.Fatalf("got %v", err)
	}
	proj20 := Proj{Length: 2, Index: 0}
	if _, err := NewComp(proj20, Succ{}, p); !errors.As(err, &validationErr) {
		t.Fatalf("got %v", err)
	}
	c, err := NewComp(Succ{}, p)
	if err != nil {
		t.Fatal(err)
	}
	if c.Arity() != 3 {
		t.Fatalf("got %d", c.Arity())
	}

	if _, err := NewPrim(Zero{}, Succ{}); !errors.As(err, &validationErr) {
		t.Fatalf("got %v", err)
	}
	prim, err := NewPrim(Zero{}, proj20)
	if err != nil {
		t.Fatal(err)
	}
	if prim.Arity() != 1 {
		t.Fatalf("got %d", prim.Arity())
	}

	if _, err := NewMu(Zero{}); !errors.As(err, &validationErr) {
		t.Fatalf("got %v", err)
	}
	mu, err := NewMu(proj20)
	if err != nil {
		t.Fatal(err)
	}
	if mu.Arity() != 1 {
		t.Fatalf("got %d", mu.Arity())
	}
	if IsTotal(mu) || !IsTotal(prim) {
		t.Fatal("bad totality")
	}
}

func TestEval(t *testing.T) {
	prelude := Prelude()
	ctx := context.Background()
	for _, c := range []struct {
		name     string
		args     []int
		expected int
	}{
		{"zero1", []int{7}, 0},
		{"pred", []int{0}, 0},
		{"pred", []int{5}, 4},
		{"add", []int{0, 0}, 0},
		{"add", []int{3, 4}, 7},
		{"mult", []int{3, 4}, 12},
		{"mult", []int{0, 4}, 0},
		{"sub", []int{2, 5}, 3},
		{"sub", []int{7, 5}, 0},
		{"ident", []int{0}, 0},
		{"ident", []int{4}, 4},
	} {
		t.Run(c.name, func(t *testing.T) {
			got, err := Eval(ctx, prelude.MustLookup(c.name), c.args, 100000)
			if err != nil {
				t.Fatal(err)
			}
			if got != c.expected {
				t.Fatalf("got %d", got)
			}
		})
	}
}

func TestEvalPrimitives(t *testing.T) {
	ctx := context.Background()
	if n, err := Eval(ctx, Zero{}, nil, 0); err != nil || n != 0 {
		t.Fatalf("got %d %v", n, err)
	}
	if n, err := Eval(ctx, Succ{}, []int{41}, 0); err != nil || n != 42 {
		t.Fatalf("got %d %v", n, err)
	}
	if n, err := Eval(ctx, Proj{Length: 3, Index: 1}, []int{3, 1, 2}, 0); err != nil || n != 1 {
		t.Fatalf("got %d %v", n, err)
	}
	var validationErr *faults.ValidationError
	if _, err := Eval(ctx, Succ{}, []int{1, 2}, 0); !errors.As(err, &validationErr) {
		t.Fatalf("got %v", err)
	}
	if _, err := Eval(ctx, Succ{}, []int{-1}, 0); !errors.As(err, &validationErr) {
		t.Fatalf("got %v", err)
	}
}

func TestEvalFuel(t *testing.T) {
	f, err := ParseFunc("MUOP[COMP[SUCC: (PROJ[2,0])]]")
	if err != nil {
		t.Fatal(err)
	}
	_, err = Eval(context.Background(), f, []int{3}, 1000)
	if !errors.Is(err, ErrFuelExhausted) {
		t.Fatalf("got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Eval(ctx, f, []int{3}, 0)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}
}
