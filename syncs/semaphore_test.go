package syncs

import (
	"context"
	"errors"
	"testing"
)

func TestSemaphore(t *testing.T) {
	s := NewSemaphore(1)
	if err := s.Acquire(t.Context()); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	if err := s.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}
	s.Release()
	if err := s.Acquire(ctx); err != nil && !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}

	if cap(NewSemaphore(0)) != 1 {
		t.Fatal()
	}
}
