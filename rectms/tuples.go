package rectms

import (
	"context"
	"fmt"

	"github.com/reusee/rectm/builders"
	"github.com/reusee/rectm/faults"
	"github.com/reusee/rectm/machines"
	"github.com/reusee/rectm/tapes"
)

// Encode writes a tuple as "x - l^a1 - l^a2 ... - l^an x" with the head on the first partition.
func Encode(args []int) tapes.Tape {
	signs := []tapes.Sign{Partition}
	for _, arg := range args {
		signs = append(signs, blank)
		for range arg {
			signs = append(signs, Tally)
		}
	}
	signs = append(signs, Partition)
	return tapes.MustFromSlice(signs, 0)
}

// Decode reads a tuple written by Encode, starting at the head.
func Decode(tape tapes.Tape) ([]int, error) {
	signs, pos := tape.Slice()
	at := func(i int) tapes.Sign {
		if i < len(signs) {
			return signs[i]
		}
		return blank
	}
	if at(pos) != Partition {
		return nil, &faults.ValidationError{
			What:   "tuple tape",
			Reason: fmt.Sprintf("head reads %s, expecting %s", at(pos), Partition),
		}
	}
	ret := []int{}
	i := pos + 1
	for {
		switch at(i) {
		case Partition:
			return ret, nil
		case blank:
			if i >= len(signs) {
				return nil, &faults.ValidationError{
					What:   "tuple tape",
					Reason: "missing closing partition",
				}
			}
			n := 0
			i++
			for at(i) == Tally {
				n++
				i++
			}
			ret = append(ret, n)
		default:
			return nil, &faults.ValidationError{
				What:   "tuple tape",
				Reason: fmt.Sprintf("unexpected sign %s at %d", at(i), i-pos),
			}
		}
	}
}

// DecodeNumber reads a 1-tuple.
func DecodeNumber(tape tapes.Tape) (int, error) {
	tuple, err := Decode(tape)
	if err != nil {
		return 0, err
	}
	if len(tuple) != 1 {
		return 0, &faults.ValidationError{
			What:   "tuple tape",
			Reason: fmt.Sprintf("expecting one number, got %v", tuple),
		}
	}
	return tuple[0], nil
}

// Apply runs a compiled builder on args. limit bounds the steps, <= 0 means no bound.
// The returned machine is in its final configuration, also on error.
func Apply(ctx context.Context, b *builders.Builder, args []int, limit int) (int, *machines.Machine, error) {
	m, err := b.BuildWith(Encode(args))
	if err != nil {
		return 0, nil, err
	}
	if err := m.Run(ctx, limit); err != nil {
		return 0, m, err
	}
	if !m.IsAccepted() {
		return 0, m, fmt.Errorf("machine rejected in state %s after %d steps", m.State(), m.Steps())
	}
	n, err := DecodeNumber(m.Tape())
	if err != nil {
		return 0, m, err
	}
	return n, m, nil
}
