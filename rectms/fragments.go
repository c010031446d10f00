package rectms

import (
	_ "embed"
	"fmt"

	"github.com/reusee/rectm/builders"
	"github.com/reusee/rectm/machines"
	"github.com/reusee/rectm/tapes"
)

// Fragments work on the packed form: a tuple of n numbers is "x l^a1 x l^a2 ... x l^an x",
// components share partitions, and the data ends at the first blank.
// Every fragment starts with the head on the opening partition of its tuple, which must be the last data on the tape,
// and stops in "end" with the head back on that partition. Nothing left of the opening is touched.

var (
	//go:embed fragments/zero.txt
	zeroSource string
	//go:embed fragments/succ.txt
	succSource string
	//go:embed fragments/is_zero.txt
	isZeroSource string
	//go:embed fragments/denormalize.txt
	denormalizeSource string
)

const (
	left  = tapes.Left
	right = tapes.Right
	stay  = tapes.Stay
)

type fragment struct {
	builder *builders.Builder
}

func newFragment(name string, accepted ...machines.State) *fragment {
	if len(accepted) == 0 {
		accepted = []machines.State{"end"}
	}
	b := builders.MustNew(name)
	b.SetInit("start")
	b.SetAccepted(accepted...)
	return &fragment{
		builder: b,
	}
}

func fromSource(name string, source string) *builders.Builder {
	b := builders.MustNew(name)
	if err := b.FromSource(source); err != nil {
		panic(fmt.Errorf("fragment %s: %w", name, err))
	}
	return b
}

func st(format string, args ...any) machines.State {
	return machines.State(fmt.Sprintf(format, args...))
}

func (f *fragment) rule(read tapes.Sign, state machines.State, write tapes.Sign, next machines.State, move tapes.Direction) *fragment {
	f.builder.Push(machines.Entry{
		Key: machines.Key{
			Read:  read,
			State: state,
		},
		Value: machines.Value{
			Write: write,
			Next:  next,
			Move:  move,
		},
	})
	return f
}

// keep moves over signs without writing
func (f *fragment) keep(state machines.State, move tapes.Direction, signs ...tapes.Sign) *fragment {
	for _, s := range signs {
		f.rule(s, state, s, state, move)
	}
	return f
}

// deleteCell is entered in prefix+"0" with the head right of the cell to delete.
// It shifts the rest of the data one cell left, walks back to the opening mark and enters ret there.
func (f *fragment) deleteCell(prefix string, ret machines.State) *fragment {
	start := st("%s0", prefix)
	back := st("%s1", prefix)
	last := st("%s_last", prefix)
	rewind := st("%s_rewind", prefix)
	cells := []tapes.Sign{Tally, Partition, markDelete, blank}
	for _, carried := range []tapes.Sign{Tally, Partition, markDelete} {
		carry := st("%s_carry_%s", prefix, carried)
		f.rule(carried, start, blank, carry, left)
		for _, c := range cells {
			f.rule(c, carry, carried, back, right)
		}
	}
	f.rule(blank, back, blank, start, right)
	f.rule(blank, start, blank, last, left)
	for _, c := range cells {
		f.rule(c, last, blank, rewind, left)
	}
	f.keep(rewind, left, cells...)
	f.rule(markOpening, rewind, markOpening, ret, stay)
	return f
}

func identity() *builders.Builder {
	return newFragment("identity").
		rule(Partition, "start", Partition, "end", stay).
		builder
}

func zero() *builders.Builder {
	return fromSource("zero", zeroSource)
}

func succ() *builders.Builder {
	return fromSource("succ", succSource)
}

// isZero stops in endT or endF on a 1-tuple
func isZero() *builders.Builder {
	return fromSource("is_zero", isZeroSource)
}

// denormalize turns a packed 1-tuple into the tape encoding
func denormalize() *builders.Builder {
	return fromSource("denormalize", denormalizeSource)
}

// normalize turns the tape encoding of a tuple into the packed form
func normalize() *builders.Builder {
	return newFragment("normalize").
		rule(Partition, "start", markOpening, "first", right).
		// empty tuple: drop the closing partition
		rule(Partition, "first", blank, "empty", left).
		rule(markOpening, "empty", Partition, "end", stay).
		// blanks after the first become partitions
		rule(blank, "first", blank, "sep", right).
		keep("sep", right, Tally).
		rule(blank, "sep", Partition, "sep", right).
		rule(Partition, "sep", Partition, "rewind", left).
		keep("rewind", left, Tally, Partition).
		// the first blank is deleted
		rule(blank, "rewind", blank, "del0", right).
		deleteCell("del", "done").
		rule(markOpening, "done", Partition, "end", stay).
		builder
}

// truncate keeps the first m components
func truncate(m int) *builders.Builder {
	f := newFragment(fmt.Sprintf("truncate_%d", m))
	keepState := func(j int) machines.State {
		if j == m {
			return "erase"
		}
		return st("keep%d", j)
	}
	f.rule(Partition, "start", markOpening, keepState(0), right)
	for j := 0; j < m; j++ {
		f.keep(keepState(j), right, Tally)
		f.rule(Partition, keepState(j), Partition, keepState(j+1), right)
	}
	f.rule(Tally, "erase", blank, "erase", right)
	f.rule(Partition, "erase", blank, "erase", right)
	f.rule(blank, "erase", blank, "back", left)
	f.keep("back", left, blank, Tally, Partition)
	f.rule(markOpening, "back", Partition, "end", stay)
	return f.builder
}

// dropPrefix removes the first m components. nil means no-op.
func dropPrefix(m int) *builders.Builder {
	if m == 0 {
		return nil
	}
	f := newFragment(fmt.Sprintf("drop_prefix_%d", m))
	markState := func(j int) machines.State {
		if j == m {
			return "marked"
		}
		return st("mark%d", j)
	}
	f.rule(Partition, "start", markOpening, markState(0), right)
	for j := 0; j < m; j++ {
		f.rule(Tally, markState(j), markDelete, markState(j), right)
		f.rule(Partition, markState(j), markDelete, markState(j+1), right)
	}
	for _, s := range []tapes.Sign{Tally, Partition, blank} {
		f.rule(s, "marked", s, "rewind", left)
	}
	f.keep("rewind", left, markDelete)
	f.rule(markOpening, "rewind", markOpening, "next", right)
	f.rule(markDelete, "next", markDelete, "del0", right)
	f.deleteCell("del", "rewind")
	for _, s := range []tapes.Sign{Tally, Partition, blank} {
		f.rule(s, "next", s, "fin", left)
	}
	f.rule(markOpening, "fin", Partition, "end", stay)
	return f.builder
}

// copyTuple appends a copy of the first n components after the data. The last partition of the data opens the copy.
// nil means no-op.
func copyTuple(n int) *builders.Builder {
	if n == 0 {
		return nil
	}
	f := newFragment(fmt.Sprintf("copy_%d", n))
	f.rule(Partition, "start", markOpening, "k0", right)
	for j := 0; j < n; j++ {
		k := st("k%d", j)
		tallyOut := st("tally_out%d", j)
		tallyBack := st("tally_back%d", j)
		partOut := st("part_out%d", j)
		partBack := st("part_back%d", j)

		f.rule(Tally, k, markTally, tallyOut, right)
		f.keep(tallyOut, right, Tally, Partition)
		f.rule(blank, tallyOut, Tally, tallyBack, left)
		f.keep(tallyBack, left, Tally, Partition)
		f.rule(markTally, tallyBack, Tally, k, right)

		f.rule(Partition, k, markPartition, partOut, right)
		f.keep(partOut, right, Tally, Partition)
		f.rule(blank, partOut, Partition, partBack, left)
		f.keep(partBack, left, Tally, Partition)
		if j+1 < n {
			f.rule(markPartition, partBack, Partition, st("k%d", j+1), right)
		} else {
			f.rule(markPartition, partBack, Partition, "home", left)
		}
	}
	f.keep("home", left, Tally, Partition)
	f.rule(markOpening, "home", Partition, "end", stay)
	return f.builder
}

// moveRight moves to the m-th partition on the right. nil means no-op.
func moveRight(m int) *builders.Builder {
	return moveOver(fmt.Sprintf("move_right_%d", m), m, right)
}

// moveLeft moves to the m-th partition on the left. nil means no-op.
func moveLeft(m int) *builders.Builder {
	return moveOver(fmt.Sprintf("move_left_%d", m), m, left)
}

func moveOver(name string, m int, dir tapes.Direction) *builders.Builder {
	if m == 0 {
		return nil
	}
	f := newFragment(name)
	f.rule(Partition, "start", Partition, "m1", dir)
	for j := 1; j <= m; j++ {
		state := st("m%d", j)
		f.keep(state, dir, Tally)
		if j == m {
			f.rule(Partition, state, Partition, "end", stay)
		} else {
			f.rule(Partition, state, Partition, st("m%d", j+1), dir)
		}
	}
	return f.builder
}

// incHere adds one to the component opened by the head
func incHere() *builders.Builder {
	f := newFragment("inc_here")
	f.rule(Partition, "start", markOpening, "seek", right)
	f.keep("seek", right, Tally, Partition)
	f.rule(blank, "seek", blank, "shift", left)
	f.rule(Tally, "shift", blank, "put_l", right)
	f.rule(Partition, "shift", blank, "put_x", right)
	f.rule(blank, "put_l", Tally, "hole", left)
	f.rule(blank, "put_x", Partition, "hole", left)
	f.rule(blank, "hole", blank, "shift", left)
	f.rule(markOpening, "shift", markOpening, "fill", right)
	f.rule(blank, "fill", Tally, "fin", left)
	f.rule(markOpening, "fin", Partition, "end", stay)
	return f.builder
}

// testDec stops in endZ when the component opened by the head is zero, otherwise decrements it and stops in end
func testDec() *builders.Builder {
	f := newFragment("test_dec", "end", "endZ")
	f.rule(Partition, "start", markOpening, "peek", right)
	f.rule(Partition, "peek", Partition, "zero", left)
	f.rule(markOpening, "zero", Partition, "endZ", stay)
	f.rule(Tally, "peek", Tally, "del0", right)
	f.deleteCell("del", "fin")
	f.rule(markOpening, "fin", Partition, "end", stay)
	return f.builder
}

// appendZero appends a zero component after the data
func appendZero() *builders.Builder {
	f := newFragment("append_zero")
	f.rule(Partition, "start", markOpening, "seek", right)
	f.keep("seek", right, Tally, Partition)
	f.rule(blank, "seek", Partition, "back", left)
	f.keep("back", left, Tally, Partition)
	f.rule(markOpening, "back", Partition, "end", stay)
	return f.builder
}

// clearFirst sets the first component to zero
func clearFirst() *builders.Builder {
	f := newFragment("clear_first")
	f.rule(Partition, "start", markOpening, "peek", right)
	f.rule(Tally, "peek", Tally, "del0", right)
	f.deleteCell("del", "again")
	f.rule(markOpening, "again", markOpening, "peek", right)
	f.rule(Partition, "peek", Partition, "fin", left)
	f.rule(markOpening, "fin", Partition, "end", stay)
	return f.builder
}

// series runs the non-nil builders one after another
func series(name string, vertices ...*builders.Builder) (*builders.Builder, error) {
	var vs []*builders.Builder
	for _, v := range vertices {
		if v != nil {
			vs = append(vs, v)
		}
	}
	switch len(vs) {
	case 0:
		return identity(), nil
	case 1:
		return vs[0], nil
	}
	return builders.Series(name, vs...)
}
