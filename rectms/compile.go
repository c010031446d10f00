package rectms

import (
	"fmt"

	"github.com/reusee/rectm/builders"
	"github.com/reusee/rectm/machines"
	"github.com/reusee/rectm/recfuncs"
)

// Compile builds a machine that reads a tuple written by Encode and leaves the result written by Encode,
// with the head back on the first partition.
func Compile(f recfuncs.Func) (*builders.Builder, error) {
	core, err := compileCore(f)
	if err != nil {
		return nil, err
	}
	return builders.Series("compiled", normalize(), core, denormalize())
}

func compileCore(f recfuncs.Func) (*builders.Builder, error) {
	switch f := f.(type) {

	case recfuncs.Zero:
		return zero(), nil

	case recfuncs.Succ:
		return succ(), nil

	case recfuncs.Proj:
		return series(
			fmt.Sprintf("proj_%d_%d", f.Length, f.Index),
			truncate(f.Index+1),
			dropPrefix(f.Index),
		)

	case recfuncs.Comp:
		return compileComp(f)

	case recfuncs.Prim:
		return compilePrim(f)

	case recfuncs.Mu:
		return compileMu(f)

	}

	return nil, fmt.Errorf("unknown function type %T", f)
}

// Each inner function runs on its own copy of the arguments. The results pile up after the arguments,
// forming the argument tuple of the outer function.
func compileComp(f recfuncs.Comp) (*builders.Builder, error) {
	n := f.Length
	var vertices []*builders.Builder
	for j, inner := range f.Inner {
		b, err := compileCore(inner)
		if err != nil {
			return nil, err
		}
		vertices = append(vertices,
			copyTuple(n),
			moveRight(n+j),
			b,
			moveLeft(n+j),
		)
	}
	outer, err := compileCore(f.Outer)
	if err != nil {
		return nil, err
	}
	vertices = append(vertices,
		moveRight(n),
		outer,
		moveLeft(n),
		dropPrefix(n),
	)
	return series("comp", vertices...)
}

// The arguments (c, x...) are followed by the state (i, acc).
// c counts down while i counts up.
func compilePrim(f recfuncs.Prim) (*builders.Builder, error) {
	n := f.Base.Arity()
	base, err := compileCore(f.Base)
	if err != nil {
		return nil, err
	}
	step, err := compileCore(f.Step)
	if err != nil {
		return nil, err
	}

	init, err := series("prim_init",
		copyTuple(n+1),
		moveRight(n+1),
		clearFirst(),
		moveRight(1),
		base,
		moveLeft(n+2),
	)
	if err != nil {
		return nil, err
	}

	body, err := series("prim_step",
		// acc
		moveRight(n+2),
		copyTuple(1),
		moveLeft(n+2),
		// i
		moveRight(n+1),
		copyTuple(1),
		moveLeft(n+1),
		// x...
		copyTuple(n+1),
		moveRight(n+5),
		dropPrefix(1),
		// acc = step(acc, i, x...)
		moveLeft(2),
		step,
		moveLeft(n+3),
		moveRight(n+2),
		dropPrefix(1),
		moveLeft(n+2),
		// i++
		moveRight(n+1),
		incHere(),
		moveLeft(n+1),
	)
	if err != nil {
		return nil, err
	}

	return builders.Compose(builders.Graph{
		Name: "prim",
		Init: "start",
		Vertices: []*builders.Builder{
			init,
			testDec(),
			body,
			dropPrefix(n + 2),
		},
		Edges: []builders.Edge{
			{From: 0, To: 1, State: "end"},
			{From: 1, To: 2, State: "end"},
			{From: 1, To: 3, State: "endZ"},
			{From: 2, To: 1, State: "end"},
		},
		Acceptable: [][]machines.State{
			nil,
			nil,
			nil,
			{"end"},
		},
	})
}

// The arguments x... are followed by the trial k, so (x..., k) is always the first n+1 components.
func compileMu(f recfuncs.Mu) (*builders.Builder, error) {
	n := f.Arity()
	body, err := compileCore(f.F)
	if err != nil {
		return nil, err
	}

	try, err := series("mu_try",
		copyTuple(n+1),
		moveRight(n+1),
		body,
	)
	if err != nil {
		return nil, err
	}
	found, err := series("mu_found",
		truncate(0),
		moveLeft(n+1),
		dropPrefix(n),
	)
	if err != nil {
		return nil, err
	}
	next, err := series("mu_next",
		truncate(0),
		moveLeft(n+1),
		moveRight(n),
		succ(),
		moveLeft(n),
	)
	if err != nil {
		return nil, err
	}

	return builders.Compose(builders.Graph{
		Name: "mu",
		Init: "start",
		Vertices: []*builders.Builder{
			appendZero(),
			try,
			isZero(),
			found,
			next,
		},
		Edges: []builders.Edge{
			{From: 0, To: 1, State: "end"},
			{From: 1, To: 2, State: "end"},
			{From: 2, To: 3, State: "endT"},
			{From: 2, To: 4, State: "endF"},
			{From: 4, To: 1, State: "end"},
		},
		Acceptable: [][]machines.State{
			nil,
			nil,
			nil,
			{"end"},
			nil,
		},
	})
}
