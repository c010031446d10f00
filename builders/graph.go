package builders

import (
	"fmt"
	"slices"

	"github.com/reusee/rectm/faults"
	"github.com/reusee/rectm/machines"
	"github.com/reusee/rectm/tapes"
)

// Edge hands control from vertex From to vertex To when From reaches State.
type Edge struct {
	From  int
	To    int
	State machines.State
}

// Graph describes a composite machine.
// Acceptable[i] lists the states of vertex i that become accepted states of the composite.
type Graph struct {
	Name       string
	Init       machines.State
	Vertices   []*Builder
	Edges      []Edge
	Acceptable [][]machines.State
}

// Rename is the state name a vertex state gets inside a composite.
func Rename(index int, vertex string, state machines.State) machines.State {
	return machines.State(fmt.Sprintf("%d-%s-%s", index, vertex, state))
}

// Compose merges the vertices into one builder.
// The composite starts in Init, enters vertex 0 without touching the tape, follows edges by state,
// and accepts in the plain names of the acceptable states.
// Hand-offs are wired only for blank and the signs the vertices read or write. A composite whose head rests on
// any other sign at a hand-off halts there, even where running the vertices one after another would go on.
func Compose(g Graph) (*Builder, error) {
	ret, err := New(g.Name)
	if err != nil {
		return nil, err
	}
	if g.Init == "" {
		return nil, &faults.CompositionError{
			Graph:  g.Name,
			Reason: "init state not set",
		}
	}
	if len(g.Vertices) == 0 {
		return nil, &faults.CompositionError{
			Graph:  g.Name,
			Reason: "no vertices",
		}
	}
	if len(g.Acceptable) != len(g.Vertices) {
		return nil, &faults.CompositionError{
			Graph:  g.Name,
			Reason: fmt.Sprintf("%d acceptable lists for %d vertices", len(g.Acceptable), len(g.Vertices)),
		}
	}
	for i, v := range g.Vertices {
		if v.init == "" {
			return nil, &faults.CompositionError{
				Graph:  g.Name,
				Reason: fmt.Sprintf("vertex %d (%s) has no init state", i, v.name),
			}
		}
	}

	for _, e := range g.Edges {
		for _, idx := range []int{e.From, e.To} {
			if idx < 0 || idx >= len(g.Vertices) {
				return nil, &faults.IndexError{
					What:  "vertex",
					Index: idx,
					Len:   len(g.Vertices),
				}
			}
		}
		if !g.Vertices[e.From].HasState(e.State) {
			return nil, &faults.ValidationError{
				What:   "edge",
				Reason: fmt.Sprintf("state %s not in vertex %d (%s)", e.State, e.From, g.Vertices[e.From].name),
			}
		}
	}
	for i, states := range g.Acceptable {
		for _, s := range states {
			if !g.Vertices[i].HasState(s) {
				return nil, &faults.ValidationError{
					What:   "acceptable state",
					Reason: fmt.Sprintf("state %s not in vertex %d (%s)", s, i, g.Vertices[i].name),
				}
			}
		}
	}

	signs := []tapes.Sign{tapes.Blank}
	for _, v := range g.Vertices {
		signs = append(signs, v.Signs()...)
	}
	slices.Sort(signs)
	signs = slices.Compact(signs)

	add := func(key machines.Key, value machines.Value) error {
		if _, ok := ret.code[key]; ok {
			return &faults.CompositionError{
				Graph:  g.Name,
				Reason: fmt.Sprintf("duplicated transition on %s,%s", key.Read, key.State),
			}
		}
		ret.code[key] = value
		return nil
	}
	wire := func(from machines.State, to machines.State) error {
		for _, sign := range signs {
			if err := add(
				machines.Key{Read: sign, State: from},
				machines.Value{Write: sign, Next: to, Move: tapes.Stay},
			); err != nil {
				return err
			}
		}
		return nil
	}

	if err := wire(g.Init, Rename(0, g.Vertices[0].name, g.Vertices[0].init)); err != nil {
		return nil, err
	}

	for i, v := range g.Vertices {
		for _, e := range v.code.Entries() {
			if err := add(
				machines.Key{Read: e.Read, State: Rename(i, v.name, e.State)},
				machines.Value{Write: e.Write, Next: Rename(i, v.name, e.Next), Move: e.Move},
			); err != nil {
				return nil, err
			}
		}
	}

	for _, e := range g.Edges {
		from := g.Vertices[e.From]
		to := g.Vertices[e.To]
		if err := wire(
			Rename(e.From, from.name, e.State),
			Rename(e.To, to.name, to.init),
		); err != nil {
			return nil, err
		}
	}

	var accepted []machines.State
	for i, states := range g.Acceptable {
		v := g.Vertices[i]
		for _, s := range states {
			if err := wire(Rename(i, v.name, s), s); err != nil {
				return nil, err
			}
			accepted = append(accepted, s)
		}
	}
	slices.Sort(accepted)
	accepted = slices.Compact(accepted)

	ret.SetInit(g.Init)
	ret.SetAccepted(accepted...)
	return ret, nil
}

// SeriesEdges links vertex i to vertex i+1 on state "end", for n links.
func SeriesEdges(n int) []Edge {
	ret := make([]Edge, 0, n)
	for i := 0; i < n; i++ {
		ret = append(ret, Edge{
			From:  i,
			To:    i + 1,
			State: "end",
		})
	}
	return ret
}

// AcceptEndOnly makes "end" of the last of n+1 vertices the only acceptable state.
func AcceptEndOnly(n int) [][]machines.State {
	ret := make([][]machines.State, n+1)
	ret[n] = []machines.State{"end"}
	return ret
}

// Series runs the vertices one after another. Each vertex must reach "end".
func Series(name string, vertices ...*Builder) (*Builder, error) {
	if len(vertices) == 0 {
		return Compose(Graph{
			Name: name,
			Init: "start",
		})
	}
	return Compose(Graph{
		Name:       name,
		Init:       "start",
		Vertices:   vertices,
		Edges:      SeriesEdges(len(vertices) - 1),
		Acceptable: AcceptEndOnly(len(vertices) - 1),
	})
}
