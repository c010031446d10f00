package recirs

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/reusee/rectm/recfuncs"
	"github.com/reusee/rectm/rectms"
	"github.com/reusee/rectm/tapes"
)

//go:embed fragments.ir
var fragmentsSource string

var fragments = sync.OnceValues(func() (*Program, error) {
	return Parse(fragmentsSource)
})

const (
	markOpening tapes.Sign = "y"
	markCopy    tapes.Sign = "e"
)

// Alphabet is the tape alphabet of compiled recursive functions, without the blank.
var Alphabet = []tapes.Sign{rectms.Tally, rectms.Partition, markOpening, markCopy}

var (
	left  = Move{Dir: tapes.Left}
	right = Move{Dir: tapes.Right}
	head  = Head{}
)

// CompileRec registers functions computing f on the packed tuple form, plus an entry function called name
// that reads and leaves the encoding of rectms.Encode.
func CompileRec(r *Registry, f recfuncs.Func, name string) error {
	lib, err := fragments()
	if err != nil {
		return err
	}
	if err := lib.Register(r); err != nil {
		return err
	}
	c := &recCompiler{
		registry: r,
	}
	core := c.compile(f)
	c.define(&Function{
		Name: name,
		Blocks: []Block{
			{
				Label: "run",
				Body:  calls("normalize", core, "denormalize"),
			},
		},
	})
	return c.err
}

// Fragments returns the hand written fragment library.
func Fragments() (*Program, error) {
	return fragments()
}

// recCompiler keeps the first error, later definitions are skipped
type recCompiler struct {
	registry *Registry
	err      error
}

func (c *recCompiler) define(f *Function) string {
	if c.err != nil {
		return ""
	}
	if _, err := c.registry.Register(f); err != nil {
		c.err = err
		return ""
	}
	return f.Name
}

// calls skips empty names, which stand for no-ops
func calls(names ...string) []Stmt {
	var ret []Stmt
	for _, name := range names {
		if name != "" {
			ret = append(ret, Call{Name: name})
		}
	}
	return ret
}

func run(name string, body ...Stmt) *Function {
	return &Function{
		Name: name,
		Blocks: []Block{
			{
				Label: "run",
				Body:  body,
			},
		},
	}
}

// funcID is stable for equal functions
func funcID(f recfuncs.Func) string {
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(f.String()))
	return strings.ReplaceAll(id.String(), "-", "")[:12]
}

func (c *recCompiler) compile(f recfuncs.Func) string {
	if c.err != nil {
		return ""
	}
	switch f := f.(type) {

	case recfuncs.Zero:
		return "zero"

	case recfuncs.Succ:
		return "succ"

	case recfuncs.Proj:
		return c.define(run(
			fmt.Sprintf("proj_%d_%d", f.Length, f.Index),
			calls(
				c.truncate(f.Index+1),
				c.dropPrefix(f.Index),
			)...,
		))

	case recfuncs.Comp:
		n := f.Length
		var body []Stmt
		for j, inner := range f.Inner {
			body = append(body, calls(
				c.copyTuple(n),
				c.moveRight(n+j),
				c.compile(inner),
				c.moveLeft(n+j),
			)...)
		}
		body = append(body, calls(
			c.moveRight(n),
			c.compile(f.Outer),
			c.moveLeft(n),
			c.dropPrefix(n),
		)...)
		return c.define(run("comp_"+funcID(f), body...))

	case recfuncs.Prim:
		return c.compilePrim(f)

	case recfuncs.Mu:
		return c.compileMu(f)

	}

	c.err = fmt.Errorf("unknown function type %T", f)
	return ""
}

// same layout as the machine compiler: (c, x..., i, acc), c counts down and i counts up
func (c *recCompiler) compilePrim(f recfuncs.Prim) string {
	n := f.Base.Arity()
	base := c.compile(f.Base)
	step := c.compile(f.Step)

	init := calls(
		c.copyTuple(n+1),
		c.moveRight(n+1),
		"clear_first",
		c.moveRight(1),
		base,
		c.moveLeft(n+2),
	)

	test := []Stmt{
		right,
		Jump{Label: "done", Cond: Eq(head, Const(rectms.Partition))},
		left,
	}
	test = append(test, calls(
		"dec_first",
		// acc
		c.moveRight(n+2), c.copyTuple(1), c.moveLeft(n+2),
		// i
		c.moveRight(n+1), c.copyTuple(1), c.moveLeft(n+1),
		// x...
		c.copyTuple(n+1), c.moveRight(n+5), c.dropPrefix(1),
		// acc = step(acc, i, x...)
		c.moveLeft(2), step, c.moveLeft(n+3),
		c.moveRight(n+2), c.dropPrefix(1), c.moveLeft(n+2),
		// i++
		c.moveRight(n+1), "inc_here", c.moveLeft(n+1),
	)...)
	test = append(test, Continue{})

	done := append([]Stmt{left}, calls(c.dropPrefix(n+2))...)

	return c.define(&Function{
		Name: "prim_" + funcID(f),
		Blocks: []Block{
			{Label: "init", Body: init},
			{Label: "test", Body: test},
			{Label: "done", Body: done},
		},
	})
}

// (x..., k) are the first n+1 components, the result of each trial follows them
func (c *recCompiler) compileMu(f recfuncs.Mu) string {
	n := f.Arity()
	body := c.compile(f.F)

	try := calls(
		c.copyTuple(n+1),
		c.moveRight(n+1),
		body,
	)
	try = append(try,
		right,
		Jump{Label: "found", Cond: Eq(head, Const(rectms.Partition))},
		left,
	)
	try = append(try, calls(
		c.truncate(0),
		c.moveLeft(n+1),
		c.moveRight(n),
		"succ",
		c.moveLeft(n),
	)...)
	try = append(try, Continue{})

	found := append([]Stmt{left}, calls(
		c.truncate(0),
		c.moveLeft(n+1),
		c.dropPrefix(n),
	)...)

	return c.define(&Function{
		Name: "mu_" + funcID(f),
		Blocks: []Block{
			{Label: "init", Body: calls("append_zero")},
			{Label: "try", Body: try},
			{Label: "found", Body: found},
		},
	})
}

// truncate keeps the first m components
func (c *recCompiler) truncate(m int) string {
	blocks := []Block{
		{
			Label: "open",
			Body:  []Stmt{Assign{Dst: head, Src: Const(markOpening)}},
		},
	}
	for j := range m {
		blocks = append(blocks, Block{
			Label: fmt.Sprintf("keep%d", j),
			Body: []Stmt{
				right,
				Continue{Cond: Eq(head, Const(rectms.Tally))},
			},
		})
	}
	blocks = append(blocks,
		Block{
			Label: "erase",
			Body: []Stmt{
				right,
				Break{Cond: Eq(head, Const(tapes.Blank))},
				Assign{Dst: head, Src: Const(tapes.Blank)},
				Continue{},
			},
		},
		Block{
			Label: "back",
			Body: []Stmt{
				left,
				Continue{Cond: Ne(head, Const(markOpening))},
				Assign{Dst: head, Src: Const(rectms.Partition)},
			},
		},
	)
	return c.define(&Function{
		Name:   fmt.Sprintf("truncate_%d", m),
		Blocks: blocks,
	})
}

// dropPrefix removes the first m components, one cell at a time
func (c *recCompiler) dropPrefix(m int) string {
	if m == 0 {
		return ""
	}
	blocks := []Block{
		{
			Label: "open",
			Body:  []Stmt{Assign{Dst: head, Src: Const(markOpening)}},
		},
	}
	for j := range m {
		last := fmt.Sprintf("last%d", j)
		blocks = append(blocks,
			Block{
				Label: fmt.Sprintf("drop%d", j),
				Body: []Stmt{
					right,
					Jump{Label: last, Cond: Eq(head, Const(rectms.Partition))},
					Call{Name: "delete_cell"},
					Continue{},
				},
			},
			Block{
				Label: last,
				Body:  []Stmt{Call{Name: "delete_cell"}},
			},
		)
	}
	blocks = append(blocks, Block{
		Label: "fin",
		Body:  []Stmt{Assign{Dst: head, Src: Const(rectms.Partition)}},
	})
	return c.define(&Function{
		Name:   fmt.Sprintf("drop_prefix_%d", m),
		Blocks: blocks,
	})
}

// copyTuple appends a copy of the first n components after the data
func (c *recCompiler) copyTuple(n int) string {
	if n == 0 {
		return ""
	}
	v := Var("c")
	blocks := []Block{
		{
			Label: "open",
			Body: []Stmt{
				Assign{Dst: head, Src: Const(markOpening)},
				right,
			},
		},
	}
	for j := range n {
		pick := fmt.Sprintf("pick%d", j)
		blocks = append(blocks,
			Block{
				Label: pick,
				Body: []Stmt{
					Assign{Dst: v, Src: head},
					Assign{Dst: head, Src: Const(markCopy)},
				},
			},
			Block{
				Label: fmt.Sprintf("out%d", j),
				Body: []Stmt{
					right,
					Continue{Cond: Ne(head, Const(tapes.Blank))},
					Assign{Dst: head, Src: v},
				},
			},
			Block{
				Label: fmt.Sprintf("home%d", j),
				Body: []Stmt{
					left,
					Continue{Cond: Ne(head, Const(markCopy))},
					Assign{Dst: head, Src: v},
					right,
					Break{Cond: Eq(v, Const(rectms.Partition))},
					Jump{Label: pick},
				},
			},
		)
	}
	blocks = append(blocks, Block{
		Label: "fin",
		Body: []Stmt{
			left,
			Continue{Cond: Ne(head, Const(markOpening))},
			Assign{Dst: head, Src: Const(rectms.Partition)},
		},
	})
	return c.define(&Function{
		Name:   fmt.Sprintf("copy_%d", n),
		Blocks: blocks,
	})
}

func (c *recCompiler) moveRight(m int) string {
	return c.moveOver(fmt.Sprintf("move_right_%d", m), m, right)
}

func (c *recCompiler) moveLeft(m int) string {
	return c.moveOver(fmt.Sprintf("move_left_%d", m), m, left)
}

// moveOver passes m partitions, skipping tallies
func (c *recCompiler) moveOver(name string, m int, move Move) string {
	if m == 0 {
		return ""
	}
	var blocks []Block
	for j := range m {
		blocks = append(blocks, Block{
			Label: fmt.Sprintf("step%d", j),
			Body: []Stmt{
				move,
				Continue{Cond: Eq(head, Const(rectms.Tally))},
			},
		})
	}
	return c.define(&Function{
		Name:   name,
		Blocks: blocks,
	})
}
