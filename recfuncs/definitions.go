package recfuncs

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/reusee/rectm/faults"
	"github.com/reusee/rectm/tapes"
)

//go:embed definitions.cue
var definitionsSchema string

// Node is one function in a definition file.
type Node struct {
	Kind   string  `json:"kind"`
	Length int     `json:"length,omitempty"`
	Number int     `json:"number,omitempty"`
	Outer  *Node   `json:"outer,omitempty"`
	Inner  []*Node `json:"inner,omitempty"`
	Zero   *Node   `json:"zero,omitempty"`
	Succ   *Node   `json:"succ,omitempty"`
	Muop   *Node   `json:"muop,omitempty"`
	Name   string  `json:"name,omitempty"`
}

type NamedNode struct {
	Name string `json:"name"`
	Func *Node  `json:"func"`
}

// LoadDefinitions reads a JSON or CUE definition file.
func LoadDefinitions(path string) (*Program, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeDefinitions(path, content)
}

// DecodeDefinitions validates content against the definition schema. Exist nodes refer to earlier definitions by name.
func DecodeDefinitions(filename string, content []byte) (*Program, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(definitionsSchema, cue.Filename("definitions.cue")).
		LookupPath(cue.ParsePath("#Definitions"))
	if err := schema.Err(); err != nil {
		return nil, err
	}
	value := ctx.CompileBytes(content, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, &faults.ParseError{
			What: "definitions",
			Err:  err,
		}
	}
	value = schema.Unify(value)
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, &faults.ParseError{
			What: "definitions",
			Err:  err,
		}
	}
	var nodes []NamedNode
	if err := value.Decode(&nodes); err != nil {
		return nil, &faults.ParseError{
			What: "definitions",
			Err:  err,
		}
	}
	return FromNodes(nodes)
}

func FromNodes(nodes []NamedNode) (*Program, error) {
	ret := new(Program)
	for _, node := range nodes {
		if err := tapes.CheckIdentifier(node.Name); err != nil {
			return nil, err
		}
		if _, ok := ret.Lookup(node.Name); ok {
			return nil, &faults.ValidationError{
				What:   "definitions",
				Reason: fmt.Sprintf("function %s already defined", node.Name),
			}
		}
		f, err := ret.fromNode(node.Func)
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", node.Name, err)
		}
		ret.Definitions = append(ret.Definitions, Definition{
			Name: node.Name,
			Func: f,
		})
	}
	main, ok := ret.Lookup("main")
	if !ok {
		return nil, &faults.ValidationError{
			What:   "definitions",
			Reason: "no main function",
		}
	}
	ret.Main = main
	return ret, nil
}

func (p *Program) fromNode(node *Node) (Func, error) {
	if node == nil {
		return nil, &faults.ValidationError{
			What:   "definitions",
			Reason: "missing function",
		}
	}
	missing := func(field string) error {
		return &faults.ValidationError{
			What:   node.Kind,
			Reason: "missing " + field,
		}
	}

	switch node.Kind {

	case "Zero":
		return Zero{}, nil

	case "Succ":
		return Succ{}, nil

	case "Proj":
		return asFunc(NewProj(node.Length, node.Number))

	case "Comp":
		if node.Outer == nil {
			return nil, missing("outer")
		}
		outer, err := p.fromNode(node.Outer)
		if err != nil {
			return nil, err
		}
		inner := make([]Func, 0, len(node.Inner))
		for _, n := range node.Inner {
			f, err := p.fromNode(n)
			if err != nil {
				return nil, err
			}
			inner = append(inner, f)
		}
		comp, err := NewComp(outer, inner...)
		if err != nil {
			return nil, err
		}
		if comp.Length != node.Length {
			return nil, &faults.ValidationError{
				What:   "Comp",
				Reason: fmt.Sprintf("length is %d, inner functions take %d arguments", node.Length, comp.Length),
			}
		}
		return comp, nil

	case "Prim":
		if node.Zero == nil {
			return nil, missing("zero")
		}
		if node.Succ == nil {
			return nil, missing("succ")
		}
		base, err := p.fromNode(node.Zero)
		if err != nil {
			return nil, err
		}
		step, err := p.fromNode(node.Succ)
		if err != nil {
			return nil, err
		}
		return asFunc(NewPrim(base, step))

	case "Muop":
		if node.Muop == nil {
			return nil, missing("muop")
		}
		f, err := p.fromNode(node.Muop)
		if err != nil {
			return nil, err
		}
		return asFunc(NewMu(f))

	case "Exist":
		f, ok := p.Lookup(node.Name)
		if !ok {
			return nil, &faults.ValidationError{
				What:   "Exist",
				Reason: fmt.Sprintf("function %s not defined", node.Name),
			}
		}
		return f, nil

	}

	return nil, &faults.ValidationError{
		What:   "definitions",
		Reason: fmt.Sprintf("unknown kind %q", node.Kind),
	}
}

// ToNodes is the inverse of FromNodes. Sub-functions are written inline.
func (p *Program) ToNodes() []NamedNode {
	ret := make([]NamedNode, 0, len(p.Definitions)+1)
	hasMain := false
	for _, def := range p.Definitions {
		ret = append(ret, NamedNode{
			Name: def.Name,
			Func: toNode(def.Func),
		})
		if def.Name == "main" {
			hasMain = true
		}
	}
	if !hasMain && p.Main != nil {
		ret = append(ret, NamedNode{
			Name: "main",
			Func: toNode(p.Main),
		})
	}
	return ret
}

func toNode(f Func) *Node {
	switch f := f.(type) {
	case Zero:
		return &Node{Kind: "Zero"}
	case Succ:
		return &Node{Kind: "Succ"}
	case Proj:
		return &Node{Kind: "Proj", Length: f.Length, Number: f.Index}
	case Comp:
		node := &Node{Kind: "Comp", Length: f.Length, Outer: toNode(f.Outer)}
		for _, inner := range f.Inner {
			node.Inner = append(node.Inner, toNode(inner))
		}
		return node
	case Prim:
		return &Node{Kind: "Prim", Zero: toNode(f.Base), Succ: toNode(f.Step)}
	case Mu:
		return &Node{Kind: "Muop", Muop: toNode(f.F)}
	}
	panic(fmt.Errorf("unknown function type %T", f))
}
