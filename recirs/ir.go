package recirs

import (
	"fmt"
	"slices"
	"strings"

	"github.com/reusee/rectm/faults"
	"github.com/reusee/rectm/tapes"
)

// Program is a set of functions over a tape alphabet. The blank is always part of the alphabet.
type Program struct {
	Alphabet  []tapes.Sign
	Functions []*Function
}

// Function is a list of labeled blocks. Control falls from one block into the next,
// and falling off the last block returns.
type Function struct {
	Name   string
	Blocks []Block
}

type Block struct {
	Label string
	Body  []Stmt
}

type Stmt interface {
	isStmt()
	String() string
}

// Operand is a variable, the head cell or a constant sign. Only variables and the head are assignable.
type Operand interface {
	isOperand()
	String() string
}

type Var string

// Head is the cell under the tape head.
type Head struct{}

type Const tapes.Sign

func (Var) isOperand()   {}
func (Head) isOperand()  {}
func (Const) isOperand() {}

func (v Var) String() string {
	return string(v)
}

func (Head) String() string {
	return "@"
}

func (c Const) String() string {
	return "const " + tapes.Sign(c).String()
}

// Cond compares two operands. A nil *Cond always holds.
type Cond struct {
	Left     Operand
	Right    Operand
	Negative bool
}

func Eq(left, right Operand) *Cond {
	return &Cond{
		Left:  left,
		Right: right,
	}
}

func Ne(left, right Operand) *Cond {
	return &Cond{
		Left:     left,
		Right:    right,
		Negative: true,
	}
}

func (c *Cond) String() string {
	op := "=="
	if c.Negative {
		op = "!="
	}
	return fmt.Sprintf("if %s %s %s", c.Left, op, c.Right)
}

func condSuffix(c *Cond) string {
	if c == nil {
		return ""
	}
	return " " + c.String()
}

// Move is LT or RT.
type Move struct {
	Dir tapes.Direction
}

type Assign struct {
	Dst Operand
	Src Operand
}

// Break leaves the current block, continuing at the next one.
type Break struct {
	Cond *Cond
}

// Continue restarts the current block.
type Continue struct {
	Cond *Cond
}

// Jump continues at the start of a labeled block of the same function.
type Jump struct {
	Label string
	Cond  *Cond
}

type Return struct {
	Cond *Cond
}

// Call runs a registered function on the same tape. Variables are local to each call and start blank.
type Call struct {
	Name string
}

func (Move) isStmt()     {}
func (Assign) isStmt()   {}
func (Break) isStmt()    {}
func (Continue) isStmt() {}
func (Jump) isStmt()     {}
func (Return) isStmt()   {}
func (Call) isStmt()     {}

func (m Move) String() string {
	if m.Dir == tapes.Left {
		return "LT"
	}
	return "RT"
}

func (a Assign) String() string {
	return fmt.Sprintf("%s := %s", a.Dst, a.Src)
}

func (b Break) String() string {
	return "break" + condSuffix(b.Cond)
}

func (c Continue) String() string {
	return "continue" + condSuffix(c.Cond)
}

func (j Jump) String() string {
	return "jump " + j.Label + condSuffix(j.Cond)
}

func (r Return) String() string {
	return "return" + condSuffix(r.Cond)
}

func (c Call) String() string {
	return "call " + c.Name
}

// Callees returns the distinct names called by f, in order of first appearance.
func (f *Function) Callees() []string {
	var ret []string
	for _, b := range f.Blocks {
		for _, stmt := range b.Body {
			if call, ok := stmt.(Call); ok && !slices.Contains(ret, call.Name) {
				ret = append(ret, call.Name)
			}
		}
	}
	return ret
}

// Vars returns the distinct variables of f, in order of first appearance.
func (f *Function) Vars() []Var {
	var ret []Var
	add := func(op Operand) {
		if v, ok := op.(Var); ok && !slices.Contains(ret, v) {
			ret = append(ret, v)
		}
	}
	addCond := func(c *Cond) {
		if c != nil {
			add(c.Left)
			add(c.Right)
		}
	}
	for _, b := range f.Blocks {
		for _, stmt := range b.Body {
			switch stmt := stmt.(type) {
			case Assign:
				add(stmt.Dst)
				add(stmt.Src)
			case Break:
				addCond(stmt.Cond)
			case Continue:
				addCond(stmt.Cond)
			case Jump:
				addCond(stmt.Cond)
			case Return:
				addCond(stmt.Cond)
			}
		}
	}
	return ret
}

// Signs returns the constant signs used by f.
func (f *Function) Signs() []tapes.Sign {
	var ret []tapes.Sign
	add := func(op Operand) {
		if c, ok := op.(Const); ok && !slices.Contains(ret, tapes.Sign(c)) {
			ret = append(ret, tapes.Sign(c))
		}
	}
	for _, b := range f.Blocks {
		for _, stmt := range b.Body {
			if a, ok := stmt.(Assign); ok {
				add(a.Src)
			}
			if c := stmtCond(stmt); c != nil {
				add(c.Left)
				add(c.Right)
			}
		}
	}
	return ret
}

func stmtCond(stmt Stmt) *Cond {
	switch stmt := stmt.(type) {
	case Break:
		return stmt.Cond
	case Continue:
		return stmt.Cond
	case Jump:
		return stmt.Cond
	case Return:
		return stmt.Cond
	}
	return nil
}

// Validate checks names, labels and assignment targets.
func (f *Function) Validate() error {
	if err := checkIdent(f.Name); err != nil {
		return err
	}
	labels := make(map[string]bool)
	for _, b := range f.Blocks {
		if err := checkIdent(b.Label); err != nil {
			return err
		}
		if labels[b.Label] {
			return &faults.ValidationError{
				What:   "function " + f.Name,
				Reason: fmt.Sprintf("duplicated label %s", b.Label),
			}
		}
		labels[b.Label] = true
	}
	for _, b := range f.Blocks {
		for _, stmt := range b.Body {
			switch stmt := stmt.(type) {
			case Jump:
				if !labels[stmt.Label] {
					return &faults.ValidationError{
						What:   "function " + f.Name,
						Reason: fmt.Sprintf("jump to unknown label %s", stmt.Label),
					}
				}
			case Assign:
				if _, ok := stmt.Dst.(Const); ok {
					return &faults.ValidationError{
						What:   "function " + f.Name,
						Reason: fmt.Sprintf("assigning to a constant in %s", stmt),
					}
				}
			case Call:
				if err := checkIdent(stmt.Name); err != nil {
					return err
				}
			}
		}
	}
	for _, v := range f.Vars() {
		if err := checkIdent(string(v)); err != nil {
			return err
		}
	}
	return nil
}

var keywords = []string{
	"alphabet", "fn", "LT", "RT", "break", "continue", "jump", "return", "call", "if", "const",
}

func checkIdent(name string) error {
	if err := tapes.CheckIdentifier(name); err != nil {
		return err
	}
	if slices.Contains(keywords, name) {
		return &faults.NameError{
			Name:   name,
			Reason: "reserved word",
		}
	}
	return nil
}

func (f *Function) String() string {
	var b strings.Builder
	f.write(&b)
	return b.String()
}

func (f *Function) write(b *strings.Builder) {
	fmt.Fprintf(b, "fn %s {\n", f.Name)
	for _, block := range f.Blocks {
		fmt.Fprintf(b, "  %s: {\n", block.Label)
		for _, stmt := range block.Body {
			fmt.Fprintf(b, "    %s\n", stmt)
		}
		b.WriteString("  }\n")
	}
	b.WriteString("}\n")
}

func (p *Program) String() string {
	var b strings.Builder
	b.WriteString("alphabet: (")
	for i, s := range p.Alphabet {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(s.String())
	}
	b.WriteString(")\n")
	for _, f := range p.Functions {
		b.WriteString("\n")
		f.write(&b)
	}
	return b.String()
}

func (p *Program) Lookup(name string) (*Function, bool) {
	for _, f := range p.Functions {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Register adds every function of p to r.
func (p *Program) Register(r *Registry) error {
	for _, f := range p.Functions {
		if _, err := r.Register(f); err != nil {
			return err
		}
	}
	return nil
}
