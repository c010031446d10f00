package recirs

import (
	"fmt"
	"strings"

	"github.com/reusee/rectm/faults"
	"github.com/reusee/rectm/tapes"
)

// Parse reads the text form printed by Program.String.
//
//	alphabet: (l, x)
//	fn name {
//	  label: {
//	    RT
//	    v := @
//	    @ := const x
//	    break if v == const -
//	    jump label if @ != v
//	    call other
//	  }
//	}
//
// '#' starts a comment.
func Parse(text string) (*Program, error) {
	p := &parser{}
	if err := p.tokenize(text); err != nil {
		return nil, err
	}
	return p.program()
}

func MustParse(text string) *Program {
	program, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return program
}

type irToken struct {
	text string
	line int
}

type parser struct {
	tokens []irToken
	pos    int
}

func isWordByte(c byte) bool {
	return c == '_' || c == '-' ||
		c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9'
}

func (p *parser) tokenize(text string) error {
	for i, line := range strings.Split(text, "\n") {
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		for j := 0; j < len(line); {
			c := line[j]
			switch {
			case c == ' ' || c == '\t' || c == '\r':
				j++
			case j+1 < len(line) && (line[j:j+2] == ":=" || line[j:j+2] == "==" || line[j:j+2] == "!="):
				p.tokens = append(p.tokens, irToken{text: line[j : j+2], line: i + 1})
				j += 2
			case strings.IndexByte("{}(),:@", c) >= 0:
				p.tokens = append(p.tokens, irToken{text: line[j : j+1], line: i + 1})
				j++
			case isWordByte(c):
				start := j
				for j < len(line) && isWordByte(line[j]) {
					j++
				}
				p.tokens = append(p.tokens, irToken{text: line[start:j], line: i + 1})
			default:
				return &faults.ParseError{
					What: "ir",
					Line: i + 1,
					Text: line[j : j+1],
					Err:  fmt.Errorf("unexpected character"),
				}
			}
		}
	}
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	ret := &faults.ParseError{
		What: "ir",
		Err:  fmt.Errorf(format, args...),
	}
	if p.pos < len(p.tokens) {
		ret.Line = p.tokens[p.pos].line
		ret.Text = p.tokens[p.pos].text
	} else if len(p.tokens) > 0 {
		ret.Line = p.tokens[len(p.tokens)-1].line
	}
	return ret
}

func (p *parser) peek() string {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos].text
	}
	return ""
}

func (p *parser) eof() bool {
	return p.pos >= len(p.tokens)
}

func (p *parser) expect(s string) error {
	if p.eof() || p.peek() != s {
		return p.errorf("expecting %q", s)
	}
	p.pos++
	return nil
}

func (p *parser) ident(what string) (string, error) {
	name := p.peek()
	if p.eof() {
		return "", p.errorf("expecting %s", what)
	}
	if err := checkIdent(name); err != nil {
		return "", p.errorf("bad %s: %w", what, err)
	}
	p.pos++
	return name, nil
}

func (p *parser) sign() (tapes.Sign, error) {
	if p.eof() {
		return "", p.errorf("expecting a sign")
	}
	s, err := tapes.ParseSign(p.peek())
	if err != nil {
		return "", p.errorf("bad sign: %w", err)
	}
	p.pos++
	return s, nil
}

func (p *parser) program() (*Program, error) {
	ret := new(Program)
	if err := p.expect("alphabet"); err != nil {
		return nil, err
	}
	if err := p.expect(":"); err != nil {
		return nil, err
	}
	if err := p.expect("("); err != nil {
		return nil, err
	}
	for p.peek() != ")" {
		s, err := p.sign()
		if err != nil {
			return nil, err
		}
		ret.Alphabet = append(ret.Alphabet, s)
		if p.peek() == "," {
			p.pos++
		} else if p.peek() != ")" {
			return nil, p.errorf("expecting ',' or ')'")
		}
	}
	p.pos++

	for !p.eof() {
		start := p.pos
		f, err := p.function()
		if err != nil {
			return nil, err
		}
		if _, ok := ret.Lookup(f.Name); ok {
			p.pos = start + 1
			return nil, p.errorf("function %s already defined", f.Name)
		}
		if err := f.Validate(); err != nil {
			p.pos = start + 1
			return nil, p.errorf("%w", err)
		}
		ret.Functions = append(ret.Functions, f)
	}
	return ret, nil
}

func (p *parser) function() (*Function, error) {
	if err := p.expect("fn"); err != nil {
		return nil, err
	}
	name, err := p.ident("function name")
	if err != nil {
		return nil, err
	}
	f := &Function{
		Name: name,
	}
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	for p.peek() != "}" {
		if p.eof() {
			return nil, p.errorf("unexpected end of input")
		}
		label, err := p.ident("label")
		if err != nil {
			return nil, err
		}
		if err := p.expect(":"); err != nil {
			return nil, err
		}
		if err := p.expect("{"); err != nil {
			return nil, err
		}
		block := Block{
			Label: label,
		}
		for p.peek() != "}" {
			if p.eof() {
				return nil, p.errorf("unexpected end of input")
			}
			stmt, err := p.stmt()
			if err != nil {
				return nil, err
			}
			block.Body = append(block.Body, stmt)
		}
		p.pos++
		f.Blocks = append(f.Blocks, block)
	}
	p.pos++
	return f, nil
}

func (p *parser) stmt() (Stmt, error) {
	switch p.peek() {

	case "LT":
		p.pos++
		return Move{Dir: tapes.Left}, nil

	case "RT":
		p.pos++
		return Move{Dir: tapes.Right}, nil

	case "break":
		p.pos++
		cond, err := p.cond()
		if err != nil {
			return nil, err
		}
		return Break{Cond: cond}, nil

	case "continue":
		p.pos++
		cond, err := p.cond()
		if err != nil {
			return nil, err
		}
		return Continue{Cond: cond}, nil

	case "return":
		p.pos++
		cond, err := p.cond()
		if err != nil {
			return nil, err
		}
		return Return{Cond: cond}, nil

	case "jump":
		p.pos++
		label, err := p.ident("label")
		if err != nil {
			return nil, err
		}
		cond, err := p.cond()
		if err != nil {
			return nil, err
		}
		return Jump{Label: label, Cond: cond}, nil

	case "call":
		p.pos++
		name, err := p.ident("function name")
		if err != nil {
			return nil, err
		}
		return Call{Name: name}, nil

	}

	var dst Operand
	if p.peek() == "@" {
		p.pos++
		dst = Head{}
	} else {
		name, err := p.ident("statement")
		if err != nil {
			return nil, err
		}
		dst = Var(name)
	}
	if err := p.expect(":="); err != nil {
		return nil, err
	}
	src, err := p.operand()
	if err != nil {
		return nil, err
	}
	return Assign{
		Dst: dst,
		Src: src,
	}, nil
}

// cond parses an optional "if a == b" or "if a != b"
func (p *parser) cond() (*Cond, error) {
	if p.peek() != "if" {
		return nil, nil
	}
	p.pos++
	left, err := p.operand()
	if err != nil {
		return nil, err
	}
	var negative bool
	switch p.peek() {
	case "==":
	case "!=":
		negative = true
	default:
		return nil, p.errorf("expecting '==' or '!='")
	}
	p.pos++
	right, err := p.operand()
	if err != nil {
		return nil, err
	}
	return &Cond{
		Left:     left,
		Right:    right,
		Negative: negative,
	}, nil
}

func (p *parser) operand() (Operand, error) {
	switch p.peek() {
	case "@":
		p.pos++
		return Head{}, nil
	case "const":
		p.pos++
		s, err := p.sign()
		if err != nil {
			return nil, err
		}
		return Const(s), nil
	}
	name, err := p.ident("operand")
	if err != nil {
		return nil, err
	}
	return Var(name), nil
}
