package recfuncs

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/reusee/rectm/faults"
	"github.com/reusee/rectm/tapes"
)

type Definition struct {
	Name string
	Func Func
}

// Program is a list of named functions with a main entry.
type Program struct {
	Definitions []Definition
	Main        Func
}

func (p *Program) Lookup(name string) (Func, bool) {
	for _, def := range p.Definitions {
		if def.Name == name {
			return def.Func, true
		}
	}
	return nil, false
}

// String prints every definition as a let statement, followed by main when main is not itself defined.
func (p *Program) String() string {
	var b strings.Builder
	hasMain := false
	for _, def := range p.Definitions {
		fmt.Fprintf(&b, "let %s = %s.\n", def.Name, def.Func)
		if def.Name == "main" {
			hasMain = true
		}
	}
	if !hasMain && p.Main != nil {
		b.WriteString(p.Main.String())
		b.WriteString("\n")
	}
	return b.String()
}

// ParseText reads "let name = expr." statements, optionally followed by a main expression.
// Without a trailing expression, a definition named main is required.
func ParseText(text string) (*Program, error) {
	p := &textParser{}
	if err := p.tokenize(text); err != nil {
		return nil, err
	}
	return p.program()
}

func MustParseText(text string) *Program {
	program, err := ParseText(text)
	if err != nil {
		panic(err)
	}
	return program
}

// ParseFunc parses a single expression without definitions.
func ParseFunc(text string) (Func, error) {
	program, err := ParseText(text)
	if err != nil {
		return nil, err
	}
	return program.Main, nil
}

type token struct {
	text string
	line int
}

type textParser struct {
	tokens []token
	pos    int
	defs   []Definition
}

func (p *textParser) tokenize(text string) error {
	for i, line := range strings.Split(text, "\n") {
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}
		runes := []rune(line)
		for j := 0; j < len(runes); {
			r := runes[j]
			switch {
			case unicode.IsSpace(r):
				j++
			case strings.ContainsRune("[](),:.=", r):
				p.tokens = append(p.tokens, token{text: string(r), line: i + 1})
				j++
			case r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r):
				start := j
				for j < len(runes) && (runes[j] == '_' || runes[j] == '-' || unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j])) {
					j++
				}
				p.tokens = append(p.tokens, token{text: string(runes[start:j]), line: i + 1})
			default:
				return &faults.ParseError{
					What: "recursive function",
					Line: i + 1,
					Text: string(r),
					Err:  fmt.Errorf("unexpected character"),
				}
			}
		}
	}
	return nil
}

func (p *textParser) errorf(format string, args ...any) error {
	line := 0
	text := ""
	if p.pos < len(p.tokens) {
		line = p.tokens[p.pos].line
		text = p.tokens[p.pos].text
	} else if len(p.tokens) > 0 {
		line = p.tokens[len(p.tokens)-1].line
	}
	return &faults.ParseError{
		What: "recursive function",
		Line: line,
		Text: text,
		Err:  fmt.Errorf(format, args...),
	}
}

func (p *textParser) peek() string {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos].text
	}
	return ""
}

func (p *textParser) next() string {
	s := p.peek()
	p.pos++
	return s
}

func (p *textParser) expect(s string) error {
	if p.peek() != s {
		return p.errorf("expecting %q", s)
	}
	p.pos++
	return nil
}

func (p *textParser) number() (int, error) {
	n, err := strconv.Atoi(p.peek())
	if err != nil || n < 0 {
		return 0, p.errorf("expecting a natural number")
	}
	p.pos++
	return n, nil
}

func (p *textParser) lookup(name string) (Func, bool) {
	for _, def := range p.defs {
		if def.Name == name {
			return def.Func, true
		}
	}
	return nil, false
}

func (p *textParser) program() (*Program, error) {
	for p.peek() == "let" {
		p.pos++
		nameLine := p.pos
		name := p.next()
		if err := tapes.CheckIdentifier(name); err != nil {
			p.pos = nameLine
			return nil, p.errorf("bad function name: %w", err)
		}
		if _, ok := p.lookup(name); ok {
			p.pos = nameLine
			return nil, p.errorf("function %s already defined", name)
		}
		if err := p.expect("="); err != nil {
			return nil, err
		}
		f, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expect("."); err != nil {
			return nil, err
		}
		p.defs = append(p.defs, Definition{
			Name: name,
			Func: f,
		})
	}

	ret := &Program{
		Definitions: p.defs,
	}
	if p.pos < len(p.tokens) {
		f, err := p.expr()
		if err != nil {
			return nil, err
		}
		if p.pos < len(p.tokens) {
			return nil, p.errorf("unexpected trailing input")
		}
		ret.Main = f
		return ret, nil
	}

	main, ok := p.lookup("main")
	if !ok {
		return nil, p.errorf("no main function")
	}
	ret.Main = main
	return ret, nil
}

func (p *textParser) expr() (Func, error) {
	start := p.pos
	// constructor errors are reported at the start of the expression
	wrap := func(f Func, err error) (Func, error) {
		if err != nil {
			p.pos = start
			return nil, p.errorf("%w", err)
		}
		return f, nil
	}

	switch word := p.next(); word {

	case "ZERO":
		return Zero{}, nil

	case "SUCC":
		return Succ{}, nil

	case "PROJ":
		if err := p.expect("["); err != nil {
			return nil, err
		}
		n, err := p.number()
		if err != nil {
			return nil, err
		}
		if err := p.expect(","); err != nil {
			return nil, err
		}
		i, err := p.number()
		if err != nil {
			return nil, err
		}
		if err := p.expect("]"); err != nil {
			return nil, err
		}
		return wrap(asFunc(NewProj(n, i)))

	case "COMP":
		if err := p.expect("["); err != nil {
			return nil, err
		}
		outer, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(":"); err != nil {
			return nil, err
		}
		if err := p.expect("("); err != nil {
			return nil, err
		}
		var inner []Func
		for {
			f, err := p.expr()
			if err != nil {
				return nil, err
			}
			inner = append(inner, f)
			if p.peek() != "," {
				break
			}
			p.pos++
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		if err := p.expect("]"); err != nil {
			return nil, err
		}
		return wrap(asFunc(NewComp(outer, inner...)))

	case "PRIM":
		if err := p.expect("["); err != nil {
			return nil, err
		}
		if err := p.expect("z"); err != nil {
			return nil, err
		}
		if err := p.expect(":"); err != nil {
			return nil, err
		}
		base, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expect("s"); err != nil {
			return nil, err
		}
		if err := p.expect(":"); err != nil {
			return nil, err
		}
		step, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expect("]"); err != nil {
			return nil, err
		}
		return wrap(asFunc(NewPrim(base, step)))

	case "MUOP":
		if err := p.expect("["); err != nil {
			return nil, err
		}
		f, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expect("]"); err != nil {
			return nil, err
		}
		return wrap(asFunc(NewMu(f)))

	case "":
		p.pos = start
		return nil, p.errorf("unexpected end of input")

	default:
		if f, ok := p.lookup(word); ok {
			return f, nil
		}
		p.pos = start
		return nil, p.errorf("function %s not defined", word)
	}
}

func asFunc[T Func](f T, err error) (Func, error) {
	if err != nil {
		return nil, err
	}
	return f, nil
}
