package faults

import (
	"fmt"
	"strings"
)

// ParseError reports malformed textual input. Line is 1-based, 0 when the input has no lines.
type ParseError struct {
	What string
	Line int
	Text string
	Err  error
}

func (p *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse ")
	b.WriteString(p.What)
	if p.Line > 0 {
		fmt.Fprintf(&b, " at line %d", p.Line)
	}
	if p.Text != "" {
		fmt.Fprintf(&b, " %q", p.Text)
	}
	if p.Err != nil {
		b.WriteString(": ")
		b.WriteString(p.Err.Error())
	}
	return b.String()
}

func (p *ParseError) Unwrap() error {
	return p.Err
}

type NameError struct {
	Name   string
	Reason string
}

func (n *NameError) Error() string {
	return fmt.Sprintf("invalid name %q: %s", n.Name, n.Reason)
}

type ValidationError struct {
	What   string
	Reason string
}

func (v *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", v.What, v.Reason)
}

type CompositionError struct {
	Graph  string
	Reason string
}

func (c *CompositionError) Error() string {
	return fmt.Sprintf("compose %s: %s", c.Graph, c.Reason)
}

type IndexError struct {
	What  string
	Index int
	Len   int
}

func (i *IndexError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0, %d)", i.What, i.Index, i.Len)
}

type BuildError struct {
	Builder string
	Missing string
}

func (b *BuildError) Error() string {
	return fmt.Sprintf("build %s: %s is not set", b.Builder, b.Missing)
}

type RecursionDetectedError struct {
	Cycle []string
}

func (r *RecursionDetectedError) Error() string {
	return "recursive call: " + strings.Join(r.Cycle, " -> ")
}

type DuplicateDefinitionError struct {
	Name string
}

func (d *DuplicateDefinitionError) Error() string {
	return fmt.Sprintf("function %s is already defined with a different body", d.Name)
}
