package main

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/reusee/rectm/machines"
	"github.com/reusee/rectm/tapes"
)

var (
	headStyle  = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	blankStyle = pterm.NewStyle(pterm.FgYellow)

	acceptedPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack),
			Text:  "ACCEPTED",
		},
	}
	rejectedPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: pterm.NewStyle(pterm.BgRed, pterm.FgWhite),
			Text:  "REJECTED",
		},
	}
)

const tapeRadius = 16

// window returns the cells within radius of the head, the head index in them, and whether cells were cut on each side.
func window(t tapes.Tape, radius int) (cells []tapes.Sign, head int, cutLeft bool, cutRight bool) {
	signs, pos := t.Slice()
	from := max(0, pos-radius)
	to := min(len(signs), pos+radius+1)
	return signs[from:to], pos - from, from > 0, to < len(signs)
}

func renderTape(t tapes.Tape) string {
	cells, head, cutLeft, cutRight := window(t, tapeRadius)
	var b strings.Builder
	if cutLeft {
		b.WriteString("...")
	}
	for i, sign := range cells {
		cell := " " + sign.String() + " "
		switch {
		case i == head:
			cell = headStyle.Sprint(cell)
		case sign.IsBlank():
			cell = blankStyle.Sprint(cell)
		}
		b.WriteString(cell)
	}
	if cutRight {
		b.WriteString("...")
	}
	return b.String()
}

func renderStatus(m *machines.Machine) string {
	var b strings.Builder
	b.WriteString(renderTape(m.Tape()))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("state %s, %d steps", m.State(), m.Steps()))
	if m.IsTerminated() {
		b.WriteString("\n")
		if m.IsAccepted() {
			b.WriteString(acceptedPrinter.Sprint("halted in ", m.State()))
		} else {
			b.WriteString(rejectedPrinter.Sprint("halted in ", m.State()))
		}
	}
	return b.String()
}
