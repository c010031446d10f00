package tapes

import (
	"fmt"
	"strings"

	"github.com/reusee/rectm/faults"
)

type Direction uint8

const (
	Stay Direction = iota
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "L"
	case Right:
		return "R"
	case Stay:
		return "C"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

func ParseDirection(text string) (Direction, error) {
	switch strings.TrimSpace(text) {
	case "L":
		return Left, nil
	case "R":
		return Right, nil
	case "C":
		return Stay, nil
	}
	return Stay, &faults.ParseError{
		What: "direction",
		Text: text,
		Err:  fmt.Errorf("expecting L, R or C"),
	}
}
