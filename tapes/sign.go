package tapes

import (
	"strings"

	"github.com/reusee/rectm/faults"
)

// Sign is a tape symbol. The zero value is the blank.
type Sign string

const Blank Sign = ""

// BlankText is how the blank is written in every text format.
const BlankText = "-"

func (s Sign) IsBlank() bool {
	return s == Blank
}

func (s Sign) String() string {
	if s == Blank {
		return BlankText
	}
	return string(s)
}

// ParseSign accepts "-", an empty string or whitespace as the blank.
func ParseSign(text string) (Sign, error) {
	text = strings.TrimSpace(text)
	if text == "" || text == BlankText {
		return Blank, nil
	}
	if err := CheckName(text); err != nil {
		return Blank, err
	}
	return Sign(text), nil
}

func MustParseSign(text string) Sign {
	s, err := ParseSign(text)
	if err != nil {
		panic(err)
	}
	return s
}

// CheckName validates the shared alphabet of signs and states.
func CheckName(name string) error {
	if name == "" {
		return &faults.NameError{
			Name:   name,
			Reason: "empty",
		}
	}
	for _, r := range name {
		if !isNameRune(r) {
			return &faults.NameError{
				Name:   name,
				Reason: "only ASCII letters, digits, '_' and '-' are allowed",
			}
		}
	}
	return nil
}

// CheckIdentifier is CheckName plus a leading letter or '_'.
func CheckIdentifier(name string) error {
	if err := CheckName(name); err != nil {
		return err
	}
	first := name[0]
	if first != '_' && !(first >= 'a' && first <= 'z' || first >= 'A' && first <= 'Z') {
		return &faults.NameError{
			Name:   name,
			Reason: "must start with a letter or '_'",
		}
	}
	return nil
}

func isNameRune(r rune) bool {
	return r >= 'a' && r <= 'z' ||
		r >= 'A' && r <= 'Z' ||
		r >= '0' && r <= '9' ||
		r == '_' || r == '-'
}
