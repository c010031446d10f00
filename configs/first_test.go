package configs

import (
	"testing"
)

func TestFirst(t *testing.T) {
	loader := NewLoader([]string{"test.cue"}, testSchema)

	str := First[string](loader, "str")
	if str != "bar" {
		t.Fatalf("got %v", str)
	}

}

type testStr string

func (testStr) ConfigPath() string {
	return "str"
}

type testList []int

func (testList) ConfigPath() string {
	return "nope"
}

func TestLookup(t *testing.T) {
	loader := NewLoader([]string{"test.cue"}, testSchema+"nope?: [...int]\n")
	if s := Lookup[testStr](loader); s != "bar" {
		t.Fatalf("got %v", s)
	}
	if l := Lookup[testList](loader); l != nil {
		t.Fatalf("got %v", l)
	}
}
