package recfuncs

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/reusee/rectm/faults"
)

func TestLoadDefinitionsJSON(t *testing.T) {
	program, err := LoadDefinitions("testdata/add.json")
	if err != nil {
		t.Fatal(err)
	}
	if len(program.Definitions) != 2 {
		t.Fatalf("got %d", len(program.Definitions))
	}
	n, err := Eval(context.Background(), program.Main, []int{6}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if n != 12 {
		t.Fatalf("got %d", n)
	}
}

func TestLoadDefinitionsCUE(t *testing.T) {
	program, err := LoadDefinitions("testdata/pred.cue")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(program.Main, Prelude().MustLookup("pred")) {
		t.Fatalf("got %v", program.Main)
	}
}

func TestLoadDefinitionsErrors(t *testing.T) {
	var parseErr *faults.ParseError
	if _, err := LoadDefinitions("testdata/bad_field.json"); !errors.As(err, &parseErr) {
		t.Fatalf("got %v", err)
	}

	var validationErr *faults.ValidationError
	for _, src := range []string{
		`[{"name": "f", "func": {"kind": "Zero"}}]`,
		`[{"name": "main", "func": {"kind": "Proj", "length": 1, "number": 1}}]`,
		`[{"name": "main", "func": {"kind": "Exist", "name": "f"}}]`,
		`[{"name": "main", "func": {"kind": "Muop"}}]`,
		`[{"name": "main", "func": {"kind": "Comp", "length": 2, "outer": {"kind": "Succ"}, "inner": [{"kind": "Succ"}]}}]`,
		`[{"name": "main", "func": {"kind": "Zero"}}, {"name": "main", "func": {"kind": "Zero"}}]`,
	} {
		if _, err := DecodeDefinitions("test.json", []byte(src)); !errors.As(err, &validationErr) {
			t.Fatalf("%s: got %v", src, err)
		}
	}

	if _, err := DecodeDefinitions("test.json", []byte(`[{"name": "main", "func": {"kind": "Nope"}}]`)); !errors.As(err, &parseErr) {
		t.Fatalf("got %v", err)
	}
}

func TestToNodes(t *testing.T) {
	prelude := Prelude()
	content, err := json.Marshal(prelude.ToNodes())
	if err != nil {
		t.Fatal(err)
	}
	program, err := DecodeDefinitions("prelude.json", content)
	if err != nil {
		t.Fatal(err)
	}
	for _, def := range prelude.Definitions {
		if !reflect.DeepEqual(program.MustLookup(def.Name), def.Func) {
			t.Fatalf("%s: got %v", def.Name, program.MustLookup(def.Name))
		}
	}
}
