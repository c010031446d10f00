package recfuncs

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/reusee/rectm/faults"
)

func TestExecScript(t *testing.T) {
	src, err := os.ReadFile("testdata/double.star")
	if err != nil {
		t.Fatal(err)
	}
	program, err := ExecScript("double.star", src)
	if err != nil {
		t.Fatal(err)
	}
	if len(program.Definitions) != 2 {
		t.Fatalf("got %v", program.Definitions)
	}
	n, err := Eval(context.Background(), program.Main, []int{5}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if n != 10 {
		t.Fatalf("got %d", n)
	}
	if str := program.MustLookup("add").String(); str != "PRIM[z: PROJ[1,0] s: COMP[SUCC: (PROJ[3,0])]]" {
		t.Fatalf("got %s", str)
	}
}

func TestExecScriptErrors(t *testing.T) {
	var parseErr *faults.ParseError
	for _, src := range []string{
		`main = proj(1, 1)`,
		`main = comp(succ(), proj(1, 0), proj(1, 0))`,
		`main = prim(succ(), 1)`,
		`main = mu(`,
	} {
		if _, err := ExecScript("test.star", []byte(src)); !errors.As(err, &parseErr) {
			t.Fatalf("%s: got %v", src, err)
		}
	}

	var validationErr *faults.ValidationError
	if _, err := ExecScript("test.star", []byte(`f = succ()`)); !errors.As(err, &validationErr) {
		t.Fatalf("got %v", err)
	}
}
