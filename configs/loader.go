package configs

import (
	"iter"
	"os"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/reusee/rectm/faults"
)

// Loader reads CUE files lazily on first use. Earlier files take precedence.
type Loader struct {
	getRoots func() ([]root, error)
}

type root struct {
	value cue.Value
	path  string
}

// NewLoader validates every file against schemaSrc, the body of a closed struct. An empty schema accepts anything.
func NewLoader(filePaths []string, schemaSrc string) Loader {
	return Loader{
		getRoots: sync.OnceValues(func() (ret []root, err error) {
			ctx := cuecontext.New()

			var schema cue.Value
			if schemaSrc != "" {
				schema = ctx.CompileString("close({" + schemaSrc + "})")
				if err := schema.Err(); err != nil {
					return nil, &faults.ParseError{
						What: "config schema",
						Err:  err,
					}
				}
			}

			for _, filePath := range filePaths {
				value, err := load(ctx, filePath, schema)
				if err != nil {
					return nil, err
				}
				ret = append(ret, root{
					value: value,
					path:  filePath,
				})
			}
			return
		}),
	}
}

func load(ctx *cue.Context, filePath string, schema cue.Value) (cue.Value, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return cue.Value{}, err
	}
	value := ctx.CompileBytes(content, cue.Filename(filePath))
	if err := value.Err(); err != nil {
		return cue.Value{}, &faults.ParseError{
			What: "config " + filePath,
			Err:  err,
		}
	}
	if schema.Exists() {
		if err := schema.Unify(value).Validate(); err != nil {
			return cue.Value{}, &faults.ValidationError{
				What:   "config " + filePath,
				Reason: err.Error(),
			}
		}
	}
	return value, nil
}

// IterCueValues yields the value at path of every file that defines it, then stops at the first error.
func (l Loader) IterCueValues(path string) iter.Seq2[*cue.Value, error] {
	return func(yield func(*cue.Value, error) bool) {
		roots, err := l.getRoots()
		if err != nil {
			yield(nil, err)
			return
		}
		cuePath := cue.ParsePath(path)
		for _, r := range roots {
			value := r.value.LookupPath(cuePath)
			if value.Err() != nil || !value.Exists() {
				continue
			}
			if !yield(&value, nil) {
				return
			}
		}
	}
}

func (l Loader) AssignFirst(path string, target any) error {
	for value, err := range l.IterCueValues(path) {
		if err != nil {
			return err
		}
		return value.Decode(target)
	}
	return ErrValueNotFound
}
