package recirs

import (
	"slices"
	"sync"

	"github.com/reusee/rectm/faults"
	"github.com/reusee/rectm/tapes"
)

// Registry is a table of functions keyed by name. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	functions map[string]*Function
}

func NewRegistry() *Registry {
	return &Registry{
		functions: make(map[string]*Function),
	}
}

// Register validates f and adds it. Bodies are compared by their text form. Registering an identical body again returns the registered function,
// a different body under the same name fails with DuplicateDefinitionError.
func (r *Registry) Register(f *Function) (*Function, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.functions[f.Name]; ok {
		if existing.String() == f.String() {
			return existing, nil
		}
		return nil, &faults.DuplicateDefinitionError{
			Name: f.Name,
		}
	}
	r.functions[f.Name] = f
	return f, nil
}

func (r *Registry) Lookup(name string) (*Function, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.functions[name]
	return f, ok
}

// Names are sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ret := make([]string, 0, len(r.functions))
	for name := range r.functions {
		ret = append(ret, name)
	}
	slices.Sort(ret)
	return ret
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.functions)
}

// Program collects the registered functions, sorted by name.
func (r *Registry) Program(alphabet ...tapes.Sign) *Program {
	p := &Program{
		Alphabet: alphabet,
	}
	for _, name := range r.Names() {
		f, _ := r.Lookup(name)
		p.Functions = append(p.Functions, f)
	}
	return p
}

// ValidateNoRecursion fails with RecursionDetectedError when the call graph has a cycle.
// Calls to unregistered names are not followed.
func (r *Registry) ValidateNoRecursion() error {
	const (
		unvisited = iota
		visiting
		done
	)
	colors := make(map[string]int)
	var path []string
	var visit func(name string) error
	visit = func(name string) error {
		switch colors[name] {
		case visiting:
			i := slices.Index(path, name)
			cycle := slices.Clone(path[i:])
			return &faults.RecursionDetectedError{
				Cycle: append(cycle, name),
			}
		case done:
			return nil
		}
		f, ok := r.Lookup(name)
		if !ok {
			return nil
		}
		colors[name] = visiting
		path = append(path, name)
		for _, callee := range f.Callees() {
			if err := visit(callee); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		colors[name] = done
		return nil
	}
	for _, name := range r.Names() {
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}
