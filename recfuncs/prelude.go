package recfuncs

import "sync"

// PreludeText defines common arithmetic. Arguments of add, mult and sub are (counter, x).
const PreludeText = `
let zero1 = PRIM[z: ZERO s: PROJ[2,0]].
let pred = PRIM[z: ZERO s: PROJ[2,1]].
let add = PRIM[z: PROJ[1,0] s: COMP[SUCC: (PROJ[3,0])]].
let mult = PRIM[z: zero1 s: COMP[add: (PROJ[3,0], PROJ[3,2])]].
let sub = PRIM[z: PROJ[1,0] s: COMP[pred: (PROJ[3,0])]].
let ident = MUOP[COMP[sub: (PROJ[2,1], PROJ[2,0])]].
let main = add.
`

var Prelude = sync.OnceValue(func() *Program {
	return MustParseText(PreludeText)
})

// MustLookup panics when name is not defined.
func (p *Program) MustLookup(name string) Func {
	f, ok := p.Lookup(name)
	if !ok {
		panic("function not defined: " + name)
	}
	return f
}
