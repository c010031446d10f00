package recirs

import (
	"fmt"
	"slices"

	"github.com/reusee/rectm/builders"
	"github.com/reusee/rectm/faults"
	"github.com/reusee/rectm/machines"
	"github.com/reusee/rectm/tapes"
)

// AcceptState is the only accepted state of lowered machines.
const AcceptState machines.State = "end"

// maxStates bounds the explored configurations
const maxStates = 1 << 20

// Lower turns p into Turing machine code over alphabet plus the constants of p plus the blank.
// There is one state per reachable pair of instruction and live variable values, so the machine
// performs the same steps as a JumpMachine. Variables that are dead at an instruction are taken as blank.
func Lower(p *JumpProgram, alphabet []tapes.Sign) (*machines.Definition, error) {
	signs := slices.Concat(alphabet, p.Signs(), []tapes.Sign{tapes.Blank})
	slices.Sort(signs)
	signs = slices.Compact(signs)
	if len(signs) > 255 {
		return nil, &faults.ValidationError{
			What:   "alphabet",
			Reason: fmt.Sprintf("%d signs, at most 255 are supported", len(signs)),
		}
	}
	// the blank sorts first, so a zero byte is a blank variable
	signIndex := make(map[tapes.Sign]byte, len(signs))
	for i, s := range signs {
		signIndex[s] = byte(i)
	}

	vars := p.Vars()
	varIndex := make(map[Var]int, len(vars))
	for i, v := range vars {
		varIndex[v] = i
	}
	live := liveness(p, varIndex)

	type config struct {
		pc  int
		env string
	}
	end := len(p.Instrs)
	canonical := func(pc int, env []byte) config {
		for i := range env {
			if !live[pc].has(i) {
				env[i] = 0
			}
		}
		return config{
			pc:  pc,
			env: string(env),
		}
	}

	states := make(map[config]machines.State)
	counts := make([]int, end)
	var queue []config
	stateOf := func(c config) (machines.State, error) {
		if c.pc == end {
			return AcceptState, nil
		}
		if s, ok := states[c]; ok {
			return s, nil
		}
		if len(states) >= maxStates {
			return "", &faults.ValidationError{
				What:   "jump program",
				Reason: fmt.Sprintf("more than %d machine states", maxStates),
			}
		}
		s := machines.State(fmt.Sprintf("p%de%d", c.pc, counts[c.pc]))
		counts[c.pc]++
		states[c] = s
		queue = append(queue, c)
		return s, nil
	}

	init, err := stateOf(canonical(0, make([]byte, len(vars))))
	if err != nil {
		return nil, err
	}

	var entries []machines.Entry
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		state := states[c]
		instr := p.Instrs[c.pc]

		for read := range signs {
			env := []byte(c.env)
			value := func(op Operand) byte {
				switch op := op.(type) {
				case Var:
					return env[varIndex[op]]
				case Head:
					return byte(read)
				case Const:
					return signIndex[tapes.Sign(op)]
				}
				return 0
			}

			write := byte(read)
			move := tapes.Stay
			next := c.pc + 1
			switch instr := instr.(type) {
			case Move:
				move = instr.Dir
			case Assign:
				v := value(instr.Src)
				switch dst := instr.Dst.(type) {
				case Var:
					env[varIndex[dst]] = v
				case Head:
					write = v
				}
			case JumpTo:
				if instr.Cond == nil || (value(instr.Cond.Left) == value(instr.Cond.Right)) != instr.Cond.Negative {
					next = instr.Target
				}
			}

			nextState, err := stateOf(canonical(next, env))
			if err != nil {
				return nil, err
			}
			entries = append(entries, machines.Entry{
				Key: machines.Key{
					Read:  signs[read],
					State: state,
				},
				Value: machines.Value{
					Write: signs[write],
					Next:  nextState,
					Move:  move,
				},
			})
		}
	}

	return machines.NewDefinition(init, []machines.State{AcceptState}, entries)
}

// LowerBuilder wraps the lowered code in a builder, for composing with other machines.
func LowerBuilder(name string, p *JumpProgram, alphabet []tapes.Sign) (*builders.Builder, error) {
	def, err := Lower(p, alphabet)
	if err != nil {
		return nil, err
	}
	b, err := builders.New(name)
	if err != nil {
		return nil, err
	}
	b.SetInit(def.Init())
	b.SetAccepted(def.Accepted()...)
	b.SetCode(def.Entries())
	return b, nil
}

type bitset []uint64

func newBitset(n int) bitset {
	return make(bitset, (n+63)/64)
}

func (b bitset) has(i int) bool {
	return b[i/64]&(1<<(i%64)) != 0
}

func (b bitset) set(i int) {
	b[i/64] |= 1 << (i % 64)
}

func (b bitset) clear(i int) {
	b[i/64] &^= 1 << (i % 64)
}

// liveness returns the variables live on entry of each instruction, and of the end.
func liveness(p *JumpProgram, varIndex map[Var]int) []bitset {
	n := len(p.Instrs)
	live := make([]bitset, n+1)
	for i := range live {
		live[i] = newBitset(len(varIndex))
	}
	for changed := true; changed; {
		changed = false
		for pc := n - 1; pc >= 0; pc-- {
			instr := p.Instrs[pc]
			in := newBitset(len(varIndex))
			copy(in, live[pc+1])
			if j, ok := instr.(JumpTo); ok {
				if j.Cond == nil {
					copy(in, live[j.Target])
				} else {
					for i, w := range live[j.Target] {
						in[i] |= w
					}
				}
			}
			if v, ok := instrDef(instr); ok {
				in.clear(varIndex[v])
			}
			for _, v := range instrUses(instr) {
				in.set(varIndex[v])
			}
			if !slices.Equal(in, live[pc]) {
				live[pc] = in
				changed = true
			}
		}
	}
	return live
}
