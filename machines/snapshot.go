package machines

import (
	"bytes"
	"encoding/gob"
	"io"

	"github.com/reusee/rectm/tapes"
)

type Snapshot struct {
	State State
	Tape  tapes.Tape
	Steps int
}

func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		State: m.state,
		Tape:  m.tape.Clone(),
		Steps: m.steps,
	}
}

func (m *Machine) Restore(s Snapshot) {
	m.state = s.State
	m.tape = s.Tape.Clone()
	m.steps = s.Steps
}

func (s Snapshot) Encode(w io.Writer) error {
	return gob.NewEncoder(w).Encode(s)
}

func DecodeSnapshot(r io.Reader) (ret Snapshot, err error) {
	err = gob.NewDecoder(r).Decode(&ret)
	return
}

func (s Snapshot) Bytes() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := s.Encode(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
