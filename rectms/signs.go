package rectms

import "github.com/reusee/rectm/tapes"

const (
	// Tally is one unit of a unary number.
	Tally tapes.Sign = "l"
	// Partition delimits tuple components.
	Partition tapes.Sign = "x"
)

// working marks, never left on the tape between fragments
const (
	markOpening   tapes.Sign = "y"
	markDelete    tapes.Sign = "e"
	markTally     tapes.Sign = "L"
	markPartition tapes.Sign = "X"
)

const blank = tapes.Blank
