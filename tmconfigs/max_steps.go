package tmconfigs

import (
	"github.com/reusee/rectm/cmds"
	"github.com/reusee/rectm/configs"
	"github.com/reusee/rectm/vars"
)

// MaxSteps bounds every machine run.
type MaxSteps int

var _ configs.Configurable = MaxSteps(0)

func (MaxSteps) ConfigPath() string {
	return "max_steps"
}

const DefaultMaxSteps = 1_000_000

var maxStepsFlag = cmds.Var[int]("-max-steps")

func (Module) MaxSteps(
	loader configs.Loader,
) MaxSteps {
	return MaxSteps(vars.FirstNonZero(
		// flag
		*maxStepsFlag,
		// config
		int(configs.Lookup[MaxSteps](loader)),
		DefaultMaxSteps,
	))
}
