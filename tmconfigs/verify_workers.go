package tmconfigs

import (
	"github.com/reusee/rectm/cmds"
	"github.com/reusee/rectm/configs"
	"github.com/reusee/rectm/vars"
)

type VerifyWorkers int

var _ configs.Configurable = VerifyWorkers(0)

func (VerifyWorkers) ConfigPath() string {
	return "verify_workers"
}

var verifyWorkersFlag = cmds.Var[int]("-workers")

func (Module) VerifyWorkers(
	loader configs.Loader,
) VerifyWorkers {
	return VerifyWorkers(vars.FirstNonZero(
		*verifyWorkersFlag,
		int(configs.Lookup[VerifyWorkers](loader)),
		4,
	))
}
