package tmconfigs

import (
	"github.com/reusee/rectm/cmds"
	"github.com/reusee/rectm/configs"
	"github.com/reusee/rectm/vars"
)

// TraceEvery is the interval in steps of configuration logs. Zero disables them.
type TraceEvery int

var _ configs.Configurable = TraceEvery(0)

func (TraceEvery) ConfigPath() string {
	return "trace_every"
}

var traceEveryFlag = cmds.Var[int]("-trace-every")

func (Module) TraceEvery(
	loader configs.Loader,
) TraceEvery {
	return TraceEvery(vars.FirstNonZero(
		*traceEveryFlag,
		int(configs.Lookup[TraceEvery](loader)),
	))
}
