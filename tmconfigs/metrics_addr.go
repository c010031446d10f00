package tmconfigs

import (
	"github.com/reusee/rectm/cmds"
	"github.com/reusee/rectm/configs"
	"github.com/reusee/rectm/vars"
)

// MetricsAddr is where the Prometheus endpoint listens. Empty means no endpoint.
type MetricsAddr string

var _ configs.Configurable = MetricsAddr("")

func (MetricsAddr) ConfigPath() string {
	return "metrics_addr"
}

var metricsAddrFlag = cmds.Var[string]("-metrics-addr")

func (Module) MetricsAddr(
	loader configs.Loader,
) MetricsAddr {
	return MetricsAddr(vars.FirstNonZero(
		*metricsAddrFlag,
		string(configs.Lookup[MetricsAddr](loader)),
	))
}
