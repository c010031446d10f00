package tmconfigs

import (
	"github.com/reusee/dscope"
	"github.com/reusee/rectm/logs"
)

type Module struct {
	dscope.Module
	Logs logs.Module
}
