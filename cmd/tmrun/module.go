package main

import (
	"github.com/reusee/dscope"
	"github.com/reusee/rectm/debugs"
	"github.com/reusee/rectm/meters"
	"github.com/reusee/rectm/tmconfigs"
)

type Module struct {
	dscope.Module
	Configs tmconfigs.Module
	Meters  meters.Module
	Debugs  debugs.Module
}
