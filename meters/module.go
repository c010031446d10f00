package meters

import "github.com/reusee/dscope"

// Module needs tmconfigs and logs providers from the including scope.
type Module struct {
	dscope.Module
}
