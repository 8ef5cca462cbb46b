package gateway

import (
	"go.uber.org/fx"
)

// Module provides the service's outbound gateways.
var Module = fx.Options()
