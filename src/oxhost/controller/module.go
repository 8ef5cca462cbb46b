package controller

import (
	"github.com/oxtools/oxhost/src/oxhost/controller/backend"
	"github.com/oxtools/oxhost/src/oxhost/controller/configsync"
	"github.com/oxtools/oxhost/src/oxhost/controller/host"
	"github.com/oxtools/oxhost/src/oxhost/controller/msgrouter"
	"go.uber.org/fx"
)

// Module provides the service's business logic controllers into an Fx
// application.
var Module = fx.Options(
	fx.Provide(host.New),
	fx.Provide(backend.NewSet),
	configsync.Module,
	msgrouter.Module,
)
