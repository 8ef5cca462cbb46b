package handler

import (
	controller "github.com/oxtools/oxhost/src/oxhost/controller"
	hostctrl "github.com/oxtools/oxhost/src/oxhost/controller/host"
	handler "github.com/oxtools/oxhost/src/oxhost/handler/host"
	"github.com/oxtools/oxhost/src/oxhost/repository/session"
	"go.uber.org/fx"
)

// Module provides the oxhost server into an Fx application.
var Module = fx.Options(
	controller.Module,
	fx.Provide(session.New),
	fx.Provide(handler.New),
	fx.Invoke(func(m handler.Handler) {}),
	fx.Invoke(func(m hostctrl.Controller) {}),
)
