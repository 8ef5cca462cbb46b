package app

import (
	"context"
	"time"

	"github.com/oxtools/oxhost/src/oxhost/gateway"
	notifier "github.com/oxtools/oxhost/src/oxhost/gateway/editor-client"
	"github.com/oxtools/oxhost/src/oxhost/handler"
	"github.com/oxtools/oxhost/src/oxhost/internal/binres"
	"github.com/oxtools/oxhost/src/oxhost/internal/core"
	"github.com/oxtools/oxhost/src/oxhost/internal/fs"
	"github.com/oxtools/oxhost/src/oxhost/internal/hostinfofile"
	"github.com/oxtools/oxhost/src/oxhost/internal/jsonrpcfx"
	"github.com/oxtools/oxhost/src/oxhost/internal/launcher"
	"github.com/oxtools/oxhost/src/oxhost/internal/logfilewriter"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/fx"
)

// Module defines the oxhost application module.
var Module = fx.Options(
	gateway.Module, // outbounds
	handler.Module, // inbounds
	jsonrpcfx.Module,
	fs.Module,
	hostinfofile.Module,
	logfilewriter.Module,
	binres.Module,
	launcher.Module,
	core.ConfigModule,
	core.LoggerModule,
	fx.Provide(notifier.New),
	fx.Provide(func(lc fx.Lifecycle) tally.Scope {
		rs, closer := tally.NewRootScope(tally.ScopeOptions{
			Tags: map[string]string{
				"service": "oxhost",
			},
		}, 1*time.Second)

		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return closer.Close()
			},
		})

		return rs
	}),
	fx.Decorate(decorateEnvContext),
	fx.Decorate(decorateConfigProvider),
	fx.Provide(func() Context {
		return Context{
			Environment: EnvLocal,
		}
	}),
)
