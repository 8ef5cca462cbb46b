// Package msgrouter routes backend-pushed messages to the appropriate local
// presentation: the backend's diagnostic log, the editor's prompt surface, or
// both.
package msgrouter

import (
	"context"

	"github.com/oxtools/oxhost/src/oxhost/entity"
	notifier "github.com/oxtools/oxhost/src/oxhost/gateway/editor-client"
	"github.com/oxtools/oxhost/src/oxhost/internal/logfilewriter"
	tally "github.com/uber-go/tally/v4"
	"go.lsp.dev/protocol"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Router maps server-pushed message notifications to exactly one
// presentation. Routing is fire-and-forget: presentation failures are logged
// and never propagate back into session processing.
type Router interface {
	// RouteLogMessage appends a window/logMessage payload to the backend's
	// diagnostic log at the mapped level.
	RouteLogMessage(ctx context.Context, desc entity.BackendDescriptor, params *protocol.LogMessageParams)

	// RouteShowMessage surfaces a window/showMessage payload as a transient
	// editor prompt for user-facing severities, and appends it to the
	// diagnostic log in all cases. Unrecognized severities degrade to an
	// informational log entry.
	RouteShowMessage(ctx context.Context, desc entity.BackendDescriptor, params *protocol.ShowMessageParams)
}

// Params are inbound parameters to construct the router.
type Params struct {
	fx.In

	Channels logfilewriter.Channels
	Editor   notifier.Gateway
	Logger   *zap.SugaredLogger
	Stats    tally.Scope
}

type router struct {
	channels logfilewriter.Channels
	editor   notifier.Gateway
	logger   *zap.SugaredLogger
	stats    tally.Scope
}

// New constructs the message router.
func New(p Params) Router {
	return &router{
		channels: p.Channels,
		editor:   p.Editor,
		logger:   p.Logger,
		stats:    p.Stats.SubScope("msgrouter"),
	}
}

func (r *router) RouteLogMessage(ctx context.Context, desc entity.BackendDescriptor, params *protocol.LogMessageParams) {
	r.stats.Counter("log_messages").Inc(1)
	r.append(desc, params.Type, params.Message)
}

func (r *router) RouteShowMessage(ctx context.Context, desc entity.BackendDescriptor, params *protocol.ShowMessageParams) {
	r.stats.Counter("show_messages").Inc(1)
	r.append(desc, params.Type, params.Message)

	switch params.Type {
	case protocol.MessageTypeError, protocol.MessageTypeWarning, protocol.MessageTypeInfo:
		if err := r.editor.ShowMessage(ctx, params); err != nil {
			r.logger.Warnw("surfacing backend message", "backend", desc.Name, "error", err)
		}
	default:
		// Log-level and unrecognized severities stay in the log only.
	}
}

func (r *router) append(desc entity.BackendDescriptor, t protocol.MessageType, message string) {
	level := logfilewriter.LevelForMessageType(t)
	if err := r.channels.Append(desc.Name, level, message); err != nil {
		r.logger.Warnw("appending to backend log", "backend", desc.Name, "error", err)
	}
}
