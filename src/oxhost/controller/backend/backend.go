// Package backend implements the lifecycle orchestration for one supervised
// language-server backend. The same implementation is instantiated once for
// the linter and once for the formatter; all backend-specific values come
// from the descriptor.
package backend

import (
	"context"

	"github.com/oxtools/oxhost/src/oxhost/controller/configsync"
	"github.com/oxtools/oxhost/src/oxhost/controller/msgrouter"
	"github.com/oxtools/oxhost/src/oxhost/entity"
	notifier "github.com/oxtools/oxhost/src/oxhost/gateway/editor-client"
	"github.com/oxtools/oxhost/src/oxhost/internal/binres"
	"github.com/oxtools/oxhost/src/oxhost/internal/launcher"
	"github.com/oxtools/oxhost/src/oxhost/internal/logfilewriter"
	"github.com/oxtools/oxhost/src/oxhost/repository/session"
	tally "github.com/uber-go/tally/v4"
	"go.lsp.dev/uri"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Controller orchestrates the lifecycle of one backend session.
type Controller interface {
	// Activate resolves the binary, constructs the session, and starts it
	// if the backend is enabled. A resolution failure aborts activation for
	// this backend only.
	Activate(ctx context.Context) error

	// Deactivate stops the session if running and removes it entirely.
	Deactivate(ctx context.Context) error

	// Restart performs stop-then-start if running, or a plain start
	// otherwise. Failures are logged, surfaced to the user, and leave the
	// orchestrator usable.
	Restart(ctx context.Context) error

	// Toggle starts or stops the session to match the given flag.
	// Idempotent with respect to current state.
	Toggle(ctx context.Context, enabled bool) error

	// OnConfigChange applies a configuration-change event per the
	// coordinator's push policy.
	OnConfigChange(ctx context.Context, change entity.ConfigChange) error

	// OnFilesDeleted clears cached diagnostic state for deleted files and
	// forwards the deletions to a running backend.
	OnFilesDeleted(ctx context.Context, uris []uri.URI) error

	// IsRunning reports whether the session is currently running.
	IsRunning(ctx context.Context) bool

	// Descriptor returns the backend's parameterization.
	Descriptor() entity.BackendDescriptor
}

// Params are inbound parameters to construct a backend controller.
type Params struct {
	fx.In

	Sessions    session.Repository
	Resolver    binres.Resolver
	Launcher    launcher.Launcher
	Coordinator configsync.Coordinator
	Router      msgrouter.Router
	Editor      notifier.Gateway
	Channels    logfilewriter.Channels
	Logger      *zap.SugaredLogger
	Stats       tally.Scope
}

type controller struct {
	desc        entity.BackendDescriptor
	sessions    session.Repository
	resolver    binres.Resolver
	launcher    launcher.Launcher
	coordinator configsync.Coordinator
	router      msgrouter.Router
	editor      notifier.Gateway
	channels    logfilewriter.Channels
	logger      *zap.SugaredLogger
	stats       tally.Scope
}

// New constructs a controller for the backend described by desc.
func New(desc entity.BackendDescriptor, p Params) Controller {
	return &controller{
		desc:        desc,
		sessions:    p.Sessions,
		resolver:    p.Resolver,
		launcher:    p.Launcher,
		coordinator: p.Coordinator,
		router:      p.Router,
		editor:      p.Editor,
		channels:    p.Channels,
		logger:      p.Logger.With("backend", desc.Name),
		stats:       p.Stats.SubScope(desc.Name),
	}
}

// Set bundles the two backend controllers for fan-out by the host controller.
type Set struct {
	Linter    Controller
	Formatter Controller
}

// NewSet constructs both backend controllers.
func NewSet(p Params) Set {
	return Set{
		Linter:    New(entity.LinterDescriptor(), p),
		Formatter: New(entity.FormatterDescriptor(), p),
	}
}

// All returns the controllers in fan-out order.
func (s Set) All() []Controller {
	return []Controller{s.Linter, s.Formatter}
}

func (c *controller) Descriptor() entity.BackendDescriptor {
	return c.desc
}

func (c *controller) IsRunning(ctx context.Context) bool {
	s, err := c.sessions.Get(ctx, c.desc.Kind)
	if err != nil {
		return false
	}
	return s.Running()
}
