// Package host implements the editor-facing business logic: the LSP lifecycle
// of the editor connection and the fan-out of workspace events and commands to
// the per-backend orchestrators.
package host

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/oxtools/oxhost/src/oxhost/controller/backend"
	"github.com/oxtools/oxhost/src/oxhost/controller/configsync"
	notifier "github.com/oxtools/oxhost/src/oxhost/gateway/editor-client"
	"github.com/oxtools/oxhost/src/oxhost/internal/logfilewriter"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	// Commands recognized by workspace/executeCommand.
	CommandRestartServer     = "oxhost.restartServer"
	CommandToggleEnable      = "oxhost.toggleEnable"
	CommandShowOutputChannel = "oxhost.showOutputChannel"

	_serverName = "oxhost"

	// Configuration keys
	_idleTimeoutMinutesKey = "idleTimeoutMinutes"
)

// Controller orchestrates the business logic for each editor request.
type Controller interface {
	// LSP Methods defined per protocol.
	Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error)
	Initialized(ctx context.Context, params *protocol.InitializedParams) (err error)
	Shutdown(ctx context.Context) (err error)
	Exit(ctx context.Context) error

	// Workspace related methods.
	DidChangeConfiguration(ctx context.Context, params *protocol.DidChangeConfigurationParams) error
	DidChangeWorkspaceFolders(ctx context.Context, params *protocol.DidChangeWorkspaceFoldersParams) error
	DidChangeWatchedFiles(ctx context.Context, params *protocol.DidChangeWatchedFilesParams) error
	ExecuteCommand(ctx context.Context, params *protocol.ExecuteCommandParams) (interface{}, error)

	// Custom methods for use within this service.
	InitSession(ctx context.Context, conn *jsonrpc2.Conn) (uuid.UUID, error)
	EndSession(ctx context.Context, uuid uuid.UUID) error
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Shutdowner  fx.Shutdowner
	Backends    backend.Set
	Coordinator configsync.Coordinator
	Editor      notifier.Gateway
	Channels    logfilewriter.Channels
	Logger      *zap.SugaredLogger
	Config      config.Provider
}

type controller struct {
	shutdowner  fx.Shutdowner
	backends    backend.Set
	coordinator configsync.Coordinator
	editor      notifier.Gateway
	channels    logfilewriter.Channels
	logger      *zap.SugaredLogger

	idleTimer          *time.Timer
	idleTimerMu        sync.Mutex
	idleTimeoutMinutes time.Duration

	sessionMu      sync.Mutex
	activeSessions int
}

// New constructs a new top-level controller for the service.
func New(p Params) (Controller, error) {
	var timeoutMinutesRaw int64
	if err := p.Config.Get(_idleTimeoutMinutesKey).Populate(&timeoutMinutesRaw); err != nil || timeoutMinutesRaw == 0 {
		return nil, fmt.Errorf("unable to get idle timeout from config: %w", err)
	}

	c := &controller{
		shutdowner:  p.Shutdowner,
		backends:    p.Backends,
		coordinator: p.Coordinator,
		editor:      p.Editor,
		channels:    p.Channels,
		logger:      p.Logger,

		idleTimeoutMinutes: time.Duration(timeoutMinutesRaw) * time.Minute,
	}
	c.refreshIdleTimer(context.Background())

	return c, nil
}

// refreshIdleTimer ensures that the service shuts down after a defined
// inactivity period with no editor connections.
func (c *controller) refreshIdleTimer(ctx context.Context) {
	c.idleTimerMu.Lock()
	defer c.idleTimerMu.Unlock()

	// First call initializes a new timer and leaves it running prior to the
	// first connection.
	if c.idleTimer == nil {
		c.idleTimer = time.NewTimer(c.idleTimeoutMinutes)
		go func() {
			<-c.idleTimer.C
			c.logger.Info("idle timeout reached, shutting down")
			if err := c.shutdowner.Shutdown(); err != nil {
				os.Exit(1)
			}
		}()
		return
	}

	// Subsequent calls stop the timer and reset it only while no editor is
	// connected.
	c.idleTimer.Stop()

	c.sessionMu.Lock()
	active := c.activeSessions
	c.sessionMu.Unlock()
	if active == 0 {
		c.idleTimer.Reset(c.idleTimeoutMinutes)
	}
}
