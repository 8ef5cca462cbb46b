package host

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

// Initialize records the editor's workspace layout and advertises the host's
// capabilities. Backend activation is deferred until Initialized.
func (c *controller) Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	c.coordinator.SetFolders(params.WorkspaceFolders)

	return &protocol.InitializeResult{
		ServerInfo: &protocol.ServerInfo{
			Name: _serverName,
		},
		Capabilities: protocol.ServerCapabilities{
			ExecuteCommandProvider: &protocol.ExecuteCommandOptions{
				Commands: []string{
					CommandRestartServer,
					CommandToggleEnable,
					CommandShowOutputChannel,
				},
			},
			Workspace: &protocol.ServerCapabilitiesWorkspace{
				WorkspaceFolders: &protocol.ServerCapabilitiesWorkspaceFolders{
					Supported:           true,
					ChangeNotifications: true,
				},
			},
		},
	}, nil
}

// Initialized activates both backends. Each backend activates independently;
// one backend's failure never blocks the other.
func (c *controller) Initialized(ctx context.Context, params *protocol.InitializedParams) error {
	// An editor that omitted workspaceFolders from initialize can still
	// answer a workspace/workspaceFolders request once initialized.
	if len(c.coordinator.Folders()) == 0 {
		if folders, err := c.editor.WorkspaceFolders(ctx); err != nil {
			c.logger.Warnw("querying workspace folders", "error", err)
		} else {
			c.coordinator.SetFolders(folders)
		}
	}

	for _, ctrl := range c.backends.All() {
		if err := ctrl.Activate(ctx); err != nil {
			c.logger.Errorw("activating backend", "backend", ctrl.Descriptor().Name, "error", err)
		}
	}
	return nil
}

// Shutdown is sent just before Exit and tears down both backend sessions.
func (c *controller) Shutdown(ctx context.Context) error {
	for _, ctrl := range c.backends.All() {
		if err := ctrl.Deactivate(ctx); err != nil {
			c.logger.Errorw("deactivating backend", "backend", ctrl.Descriptor().Name, "error", err)
		}
	}
	return nil
}

// Exit terminates the daemon once the editor has disconnected.
func (c *controller) Exit(ctx context.Context) error {
	c.logger.Info("exit requested by editor")
	return c.shutdowner.Shutdown()
}

// InitSession creates a new editor session and returns its UUID.
func (c *controller) InitSession(ctx context.Context, conn *jsonrpc2.Conn) (uuid.UUID, error) {
	defer c.refreshIdleTimer(ctx)

	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, err
	}

	if err := c.editor.RegisterClient(ctx, id, conn); err != nil {
		return uuid.Nil, err
	}

	c.sessionMu.Lock()
	c.activeSessions++
	c.sessionMu.Unlock()
	return id, nil
}

// EndSession includes any cleanup at the end of the editor session, during or
// after the last JSON-RPC request.
func (c *controller) EndSession(ctx context.Context, id uuid.UUID) error {
	defer c.refreshIdleTimer(ctx)

	// A vanished editor must not leave orphaned subprocesses behind.
	for _, ctrl := range c.backends.All() {
		if err := ctrl.Deactivate(ctx); err != nil {
			c.logger.Errorw("deactivating backend at session end", "backend", ctrl.Descriptor().Name, "error", err)
		}
	}

	if err := c.editor.DeregisterClient(ctx, id); err != nil {
		return fmt.Errorf("deregistering editor client: %w", err)
	}

	c.sessionMu.Lock()
	if c.activeSessions > 0 {
		c.activeSessions--
	}
	c.sessionMu.Unlock()
	return nil
}
