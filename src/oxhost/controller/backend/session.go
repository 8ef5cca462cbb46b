package backend

import (
	"context"
	"fmt"
	"os"

	"github.com/oxtools/oxhost/src/oxhost/entity"
	"github.com/oxtools/oxhost/src/oxhost/internal/errors"
	"github.com/oxtools/oxhost/src/oxhost/mapper"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

// start launches the subprocess and completes the LSP initialization
// handshake. No-op when the session is already running.
func (c *controller) start(ctx context.Context, s *entity.BackendSession) error {
	if s.Running() {
		return nil
	}
	if s.Spec == nil {
		return fmt.Errorf("starting %s: no launch spec resolved", c.desc.Name)
	}

	// The connection outlives the triggering request. Carry only the editor
	// session identity over into the long-lived context.
	launchCtx := context.Background()
	if id, err := mapper.ContextToSessionUUID(ctx); err == nil {
		launchCtx = context.WithValue(launchCtx, entity.SessionContextKey, id)
	}

	conn, err := c.launcher.Launch(launchCtx, *s.Spec, c.handler(), c.channels.Writer(c.desc.Name))
	if err != nil {
		return err
	}
	server := protocol.ServerDispatcher(conn, c.logger.Desugar())

	if _, err := server.Initialize(ctx, &protocol.InitializeParams{
		ProcessID: int32(os.Getpid()),
		ClientInfo: &protocol.ClientInfo{
			Name: "oxhost",
		},
		Capabilities: protocol.ClientCapabilities{
			Workspace: &protocol.WorkspaceClientCapabilities{
				Configuration:          true,
				WorkspaceFolders:       true,
				DidChangeConfiguration: &protocol.DidChangeConfigurationWorkspaceClientCapabilities{},
				DidChangeWatchedFiles:  &protocol.DidChangeWatchedFilesWorkspaceClientCapabilities{},
			},
		},
		InitializationOptions: s.InitializationOptions,
		WorkspaceFolders:      c.coordinator.Folders(),
	}); err != nil {
		conn.Close()
		return fmt.Errorf("initializing %s: %w", c.desc.Name, err)
	}
	if err := server.Initialized(ctx, &protocol.InitializedParams{}); err != nil {
		conn.Close()
		return fmt.Errorf("confirming %s initialization: %w", c.desc.Name, err)
	}

	s.Conn = conn
	s.Server = server
	s.State = entity.StateRunning

	c.stats.Counter("starts").Inc(1)
	c.logger.Infow("backend started", "path", s.Spec.Path)
	c.coordinator.RefreshStatus(ctx, c.desc, s)
	return nil
}

// stop shuts a running session down with the protocol-level shutdown/exit
// sequence and clears its displayed diagnostics. No-op otherwise.
func (c *controller) stop(ctx context.Context, s *entity.BackendSession) error {
	if !s.Running() {
		return nil
	}

	if err := s.Server.Shutdown(ctx); err != nil {
		c.logger.Warnw("shutdown request failed, closing connection anyway", "error", err)
	} else if err := s.Server.Exit(ctx); err != nil {
		c.logger.Warnw("exit notification failed, closing connection anyway", "error", err)
	}
	if err := s.Conn.Close(); err != nil {
		c.logger.Warnw("closing backend connection", "error", err)
	}

	// Diagnostics from a stopped backend are stale; clear them from the editor.
	uris, err := c.sessions.DrainDiagnostics(ctx, c.desc.Kind)
	if err != nil {
		if _, ok := errors.NotFoundBackend(err); !ok {
			c.logger.Warnw("draining diagnostics on stop", "error", err)
		}
	}
	for _, u := range uris {
		if err := c.editor.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
			URI:         u,
			Diagnostics: []protocol.Diagnostic{},
		}); err != nil {
			c.logger.Warnw("clearing diagnostics on stop", "uri", u, "error", err)
		}
	}

	s.Conn = nil
	s.Server = nil
	s.State = entity.StateStopped

	c.stats.Counter("stops").Inc(1)
	c.logger.Infow("backend stopped")
	c.coordinator.RefreshStatus(ctx, c.desc, s)
	return nil
}

// handler returns the jsonrpc2 handler for server-initiated traffic on the
// backend connection.
func (c *controller) handler() jsonrpc2.Handler {
	return func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		switch req.Method() {
		case protocol.MethodWorkspaceConfiguration:
			params, err := mapper.RequestToConfigurationParams(req)
			if err != nil {
				return reply(ctx, nil, err)
			}
			return reply(ctx, c.coordinator.Resolve(ctx, c.desc, params), nil)

		case protocol.MethodWindowShowMessage:
			params, err := mapper.RequestToShowMessageParams(req)
			if err != nil {
				return reply(ctx, nil, err)
			}
			c.router.RouteShowMessage(ctx, c.desc, params)
			return reply(ctx, nil, nil)

		case protocol.MethodWindowLogMessage:
			params, err := mapper.RequestToLogMessageParams(req)
			if err != nil {
				return reply(ctx, nil, err)
			}
			c.router.RouteLogMessage(ctx, c.desc, params)
			return reply(ctx, nil, nil)

		case protocol.MethodTextDocumentPublishDiagnostics:
			params, err := mapper.RequestToPublishDiagnosticsParams(req)
			if err != nil {
				return reply(ctx, nil, err)
			}
			c.forwardDiagnostics(ctx, params)
			return reply(ctx, nil, nil)

		default:
			return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
		}
	}
}

// forwardDiagnostics relays a publishDiagnostics notification to the editor
// and keeps the session's displayed-diagnostics bookkeeping current.
func (c *controller) forwardDiagnostics(ctx context.Context, params *protocol.PublishDiagnosticsParams) {
	if err := c.editor.PublishDiagnostics(ctx, params); err != nil {
		c.logger.Warnw("forwarding diagnostics", "uri", params.URI, "error", err)
		return
	}

	// This handler runs on the backend connection goroutine, concurrently
	// with editor-driven lifecycle operations; the bookkeeping lives behind
	// the repository lock.
	var err error
	if len(params.Diagnostics) == 0 {
		_, err = c.sessions.UntrackDiagnostic(ctx, c.desc.Kind, params.URI)
	} else {
		err = c.sessions.TrackDiagnostic(ctx, c.desc.Kind, params.URI)
	}
	if err != nil {
		// A missing session means the backend is between activation and
		// storage, or already torn down.
		if _, ok := errors.NotFoundBackend(err); !ok {
			c.logger.Warnw("recording diagnostics", "uri", params.URI, "error", err)
		}
	}
}
