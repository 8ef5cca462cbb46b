package backend

import (
	"context"
	"fmt"

	"github.com/oxtools/oxhost/src/oxhost/entity"
	"github.com/oxtools/oxhost/src/oxhost/internal/errors"
	"github.com/oxtools/oxhost/src/oxhost/mapper"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

func (c *controller) Activate(ctx context.Context) error {
	if c.desc.Disabled() {
		c.logger.Infow("backend disabled by kill switch, skipping activation", "env", c.desc.DisableEnv)
		return nil
	}

	s := mapper.KindToBackendSession(c.desc.Kind)
	s.InitializationOptions = c.coordinator.Snapshot(c.desc)

	binaryPath, err := c.resolver.Resolve(c.desc)
	if err != nil {
		c.logger.Warnw("activation aborted", "error", err)
		return fmt.Errorf("activating %s: %w", c.desc.Name, err)
	}

	spec := c.launcher.BuildSpec(c.desc, binaryPath)
	s.Spec = &spec

	if c.coordinator.Enabled(c.desc) {
		if err := c.start(ctx, s); err != nil {
			c.sessions.Set(ctx, s)
			return fmt.Errorf("activating %s: %w", c.desc.Name, err)
		}
	} else {
		c.logger.Infow("backend disabled in settings, activating without start")
		c.coordinator.RefreshStatus(ctx, c.desc, s)
	}

	return c.sessions.Set(ctx, s)
}

func (c *controller) Deactivate(ctx context.Context) error {
	s, err := c.sessions.Get(ctx, c.desc.Kind)
	if err != nil {
		if _, ok := errors.NotFoundBackend(err); ok {
			// Never activated, nothing to tear down.
			return nil
		}
		return err
	}

	if err := c.stop(ctx, s); err != nil {
		c.logger.Warnw("stopping backend during deactivation", "error", err)
	}
	return c.sessions.Delete(ctx, c.desc.Kind)
}

func (c *controller) Restart(ctx context.Context) error {
	s, err := c.sessions.Get(ctx, c.desc.Kind)
	if err != nil {
		s = mapper.KindToBackendSession(c.desc.Kind)
		s.InitializationOptions = c.coordinator.Snapshot(c.desc)
	}

	if err := c.stop(ctx, s); err != nil {
		c.logger.Warnw("stopping backend during restart", "error", err)
	}

	// The binary is re-resolved on every restart so a newly installed or
	// newly configured server is picked up without reloading the host.
	binaryPath, err := c.resolver.Resolve(c.desc)
	if err != nil {
		c.sessions.Set(ctx, s)
		return c.failRestart(ctx, err)
	}
	spec := c.launcher.BuildSpec(c.desc, binaryPath)
	s.Spec = &spec
	s.InitializationOptions = c.coordinator.Snapshot(c.desc)

	if err := c.start(ctx, s); err != nil {
		c.sessions.Set(ctx, s)
		return c.failRestart(ctx, err)
	}

	c.stats.Counter("restarts").Inc(1)
	return c.sessions.Set(ctx, s)
}

// failRestart reports a restart failure in full to the log and as a brief
// error prompt in the editor, leaving the orchestrator usable.
func (c *controller) failRestart(ctx context.Context, err error) error {
	c.logger.Errorw("restarting backend", "error", err)

	if showErr := c.editor.ShowMessage(ctx, &protocol.ShowMessageParams{
		Type:    protocol.MessageTypeError,
		Message: fmt.Sprintf("Failed to restart %s. See the %s output for details.", c.desc.Name, c.desc.Name),
	}); showErr != nil {
		c.logger.Warnw("surfacing restart failure", "error", showErr)
	}
	return fmt.Errorf("restarting %s: %w", c.desc.Name, err)
}

func (c *controller) Toggle(ctx context.Context, enabled bool) error {
	s, err := c.sessions.Get(ctx, c.desc.Kind)
	if err != nil {
		// Never activated; a kill-switched backend stays off regardless.
		return nil
	}

	switch {
	case enabled && !s.Running():
		if s.Spec == nil {
			binaryPath, err := c.resolver.Resolve(c.desc)
			if err != nil {
				return fmt.Errorf("enabling %s: %w", c.desc.Name, err)
			}
			spec := c.launcher.BuildSpec(c.desc, binaryPath)
			s.Spec = &spec
		}
		if err := c.start(ctx, s); err != nil {
			c.sessions.Set(ctx, s)
			return fmt.Errorf("enabling %s: %w", c.desc.Name, err)
		}
	case !enabled && s.Running():
		if err := c.stop(ctx, s); err != nil {
			c.sessions.Set(ctx, s)
			return fmt.Errorf("disabling %s: %w", c.desc.Name, err)
		}
	default:
		// Already in the requested state.
		c.coordinator.RefreshStatus(ctx, c.desc, s)
	}

	return c.sessions.Set(ctx, s)
}

func (c *controller) OnConfigChange(ctx context.Context, change entity.ConfigChange) error {
	s, err := c.sessions.Get(ctx, c.desc.Kind)
	if err != nil {
		// Never activated, no session to reconfigure.
		return nil
	}

	if _, err := c.coordinator.OnConfigChange(ctx, c.desc, change, s); err != nil {
		c.logger.Warnw("applying configuration change", "error", err)
	}

	if change.Relevant(c.desc.ConfigSection) {
		// Reconcile the session with the effective enable flag, which the
		// change may have flipped.
		if err := c.reconcileEnabled(ctx, s); err != nil {
			c.sessions.Set(ctx, s)
			return err
		}
	}

	return c.sessions.Set(ctx, s)
}

func (c *controller) reconcileEnabled(ctx context.Context, s *entity.BackendSession) error {
	enabled := c.coordinator.Enabled(c.desc)
	switch {
	case enabled && !s.Running():
		if s.Spec == nil {
			binaryPath, err := c.resolver.Resolve(c.desc)
			if err != nil {
				return fmt.Errorf("enabling %s: %w", c.desc.Name, err)
			}
			spec := c.launcher.BuildSpec(c.desc, binaryPath)
			s.Spec = &spec
		}
		return c.start(ctx, s)
	case !enabled && s.Running():
		return c.stop(ctx, s)
	}
	return nil
}

func (c *controller) OnFilesDeleted(ctx context.Context, uris []uri.URI) error {
	s, err := c.sessions.Get(ctx, c.desc.Kind)
	if err != nil {
		return nil
	}

	var changes []*protocol.FileEvent
	for _, u := range uris {
		if !c.desc.Matches(u.Filename()) {
			continue
		}
		changes = append(changes, &protocol.FileEvent{
			URI:  u,
			Type: protocol.FileChangeTypeDeleted,
		})

		// Clear any diagnostics still displayed for the deleted file.
		tracked, err := c.sessions.UntrackDiagnostic(ctx, c.desc.Kind, u)
		if err != nil {
			continue
		}
		if tracked {
			if err := c.editor.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
				URI:         u,
				Diagnostics: []protocol.Diagnostic{},
			}); err != nil {
				c.logger.Warnw("clearing diagnostics for deleted file", "uri", u, "error", err)
			}
		}
	}

	if len(changes) == 0 {
		return nil
	}

	if s.Running() {
		if err := s.Server.DidChangeWatchedFiles(ctx, &protocol.DidChangeWatchedFilesParams{
			Changes: changes,
		}); err != nil {
			c.logger.Warnw("forwarding file deletions", "error", err)
		}
	}
	return nil
}
