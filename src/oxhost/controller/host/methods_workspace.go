package host

import (
	"context"
	"fmt"

	"github.com/oxtools/oxhost/src/oxhost/controller/backend"
	"github.com/oxtools/oxhost/src/oxhost/entity"
	"github.com/oxtools/oxhost/src/oxhost/mapper"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/multierr"
)

// DidChangeConfiguration fans a settings change out to both backends. Each
// backend decides relevance from the changed sections.
func (c *controller) DidChangeConfiguration(ctx context.Context, params *protocol.DidChangeConfigurationParams) error {
	change := entity.ConfigChange{
		Sections: mapper.SettingsToConfigChange(params.Settings),
	}

	var err error
	for _, ctrl := range c.backends.All() {
		err = multierr.Append(err, ctrl.OnConfigChange(ctx, change))
	}
	return err
}

// DidChangeWorkspaceFolders updates the tracked folder set and notifies both
// backends. Folder membership affects per-scope configuration resolution, so
// the change is relevant to every backend.
func (c *controller) DidChangeWorkspaceFolders(ctx context.Context, params *protocol.DidChangeWorkspaceFoldersParams) error {
	c.coordinator.UpdateFolders(params.Event.Added, params.Event.Removed)

	change := entity.ConfigChange{WorkspaceFoldersChanged: true}
	var err error
	for _, ctrl := range c.backends.All() {
		err = multierr.Append(err, ctrl.OnConfigChange(ctx, change))
	}
	return err
}

// DidChangeWatchedFiles forwards file deletions so backends can drop state
// for files that no longer exist. Other change types are handled by the
// backends' own watchers.
func (c *controller) DidChangeWatchedFiles(ctx context.Context, params *protocol.DidChangeWatchedFilesParams) error {
	var deleted []uri.URI
	for _, change := range params.Changes {
		if change != nil && change.Type == protocol.FileChangeTypeDeleted {
			deleted = append(deleted, change.URI)
		}
	}
	if len(deleted) == 0 {
		return nil
	}

	var err error
	for _, ctrl := range c.backends.All() {
		err = multierr.Append(err, ctrl.OnFilesDeleted(ctx, deleted))
	}
	return err
}

// ExecuteCommand dispatches the host's custom commands.
func (c *controller) ExecuteCommand(ctx context.Context, params *protocol.ExecuteCommandParams) (interface{}, error) {
	switch params.Command {
	case CommandRestartServer:
		return nil, c.restartServers(ctx, c.targets(params.Arguments))

	case CommandToggleEnable:
		return nil, c.toggleServers(ctx, c.targets(params.Arguments))

	case CommandShowOutputChannel:
		return c.outputChannels(c.targets(params.Arguments)), nil

	default:
		return nil, fmt.Errorf("unsupported command: %q", params.Command)
	}
}

// targets resolves a command's optional backend-name argument to the affected
// controllers. With no argument the command applies to both backends.
func (c *controller) targets(args []interface{}) []backend.Controller {
	if len(args) > 0 {
		if name, ok := args[0].(string); ok {
			for _, ctrl := range c.backends.All() {
				if ctrl.Descriptor().Name == name {
					return []backend.Controller{ctrl}
				}
			}
		}
	}
	return c.backends.All()
}

// restartServers restarts the targeted backends serially in fan-out order.
// Kill-switched backends are skipped rather than failed.
func (c *controller) restartServers(ctx context.Context, targets []backend.Controller) error {
	var err error
	for _, ctrl := range targets {
		if ctrl.Descriptor().Disabled() {
			c.logger.Infow("skipping restart of kill-switched backend", "backend", ctrl.Descriptor().Name)
			continue
		}
		err = multierr.Append(err, ctrl.Restart(ctx))
	}
	return err
}

// toggleServers flips each targeted backend's runtime enable override and
// brings its session in line with the new value.
func (c *controller) toggleServers(ctx context.Context, targets []backend.Controller) error {
	var err error
	for _, ctrl := range targets {
		enabled := c.coordinator.ToggleEnabled(ctrl.Descriptor())
		err = multierr.Append(err, ctrl.Toggle(ctx, enabled))
	}
	return err
}

// outputChannels reports the diagnostic log path per targeted backend, for
// channels that have received output.
func (c *controller) outputChannels(targets []backend.Controller) map[string]string {
	result := make(map[string]string)
	for _, ctrl := range targets {
		if path, ok := c.channels.Path(ctrl.Descriptor().Name); ok {
			result[ctrl.Descriptor().Name] = path
		}
	}
	return result
}
