// Package configsync keeps backend server configuration synchronized with
// live host settings, in both push and pull directions.
package configsync

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/oxtools/oxhost/src/oxhost/entity"
	notifier "github.com/oxtools/oxhost/src/oxhost/gateway/editor-client"
	"github.com/oxtools/oxhost/src/oxhost/internal/fs"
	tally "github.com/uber-go/tally/v4"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	// _folderOverrideFile is the per-workspace-folder settings overlay.
	_folderOverrideFile = ".oxhost.yaml"

	_configKeyEnableSuffix = "enable"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Coordinator resolves, merges, and distributes backend configuration.
type Coordinator interface {
	// Snapshot returns the current full configuration value for the
	// backend's section. Produced fresh on every call; never mutated.
	Snapshot(desc entity.BackendDescriptor) interface{}

	// Resolve answers a pull-style configuration request. The result has
	// exactly one entry per request item, in request order; items with a
	// foreign section or no scope resolve to nil.
	Resolve(ctx context.Context, desc entity.BackendDescriptor, params *protocol.ConfigurationParams) []interface{}

	// OnConfigChange applies one configuration-change event to a session.
	// The pending initialization options are refreshed unconditionally; if
	// the change is relevant, the status indicator is refreshed and, while
	// the session is running, the full snapshot is pushed. Reports whether
	// a push was sent.
	OnConfigChange(ctx context.Context, desc entity.BackendDescriptor, change entity.ConfigChange, s *entity.BackendSession) (bool, error)

	// Enabled reports the backend's effective enable flag: the configured
	// value unless a runtime toggle override is set.
	Enabled(desc entity.BackendDescriptor) bool

	// ToggleEnabled flips the runtime enable override and returns the new
	// effective value.
	ToggleEnabled(desc entity.BackendDescriptor) bool

	// RefreshStatus pushes the backend's current indicator state to the editor.
	RefreshStatus(ctx context.Context, desc entity.BackendDescriptor, s *entity.BackendSession)

	// Workspace folder tracking, used for per-scope resolution.
	SetFolders(folders []protocol.WorkspaceFolder)
	UpdateFolders(added, removed []protocol.WorkspaceFolder)
	Folders() []protocol.WorkspaceFolder
}

// Params are inbound parameters to construct the coordinator.
type Params struct {
	fx.In

	Config config.Provider
	FS     fs.HostFS
	Editor notifier.Gateway
	Logger *zap.SugaredLogger
	Stats  tally.Scope
}

type coordinator struct {
	config config.Provider
	fs     fs.HostFS
	editor notifier.Gateway
	logger *zap.SugaredLogger
	stats  tally.Scope

	mu              sync.Mutex
	folders         []protocol.WorkspaceFolder
	enabledOverride map[entity.BackendKind]bool
}

// New constructs the configuration-synchronization coordinator.
func New(p Params) Coordinator {
	return &coordinator{
		config:          p.Config,
		fs:              p.FS,
		editor:          p.Editor,
		logger:          p.Logger,
		stats:           p.Stats.SubScope("configsync"),
		enabledOverride: make(map[entity.BackendKind]bool),
	}
}

func (c *coordinator) Snapshot(desc entity.BackendDescriptor) interface{} {
	var snapshot map[string]interface{}
	if err := c.config.Get(desc.ConfigSection).Populate(&snapshot); err != nil {
		c.logger.Warnw("populating configuration snapshot", "backend", desc.Name, "error", err)
		return map[string]interface{}{}
	}
	if snapshot == nil {
		snapshot = map[string]interface{}{}
	}
	return snapshot
}

func (c *coordinator) Resolve(ctx context.Context, desc entity.BackendDescriptor, params *protocol.ConfigurationParams) []interface{} {
	results := make([]interface{}, len(params.Items))
	for i, item := range params.Items {
		if item.Section != desc.ConfigSection {
			continue
		}
		if item.ScopeURI == "" {
			// Scope is required to resolve per-folder overrides.
			continue
		}
		results[i] = c.scopedSection(desc, uri.URI(item.ScopeURI))
	}
	return results
}

func (c *coordinator) OnConfigChange(ctx context.Context, desc entity.BackendDescriptor, change entity.ConfigChange, s *entity.BackendSession) (bool, error) {
	// Refresh the pending initialization options first, so a later restart
	// always launches with current settings even when no live push occurs.
	s.InitializationOptions = c.Snapshot(desc)

	if !change.Relevant(desc.ConfigSection) {
		return false, nil
	}

	c.RefreshStatus(ctx, desc, s)

	if !s.Running() {
		// The fresh snapshot will be picked up naturally on next start.
		return false, nil
	}

	snapshot := c.Snapshot(desc)
	if err := s.Server.DidChangeConfiguration(ctx, &protocol.DidChangeConfigurationParams{
		Settings: map[string]interface{}{desc.ConfigSection: snapshot},
	}); err != nil {
		return false, fmt.Errorf("pushing configuration to %s: %w", desc.Name, err)
	}
	s.LastPushed = snapshot
	c.stats.Counter("config_pushes").Inc(1)
	return true, nil
}

func (c *coordinator) Enabled(desc entity.BackendDescriptor) bool {
	c.mu.Lock()
	override, ok := c.enabledOverride[desc.Kind]
	c.mu.Unlock()
	if ok {
		return override
	}
	return c.configuredEnabled(desc)
}

func (c *coordinator) ToggleEnabled(desc entity.BackendDescriptor) bool {
	current := c.Enabled(desc)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabledOverride[desc.Kind] = !current
	return !current
}

func (c *coordinator) RefreshStatus(ctx context.Context, desc entity.BackendDescriptor, s *entity.BackendSession) {
	// Presentation only; failures are logged and never block the caller.
	if err := c.editor.Status(ctx, &entity.StatusParams{
		Backend: desc.Name,
		Enabled: c.Enabled(desc),
		Running: s.Running(),
	}); err != nil {
		c.logger.Debugw("refreshing status indicator", "backend", desc.Name, "error", err)
	}
}

func (c *coordinator) SetFolders(folders []protocol.WorkspaceFolder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.folders = append([]protocol.WorkspaceFolder(nil), folders...)
}

func (c *coordinator) UpdateFolders(added, removed []protocol.WorkspaceFolder) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, rm := range removed {
		for i, f := range c.folders {
			if f.URI == rm.URI {
				c.folders = append(c.folders[:i], c.folders[i+1:]...)
				break
			}
		}
	}
	c.folders = append(c.folders, added...)
}

func (c *coordinator) Folders() []protocol.WorkspaceFolder {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]protocol.WorkspaceFolder(nil), c.folders...)
}

func (c *coordinator) configuredEnabled(desc entity.BackendDescriptor) bool {
	enabled := true
	key := fmt.Sprintf("%s.%s", desc.ConfigSection, _configKeyEnableSuffix)
	if err := c.config.Get(key).Populate(&enabled); err != nil {
		c.logger.Warnw("reading enable flag", "backend", desc.Name, "error", err)
		return true
	}
	return enabled
}

// scopedSection returns the backend's section configuration for the folder
// owning the given scope, overlaying the folder's settings file onto the
// global view.
func (c *coordinator) scopedSection(desc entity.BackendDescriptor, scope uri.URI) interface{} {
	global, _ := c.Snapshot(desc).(map[string]interface{})

	folder, ok := c.ownerFolder(scope)
	if !ok {
		return global
	}

	overridePath := fmt.Sprintf("%s/%s", uri.URI(folder.URI).Filename(), _folderOverrideFile)
	data, err := c.fs.ReadFile(overridePath)
	if err != nil {
		return global
	}

	merged, err := mergeSection(desc.ConfigSection, global, data)
	if err != nil {
		c.logger.Warnw("merging folder override", "backend", desc.Name, "folder", folder.Name, "error", err)
		return global
	}
	return merged
}

// ownerFolder resolves a scope URI to its owning workspace folder by longest
// path-prefix match.
func (c *coordinator) ownerFolder(scope uri.URI) (protocol.WorkspaceFolder, bool) {
	scopePath := scope.Filename()

	c.mu.Lock()
	defer c.mu.Unlock()

	var best protocol.WorkspaceFolder
	bestLen := -1
	for _, f := range c.folders {
		folderPath := uri.URI(f.URI).Filename()
		if scopePath == folderPath || strings.HasPrefix(scopePath, folderPath+"/") {
			if len(folderPath) > bestLen {
				best = f
				bestLen = len(folderPath)
			}
		}
	}
	return best, bestLen >= 0
}

// mergeSection overlays the folder file's section onto the global section
// values, later sources winning per key.
func mergeSection(section string, global map[string]interface{}, overlay []byte) (map[string]interface{}, error) {
	provider, err := config.NewYAML(
		config.Static(map[string]interface{}{section: global}),
		config.Source(bytes.NewReader(overlay)),
	)
	if err != nil {
		return nil, err
	}

	var merged map[string]interface{}
	if err := provider.Get(section).Populate(&merged); err != nil {
		return nil, err
	}
	return merged, nil
}
