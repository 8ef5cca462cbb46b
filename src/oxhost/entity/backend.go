// Package entity contains the domain types for the oxhost service.
package entity

import (
	"os"
	"path/filepath"
	"strings"
)

type keyType string

// SessionContextKey indicates the key used to identify the editor session UUID in the context.
const SessionContextKey keyType = "SessionUUID"

// BackendKind identifies one of the two supervised language-server backends.
type BackendKind string

const (
	// BackendLinter is the oxlint language server.
	BackendLinter BackendKind = "linter"
	// BackendFormatter is the oxfmt language server.
	BackendFormatter BackendKind = "formatter"
)

// Kinds returns both backend kinds in fan-out order.
func Kinds() []BackendKind {
	return []BackendKind{BackendLinter, BackendFormatter}
}

// BackendDescriptor carries the per-backend values that parameterize the
// otherwise identical lifecycle orchestration for each backend.
type BackendDescriptor struct {
	Kind BackendKind

	// Name is the backend binary and display name, e.g. "oxlint".
	Name string

	// ConfigSection is the configuration section recognized by this backend.
	ConfigSection string

	// DevPathEnv names the environment variable holding a development-mode
	// binary path, consulted when no path is configured.
	DevPathEnv string

	// DisableEnv names the kill-switch environment variable. When set, the
	// backend is never activated.
	DisableEnv string

	// ProtocolFlag is passed to the binary to select protocol mode.
	ProtocolFlag string

	// SelectorExtensions lists the file extensions this backend's session
	// receives document events for.
	SelectorExtensions []string
}

// Disabled reports whether the backend's kill-switch environment variable is set.
func (d BackendDescriptor) Disabled() bool {
	return os.Getenv(d.DisableEnv) != ""
}

// Matches reports whether the given file path falls within the backend's
// document selector.
func (d BackendDescriptor) Matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range d.SelectorExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

var _sourceExtensions = []string{
	".js", ".mjs", ".cjs", ".jsx",
	".ts", ".mts", ".cts", ".tsx",
	".vue", ".astro", ".svelte",
}

// LinterDescriptor returns the descriptor for the oxlint backend.
func LinterDescriptor() BackendDescriptor {
	return BackendDescriptor{
		Kind:               BackendLinter,
		Name:               "oxlint",
		ConfigSection:      "oxlint",
		DevPathEnv:         "OXLINT_PATH_DEV",
		DisableEnv:         "OXHOST_DISABLE_OXLINT",
		ProtocolFlag:       "--lsp",
		SelectorExtensions: _sourceExtensions,
	}
}

// FormatterDescriptor returns the descriptor for the oxfmt backend.
func FormatterDescriptor() BackendDescriptor {
	return BackendDescriptor{
		Kind:               BackendFormatter,
		Name:               "oxfmt",
		ConfigSection:      "oxfmt",
		DevPathEnv:         "OXFMT_PATH_DEV",
		DisableEnv:         "OXHOST_DISABLE_OXFMT",
		ProtocolFlag:       "--lsp",
		SelectorExtensions: _sourceExtensions,
	}
}

// Descriptor returns the descriptor for the given kind.
func Descriptor(kind BackendKind) BackendDescriptor {
	if kind == BackendFormatter {
		return FormatterDescriptor()
	}
	return LinterDescriptor()
}

// LaunchSpec is the resolved invocation for one backend activation. It is
// recomputed on every activation and restart, never reused across a
// stop/start boundary.
type LaunchSpec struct {
	// Path is the resolved executable or script path.
	Path string

	// Runtime is the intermediary runtime launcher when Path is a script
	// rather than a directly executable binary. Empty for direct execution.
	Runtime string

	// Args always includes the protocol-mode flag.
	Args []string

	// Env is the full child environment: ambient process environment plus
	// any log-verbosity variable and search-path prepend.
	Env []string
}

// ConfigChange describes one configuration-change event as seen by the
// coordinators.
type ConfigChange struct {
	// Sections lists the top-level settings sections reported as changed.
	// An empty list means the event carried no section scoping and is
	// treated as relevant to every backend.
	Sections []string

	// WorkspaceFoldersChanged marks workspace-folder membership changes,
	// which are always relevant because they affect per-scope resolution.
	WorkspaceFoldersChanged bool
}

// Relevant reports whether the change intersects the given configuration
// section or affects per-folder resolution.
func (c ConfigChange) Relevant(section string) bool {
	if c.WorkspaceFoldersChanged {
		return true
	}
	if len(c.Sections) == 0 {
		return true
	}
	for _, s := range c.Sections {
		if s == section {
			return true
		}
	}
	return false
}
