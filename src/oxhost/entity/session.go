package entity

import (
	"github.com/gofrs/uuid"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// SessionState is the lifecycle state of a backend session.
type SessionState int

const (
	// StateUnstarted is the initial state: the session object exists but the
	// subprocess has never been started.
	StateUnstarted SessionState = iota
	// StateRunning means the subprocess is live and initialized.
	StateRunning
	// StateStopped means the subprocess has been shut down.
	StateStopped
)

// String implements fmt.Stringer.
func (s SessionState) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// BackendSession is the client-side representation of one connection to a
// backend language server. At most one live session exists per backend kind.
type BackendSession struct {
	Kind  BackendKind  `json:"kind" zap:"kind"`
	State SessionState `json:"state" zap:"state"`

	// Spec is the launch invocation resolved for the current activation.
	// Nil until the binary has been resolved.
	Spec *LaunchSpec `json:"spec,omitempty" zap:"-"`

	// Conn and Server are live only while State is StateRunning.
	Conn   jsonrpc2.Conn   `json:"-" zap:"-"`
	Server protocol.Server `json:"-" zap:"-"`

	// InitializationOptions is the pending configuration blob used on the
	// next start. Refreshed unconditionally on every relevant config change
	// so a later restart launches with current settings.
	InitializationOptions interface{} `json:"-" zap:"-"`

	// LastPushed records the last configuration snapshot sent via the
	// configuration-change notification. Kept for observability only; the
	// push itself is unconditional on every relevant change.
	LastPushed interface{} `json:"-" zap:"-"`

	// DiagnosticURIs tracks files with published diagnostics so stale
	// entries can be cleared when files are deleted.
	DiagnosticURIs map[uri.URI]struct{} `json:"-" zap:"-"`
}

// Running reports whether the session is currently running. Callers must
// check this immediately before any protocol-level send.
func (s *BackendSession) Running() bool {
	return s != nil && s.State == StateRunning
}

// EditorSession represents the connected editor.
type EditorSession struct {
	UUID             uuid.UUID                  `json:"uuid" zap:"uuid"`
	InitializeParams *protocol.InitializeParams `json:"-" zap:"-"`
	Conn             *jsonrpc2.Conn             `json:"-" zap:"-"`
}
