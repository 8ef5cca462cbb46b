// Package mapper converts between wire, entity, and model representations.
package mapper

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/oxtools/oxhost/src/oxhost/entity"
	"github.com/oxtools/oxhost/src/oxhost/internal/errors"
	"github.com/oxtools/oxhost/src/oxhost/model"
	lspuri "go.lsp.dev/uri"
)

// BackendSessionToModel maps a BackendSession entity to its model equivalent.
func BackendSessionToModel(s *entity.BackendSession) *model.BackendSession {
	m := &model.BackendSession{
		Kind:                  string(s.Kind),
		State:                 int(s.State),
		Conn:                  s.Conn,
		Server:                s.Server,
		InitializationOptions: s.InitializationOptions,
		LastPushed:            s.LastPushed,
		DiagnosticURIs:        s.DiagnosticURIs,
	}
	if s.Spec != nil {
		m.Path = s.Spec.Path
		m.Runtime = s.Spec.Runtime
		m.Args = s.Spec.Args
		m.Env = s.Spec.Env
	}
	return m
}

// ModelToBackendSession maps a model BackendSession to its entity equivalent.
func ModelToBackendSession(m *model.BackendSession) (*entity.BackendSession, error) {
	s := &entity.BackendSession{
		Kind:                  entity.BackendKind(m.Kind),
		State:                 entity.SessionState(m.State),
		Conn:                  m.Conn,
		Server:                m.Server,
		InitializationOptions: m.InitializationOptions,
		LastPushed:            m.LastPushed,
		DiagnosticURIs:        m.DiagnosticURIs,
	}
	if m.Path != "" {
		s.Spec = &entity.LaunchSpec{
			Path:    m.Path,
			Runtime: m.Runtime,
			Args:    m.Args,
			Env:     m.Env,
		}
	}
	return s, nil
}

// KindToBackendSession initializes a new unstarted BackendSession entity for
// the given backend kind.
func KindToBackendSession(kind entity.BackendKind) *entity.BackendSession {
	return &entity.BackendSession{
		Kind:           kind,
		State:          entity.StateUnstarted,
		DiagnosticURIs: make(map[lspuri.URI]struct{}),
	}
}

// ContextToSessionUUID extracts the editor session UUID from a context.
func ContextToSessionUUID(c context.Context) (uuid.UUID, error) {
	s, ok := c.Value(entity.SessionContextKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, &errors.NoSessionFoundError{}
	}
	return s, nil
}
