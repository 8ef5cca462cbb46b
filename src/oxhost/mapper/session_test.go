package mapper

import (
	"context"
	"testing"

	"github.com/oxtools/oxhost/src/oxhost/entity"
	"github.com/oxtools/oxhost/src/oxhost/factory"
	"github.com/stretchr/testify/assert"
)

func TestBackendSessionRoundTrip(t *testing.T) {
	s := factory.BackendSessionRunning(entity.BackendLinter)
	s.InitializationOptions = map[string]interface{}{"run": "onSave"}

	m := BackendSessionToModel(s)
	got, err := ModelToBackendSession(m)
	assert.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestBackendSessionToModelNilSpec(t *testing.T) {
	s := KindToBackendSession(entity.BackendFormatter)

	m := BackendSessionToModel(s)
	assert.Empty(t, m.Path)

	got, err := ModelToBackendSession(m)
	assert.NoError(t, err)
	assert.Nil(t, got.Spec)
}

func TestKindToBackendSession(t *testing.T) {
	s := KindToBackendSession(entity.BackendLinter)
	assert.Equal(t, entity.BackendLinter, s.Kind)
	assert.Equal(t, entity.StateUnstarted, s.State)
	assert.NotNil(t, s.DiagnosticURIs)
}

func TestContextToSessionUUID(t *testing.T) {
	id := factory.UUID()
	ctx := context.WithValue(context.Background(), entity.SessionContextKey, id)

	got, err := ContextToSessionUUID(ctx)
	assert.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ContextToSessionUUID(context.Background())
	assert.Error(t, err)
}
