package mapper

import (
	"testing"

	"github.com/oxtools/oxhost/src/oxhost/factory"
	"github.com/stretchr/testify/assert"
	"go.lsp.dev/protocol"
)

func TestRequestToExecuteCommandParams(t *testing.T) {
	req := factory.JSONRPCRequest(protocol.MethodWorkspaceExecuteCommand, protocol.ExecuteCommandParams{
		Command: "oxhost.restartServer",
	})

	params, err := RequestToExecuteCommandParams(req)
	assert.NoError(t, err)
	assert.Equal(t, "oxhost.restartServer", params.Command)
}

func TestRequestToConfigurationParams(t *testing.T) {
	req := factory.JSONRPCRequest(protocol.MethodWorkspaceConfiguration, protocol.ConfigurationParams{
		Items: []protocol.ConfigurationItem{
			{Section: "oxlint", ScopeURI: "file:///repo"},
		},
	})

	params, err := RequestToConfigurationParams(req)
	assert.NoError(t, err)
	assert.Len(t, params.Items, 1)
	assert.Equal(t, "oxlint", params.Items[0].Section)
}

func TestRequestToInitializeParamsInvalid(t *testing.T) {
	req := factory.JSONRPCRequest(protocol.MethodInitialize, "not an object")

	_, err := RequestToInitializeParams(req)
	assert.Error(t, err)
}

func TestSettingsToConfigChange(t *testing.T) {
	tests := []struct {
		name     string
		settings interface{}
		want     []string
	}{
		{
			name:     "top level keys become sections",
			settings: map[string]interface{}{"oxlint": map[string]interface{}{}, "oxfmt": nil},
			want:     []string{"oxfmt", "oxlint"},
		},
		{
			name:     "non object payload yields unscoped change",
			settings: "everything changed",
			want:     nil,
		},
		{
			name:     "nil payload yields unscoped change",
			settings: nil,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SettingsToConfigChange(tt.settings)
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}
