// Package factory provides test data factories shared across packages.
package factory

import (
	"github.com/gofrs/uuid"
	"github.com/oxtools/oxhost/src/oxhost/entity"
	"go.lsp.dev/jsonrpc2"
	lspuri "go.lsp.dev/uri"
)

// UUID is a user-defined factory for a random uuid.UUID.
func UUID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

// JSONRPCRequest is a user-defined factory for a JSON-RPC request containing the specified method and parameters.
func JSONRPCRequest(method string, params interface{}) jsonrpc2.Request {
	req, _ := jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), method, params)
	return req
}

// BackendSessionRunning is a factory for a session in the running state.
func BackendSessionRunning(kind entity.BackendKind) *entity.BackendSession {
	return &entity.BackendSession{
		Kind:  kind,
		State: entity.StateRunning,
		Spec: &entity.LaunchSpec{
			Path: "/usr/local/bin/" + entity.Descriptor(kind).Name,
			Args: []string{"--lsp"},
		},
		DiagnosticURIs: make(map[lspuri.URI]struct{}),
	}
}
