package model

import (
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// BackendSession is the repository layer model for one backend session.
type BackendSession struct {
	Kind                  string
	State                 int
	Path                  string
	Runtime               string
	Args                  []string
	Env                   []string
	Conn                  jsonrpc2.Conn
	Server                protocol.Server
	InitializationOptions interface{}
	LastPushed            interface{}
	DiagnosticURIs        map[uri.URI]struct{}
}
