package host

import (
	"context"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/oxtools/oxhost/src/oxhost/controller/host/hostmock"
	"github.com/oxtools/oxhost/src/oxhost/entity"
	"github.com/oxtools/oxhost/src/oxhost/factory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally/v4"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/mock/gomock"
)

type replyCapture struct {
	called bool
	result interface{}
	err    error
}

func (r *replyCapture) replier() jsonrpc2.Replier {
	return func(ctx context.Context, result interface{}, err error) error {
		r.called = true
		r.result = result
		r.err = err
		return nil
	}
}

func newRouter(t *testing.T) (*jsonRPCRouter, *hostmock.MockController) {
	t.Helper()

	ctrl := gomock.NewController(t)
	host := hostmock.NewMockController(ctrl)
	return &jsonRPCRouter{
		host:  host,
		uuid:  factory.UUID(),
		stats: tally.NewTestScope("", nil),
	}, host
}

func TestHandleReqInitialize(t *testing.T) {
	r, host := newRouter(t)

	want := &protocol.InitializeResult{ServerInfo: &protocol.ServerInfo{Name: "oxhost"}}
	host.EXPECT().Initialize(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
			assert.Equal(t, r.uuid, ctx.Value(entity.SessionContextKey))
			return want, nil
		})

	req := factory.JSONRPCRequest(protocol.MethodInitialize, &protocol.InitializeParams{})
	var reply replyCapture
	require.NoError(t, r.HandleReq(context.Background(), reply.replier(), req))
	assert.NoError(t, reply.err)
	assert.Equal(t, want, reply.result)
}

func TestHandleReqInitialized(t *testing.T) {
	r, host := newRouter(t)
	host.EXPECT().Initialized(gomock.Any(), gomock.Any()).Return(nil)

	req := factory.JSONRPCRequest(protocol.MethodInitialized, &protocol.InitializedParams{})
	var reply replyCapture
	require.NoError(t, r.HandleReq(context.Background(), reply.replier(), req))
	assert.NoError(t, reply.err)
}

func TestHandleReqShutdown(t *testing.T) {
	r, host := newRouter(t)
	host.EXPECT().Shutdown(gomock.Any()).Return(nil)

	req := factory.JSONRPCRequest(protocol.MethodShutdown, nil)
	var reply replyCapture
	require.NoError(t, r.HandleReq(context.Background(), reply.replier(), req))
	assert.NoError(t, reply.err)
}

func TestHandleReqExit(t *testing.T) {
	r, host := newRouter(t)

	var replied bool
	host.EXPECT().Exit(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		// The reply must already be on the wire when shutdown begins.
		assert.True(t, replied)
		return nil
	})

	reply := func(ctx context.Context, result interface{}, err error) error {
		replied = true
		return nil
	}
	req := factory.JSONRPCRequest(protocol.MethodExit, nil)
	require.NoError(t, r.HandleReq(context.Background(), reply, req))
}

func TestHandleReqDidChangeConfiguration(t *testing.T) {
	r, host := newRouter(t)
	host.EXPECT().DidChangeConfiguration(gomock.Any(), gomock.Any()).Return(nil)

	req := factory.JSONRPCRequest(protocol.MethodWorkspaceDidChangeConfiguration, &protocol.DidChangeConfigurationParams{
		Settings: map[string]interface{}{"oxlint": map[string]interface{}{}},
	})
	var reply replyCapture
	require.NoError(t, r.HandleReq(context.Background(), reply.replier(), req))
	assert.NoError(t, reply.err)
}

func TestHandleReqDidChangeWatchedFiles(t *testing.T) {
	r, host := newRouter(t)
	host.EXPECT().DidChangeWatchedFiles(gomock.Any(), gomock.Any()).Return(nil)

	req := factory.JSONRPCRequest(protocol.MethodWorkspaceDidChangeWatchedFiles, &protocol.DidChangeWatchedFilesParams{
		Changes: []*protocol.FileEvent{
			{URI: "file:///repo/src/app.ts", Type: protocol.FileChangeTypeDeleted},
		},
	})
	var reply replyCapture
	require.NoError(t, r.HandleReq(context.Background(), reply.replier(), req))
	assert.NoError(t, reply.err)
}

func TestHandleReqExecuteCommand(t *testing.T) {
	r, host := newRouter(t)

	want := map[string]string{"oxlint": "/logs/oxlint.log"}
	host.EXPECT().ExecuteCommand(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, params *protocol.ExecuteCommandParams) (interface{}, error) {
			assert.Equal(t, "oxhost.showOutputChannel", params.Command)
			return want, nil
		})

	req := factory.JSONRPCRequest(protocol.MethodWorkspaceExecuteCommand, &protocol.ExecuteCommandParams{
		Command: "oxhost.showOutputChannel",
	})
	var reply replyCapture
	require.NoError(t, r.HandleReq(context.Background(), reply.replier(), req))
	assert.NoError(t, reply.err)
	assert.Equal(t, want, reply.result)
}

func TestHandleReqUnknownMethod(t *testing.T) {
	r, _ := newRouter(t)

	req := factory.JSONRPCRequest("textDocument/hover", nil)
	var reply replyCapture
	require.NoError(t, r.HandleReq(context.Background(), reply.replier(), req))
	assert.ErrorIs(t, reply.err, jsonrpc2.ErrMethodNotFound)
}

func TestUUID(t *testing.T) {
	r, _ := newRouter(t)
	assert.NotEqual(t, uuid.Nil, r.UUID())
	assert.Equal(t, r.uuid, r.UUID())
}
