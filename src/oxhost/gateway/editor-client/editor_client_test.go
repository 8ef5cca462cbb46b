package notifier

import (
	"context"
	"sync"
	"testing"

	"github.com/oxtools/oxhost/src/oxhost/entity"
	"github.com/oxtools/oxhost/src/oxhost/factory"
	"github.com/oxtools/oxhost/src/oxhost/mapper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeConn struct {
	mu       sync.Mutex
	notifies []string
	done     chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{done: make(chan struct{})}
}

func (f *fakeConn) Call(ctx context.Context, method string, params, result interface{}) (jsonrpc2.ID, error) {
	return jsonrpc2.NewNumberID(1), nil
}

func (f *fakeConn) Notify(ctx context.Context, method string, params interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifies = append(f.notifies, method)
	return nil
}

func (f *fakeConn) Go(ctx context.Context, handler jsonrpc2.Handler) {}
func (f *fakeConn) Close() error                                     { return nil }
func (f *fakeConn) Done() <-chan struct{}                            { return f.done }
func (f *fakeConn) Err() error                                       { return nil }

func registeredGateway(t *testing.T) (Gateway, *fakeConn, context.Context) {
	t.Helper()

	g := New(zap.NewNop())
	id := factory.UUID()

	var conn jsonrpc2.Conn = newFakeConn()
	require.NoError(t, g.RegisterClient(context.Background(), id, &conn))

	ctx := context.WithValue(context.Background(), entity.SessionContextKey, id)
	return g, conn.(*fakeConn), ctx
}

func TestLogMessage(t *testing.T) {
	g, conn, ctx := registeredGateway(t)

	err := g.LogMessage(ctx, &protocol.LogMessageParams{
		Type:    protocol.MessageTypeInfo,
		Message: "sample",
	})
	assert.NoError(t, err)
	assert.Contains(t, conn.notifies, protocol.MethodWindowLogMessage)
}

func TestShowMessage(t *testing.T) {
	g, conn, ctx := registeredGateway(t)

	err := g.ShowMessage(ctx, &protocol.ShowMessageParams{
		Type:    protocol.MessageTypeError,
		Message: "sample",
	})
	assert.NoError(t, err)
	assert.Contains(t, conn.notifies, protocol.MethodWindowShowMessage)
}

func TestPublishDiagnostics(t *testing.T) {
	g, conn, ctx := registeredGateway(t)

	err := g.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI: "file:///repo/src/app.ts",
	})
	assert.NoError(t, err)
	assert.Contains(t, conn.notifies, protocol.MethodTextDocumentPublishDiagnostics)
}

func TestStatus(t *testing.T) {
	g, conn, ctx := registeredGateway(t)

	err := g.Status(ctx, &entity.StatusParams{
		Backend: "oxlint",
		Enabled: true,
		Running: true,
	})
	assert.NoError(t, err)
	assert.Contains(t, conn.notifies, MethodStatus)
}

func TestMissingSessionContext(t *testing.T) {
	g, _, _ := registeredGateway(t)

	// Outbound traffic without a session identity has no destination.
	err := g.LogMessage(context.Background(), &protocol.LogMessageParams{Message: "sample"})
	assert.Error(t, err)
}

func TestUnknownSession(t *testing.T) {
	g, _, _ := registeredGateway(t)

	ctx := context.WithValue(context.Background(), entity.SessionContextKey, factory.UUID())
	err := g.ShowMessage(ctx, &protocol.ShowMessageParams{Message: "sample"})
	assert.Error(t, err)
}

func TestDeregisterClient(t *testing.T) {
	g, _, ctx := registeredGateway(t)

	id, err := mapper.ContextToSessionUUID(ctx)
	require.NoError(t, err)
	require.NoError(t, g.DeregisterClient(ctx, id))

	err = g.LogMessage(ctx, &protocol.LogMessageParams{Message: "sample"})
	assert.Error(t, err)
}
