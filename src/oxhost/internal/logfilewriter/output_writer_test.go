package logfilewriter

import (
	"os"
	"sync"
	"testing"

	"github.com/oxtools/oxhost/src/oxhost/internal/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap/zapcore"
)

type fakeInfoFile struct {
	mu     sync.Mutex
	fields map[string]string
}

func (f *fakeInfoFile) UpdateField(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fields == nil {
		f.fields = make(map[string]string)
	}
	f.fields[key] = value
	return nil
}

func (f *fakeInfoFile) Field(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.fields[key]
	return v, ok
}

func newChannels(t *testing.T) (Channels, *fakeInfoFile) {
	t.Helper()

	info := &fakeInfoFile{}
	c := New(Params{
		FS:           fs.New(),
		Lifecycle:    fxtest.NewLifecycle(t),
		HostInfoFile: info,
	})
	return c, info
}

func TestAppend(t *testing.T) {
	c, info := newChannels(t)

	require.NoError(t, c.Append("oxlint", zapcore.InfoLevel, "lint pass complete"))

	path, ok := c.Path("oxlint")
	require.True(t, ok)
	defer os.Remove(path)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "lint pass complete")

	// The path is published for the editor to tail.
	published, ok := info.Field("output:oxlint")
	assert.True(t, ok)
	assert.Equal(t, path, published)
}

func TestAppendSplitsLines(t *testing.T) {
	c, _ := newChannels(t)

	require.NoError(t, c.Append("oxlint", zapcore.WarnLevel, "first\n\nsecond\n"))

	path, ok := c.Path("oxlint")
	require.True(t, ok)
	defer os.Remove(path)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "first")
	assert.Contains(t, string(contents), "second")
}

func TestPathMissing(t *testing.T) {
	c, _ := newChannels(t)

	_, ok := c.Path("oxfmt")
	assert.False(t, ok)
}

func TestWriter(t *testing.T) {
	c, _ := newChannels(t)

	w := c.Writer("oxfmt")
	n, err := w.Write([]byte("formatted 3 files"))
	require.NoError(t, err)
	assert.Equal(t, len("formatted 3 files"), n)

	path, ok := c.Path("oxfmt")
	require.True(t, ok)
	defer os.Remove(path)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "formatted 3 files")
}

func TestLevelForMessageType(t *testing.T) {
	tests := []struct {
		msgType protocol.MessageType
		want    zapcore.Level
	}{
		{msgType: protocol.MessageTypeError, want: zapcore.ErrorLevel},
		{msgType: protocol.MessageTypeWarning, want: zapcore.WarnLevel},
		{msgType: protocol.MessageTypeInfo, want: zapcore.InfoLevel},
		{msgType: protocol.MessageTypeLog, want: zapcore.InfoLevel},
		{msgType: protocol.MessageType(5), want: zapcore.DebugLevel},
		{msgType: protocol.MessageType(42), want: zapcore.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForMessageType(tt.msgType))
	}
}
