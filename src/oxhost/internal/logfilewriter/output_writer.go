package logfilewriter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/oxtools/oxhost/src/oxhost/internal/fs"
	"github.com/oxtools/oxhost/src/oxhost/internal/hostinfofile"
	"go.lsp.dev/protocol"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const _fmtOutputKey = "output:%s"

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Channels manages one human-readable output channel per backend. Each
// channel is a temporary log file whose path is published in the host info
// file so the editor can tail it.
type Channels interface {
	// Append writes one message to the named channel at the given severity,
	// creating the channel on first use.
	Append(name string, level zapcore.Level, message string) error
	// Path returns the log file path for the named channel, if it exists.
	Path(name string) (string, bool)

	// Writer returns an io.Writer appending to the named channel at info
	// level, for streaming subprocess output.
	Writer(name string) io.Writer
}

// Params define the dependencies for the output channels.
type Params struct {
	fx.In

	FS           fs.HostFS
	Lifecycle    fx.Lifecycle
	HostInfoFile hostinfofile.HostInfoFile
}

type channels struct {
	p Params

	mu      sync.Mutex
	loggers map[string]*zap.SugaredLogger
	paths   map[string]string
}

// New creates the per-backend output channel registry.
func New(p Params) Channels {
	c := &channels{
		p:       p,
		loggers: make(map[string]*zap.SugaredLogger),
		paths:   make(map[string]string),
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return c.closeAll()
		},
	})

	return c
}

func (c *channels) Append(name string, level zapcore.Level, message string) error {
	logger, err := c.logger(name)
	if err != nil {
		return err
	}

	// Incoming data may contain multiple lines, including blank ones.
	// Log each non-empty line individually.
	for _, line := range strings.Split(message, "\n") {
		if len(line) == 0 {
			continue
		}
		logger.Logw(level, line)
	}
	return nil
}

func (c *channels) Path(name string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	path, ok := c.paths[name]
	return path, ok
}

// logger returns the channel's logger, creating the backing file on first use.
func (c *channels) logger(name string) (*zap.SugaredLogger, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if logger, ok := c.loggers[name]; ok {
		return logger, nil
	}

	logsDirPath := filepath.Join(os.TempDir(), name)
	if err := c.p.FS.MkdirAll(logsDirPath); err != nil {
		return nil, err
	}

	logFile, err := c.p.FS.TempFile(logsDirPath, "")
	if err != nil {
		return nil, err
	}

	// The editor can tail the file by getting its path from the host info file.
	c.p.HostInfoFile.UpdateField(fmt.Sprintf(_fmtOutputKey, name), logFile.Name())

	// Write via a logger for formatting, timestamp, and buffering.
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(logFile),
		zap.DebugLevel,
	)
	logger := zap.New(core).Sugar()

	c.loggers[name] = logger
	c.paths[name] = logFile.Name()
	return logger, nil
}

func (c *channels) Writer(name string) io.Writer {
	return &channelWriter{channels: c, name: name}
}

// channelWriter implements io.Writer over one channel.
type channelWriter struct {
	channels *channels
	name     string
}

func (w *channelWriter) Write(p []byte) (n int, err error) {
	if err := w.channels.Append(w.name, zapcore.InfoLevel, string(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *channels) closeAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for name, logger := range c.loggers {
		logger.Sync()
		c.p.FS.Remove(c.paths[name])
	}
	c.loggers = make(map[string]*zap.SugaredLogger)
	c.paths = make(map[string]string)
	return nil
}

// LevelForMessageType maps an LSP message severity to a log level.
// Unrecognized severities are treated as informational.
func LevelForMessageType(t protocol.MessageType) zapcore.Level {
	switch t {
	case protocol.MessageTypeError:
		return zapcore.ErrorLevel
	case protocol.MessageTypeWarning:
		return zapcore.WarnLevel
	case protocol.MessageTypeInfo:
		return zapcore.InfoLevel
	case protocol.MessageTypeLog:
		return zapcore.InfoLevel
	case protocol.MessageType(5): // debug, added in LSP 3.18
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}
