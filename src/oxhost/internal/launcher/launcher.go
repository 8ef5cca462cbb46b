// Package launcher starts backend language-server subprocesses and binds a
// JSON-RPC connection to their stdio.
package launcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/oxtools/oxhost/src/oxhost/entity"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_configKeyLogVerbosity = "oxhost.server.logLevel"
	_configKeyRuntimePath  = "oxhost.path.runtime"

	_envLogVerbosity = "OXC_LOG"

	// Script binaries are launched through an intermediary runtime.
	_scriptRuntime = "node"
)

// Module is the Fx module for this package.
var Module = fx.Provide(NewFromConfig)

// Launcher builds launch specs and starts backend subprocesses.
type Launcher interface {
	// BuildSpec computes the full invocation for a resolved binary path. The
	// direct-vs-runtime decision is made here, once per resolution.
	BuildSpec(desc entity.BackendDescriptor, binaryPath string) entity.LaunchSpec

	// Launch starts the subprocess and returns a connection speaking JSON-RPC
	// over its stdio. The handler receives server-initiated requests and
	// notifications. Stderr is streamed to the given writer.
	Launch(ctx context.Context, spec entity.LaunchSpec, handler jsonrpc2.Handler, stderr io.Writer) (jsonrpc2.Conn, error)
}

type launcherImpl struct {
	logger       *zap.SugaredLogger
	logVerbosity string
	runtimePath  string

	// StartFunc may be overridden in tests to avoid spawning a real process.
	startFunc func(cmd *exec.Cmd) error
}

// Option defines options to customize the launcher's behavior.
type Option func(*launcherImpl)

// WithLogger overrides the default noop logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(l *launcherImpl) {
		l.logger = logger
	}
}

// WithLogVerbosity sets the log-verbosity value forwarded to children.
func WithLogVerbosity(verbosity string) Option {
	return func(l *launcherImpl) {
		l.logVerbosity = verbosity
	}
}

// WithRuntimePath sets a search path prepended to the child's PATH.
func WithRuntimePath(path string) Option {
	return func(l *launcherImpl) {
		l.runtimePath = path
	}
}

// WithStartFunc provides customized process start behavior.
func WithStartFunc(startFunc func(cmd *exec.Cmd) error) Option {
	return func(l *launcherImpl) {
		l.startFunc = startFunc
	}
}

// NewLauncher creates a new launcher with the given options.
func NewLauncher(opts ...Option) Launcher {
	l := &launcherImpl{
		logger:    zap.NewNop().Sugar(),
		startFunc: func(cmd *exec.Cmd) error { return cmd.Start() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Params define values used to build the launcher from configuration.
type Params struct {
	fx.In

	Config config.Provider
	Logger *zap.SugaredLogger
}

// NewFromConfig creates a launcher configured from the provider.
func NewFromConfig(p Params) Launcher {
	var verbosity, runtimePath string
	p.Config.Get(_configKeyLogVerbosity).Populate(&verbosity)
	p.Config.Get(_configKeyRuntimePath).Populate(&runtimePath)

	return NewLauncher(
		WithLogger(p.Logger),
		WithLogVerbosity(verbosity),
		WithRuntimePath(runtimePath),
	)
}

// BuildSpec computes executable, arguments, and environment. A .js/.mjs/.cjs
// path is not directly executable and is handed to the runtime launcher.
func (l *launcherImpl) BuildSpec(desc entity.BackendDescriptor, binaryPath string) entity.LaunchSpec {
	spec := entity.LaunchSpec{
		Path: binaryPath,
		Args: []string{desc.ProtocolFlag},
		Env:  l.childEnv(),
	}

	switch strings.ToLower(filepath.Ext(binaryPath)) {
	case ".js", ".mjs", ".cjs":
		spec.Runtime = _scriptRuntime
	}

	return spec
}

func (l *launcherImpl) childEnv() []string {
	env := os.Environ()
	if l.logVerbosity != "" {
		env = append(env, fmt.Sprintf("%s=%s", _envLogVerbosity, l.logVerbosity))
	}
	if l.runtimePath != "" {
		env = append(env, fmt.Sprintf("PATH=%s%c%s", l.runtimePath, os.PathListSeparator, os.Getenv("PATH")))
	}
	return env
}

// Launch starts the subprocess and wires its stdio into a jsonrpc2 connection.
func (l *launcherImpl) Launch(ctx context.Context, spec entity.LaunchSpec, handler jsonrpc2.Handler, stderr io.Writer) (jsonrpc2.Conn, error) {
	var cmd *exec.Cmd
	if spec.Runtime != "" {
		args := append([]string{spec.Path}, spec.Args...)
		cmd = exec.Command(spec.Runtime, args...)
	} else {
		cmd = exec.Command(spec.Path, spec.Args...)
	}
	cmd.Env = spec.Env
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("opening stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("opening stdout pipe: %w", err)
	}

	l.logger.Infow("launching backend",
		"path", cmd.Path,
		"args", cmd.Args[1:],
	)

	if err := l.startFunc(cmd); err != nil {
		return nil, fmt.Errorf("starting backend process: %w", err)
	}

	stream := jsonrpc2.NewStream(&procReadWriteCloser{
		cmd:   cmd,
		read:  stdout,
		write: stdin,
	})
	conn := jsonrpc2.NewConn(stream)
	conn.Go(ctx, handler)
	return conn, nil
}

// procReadWriteCloser adapts a subprocess's stdio into an io.ReadWriteCloser.
type procReadWriteCloser struct {
	cmd   *exec.Cmd
	read  io.ReadCloser
	write io.WriteCloser
}

func (p *procReadWriteCloser) Read(b []byte) (int, error) {
	return p.read.Read(b)
}

func (p *procReadWriteCloser) Write(b []byte) (int, error) {
	return p.write.Write(b)
}

// Close shuts the pipes and reaps the child. The protocol-level shutdown and
// exit requests are expected to have been sent already.
func (p *procReadWriteCloser) Close() error {
	p.write.Close()
	p.read.Close()
	if p.cmd.Process != nil {
		go p.cmd.Wait()
	}
	return nil
}
