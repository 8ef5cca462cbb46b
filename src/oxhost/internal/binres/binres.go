// Package binres resolves the executable path for a backend language server.
package binres

import (
	"fmt"
	"os"

	"github.com/oxtools/oxhost/src/oxhost/entity"
	"github.com/oxtools/oxhost/src/oxhost/internal/errors"
	"github.com/oxtools/oxhost/src/oxhost/internal/fs"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const _fmtConfigKeyServerPath = "%s.path.server"

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Resolver determines the executable path for a given backend. Resolution is
// performed fresh on every activation and restart; results are never cached
// across a stop/start boundary.
type Resolver interface {
	Resolve(desc entity.BackendDescriptor) (string, error)
}

// Params define values used by the resolver.
type Params struct {
	fx.In

	Config config.Provider
	FS     fs.HostFS
	Logger *zap.SugaredLogger
}

type resolver struct {
	config config.Provider
	fs     fs.HostFS
	logger *zap.SugaredLogger
}

// New creates a Resolver backed by the configuration provider and filesystem.
func New(p Params) Resolver {
	return &resolver{
		config: p.Config,
		fs:     p.FS,
		logger: p.Logger,
	}
}

// Resolve tries, in order: the user-configured binary path (verified for
// accessibility, falling through on failure rather than erroring), then the
// backend's development-mode environment variable. No retries occur within a
// single call.
func (r *resolver) Resolve(desc entity.BackendDescriptor) (string, error) {
	var configured string
	key := fmt.Sprintf(_fmtConfigKeyServerPath, desc.ConfigSection)
	if err := r.config.Get(key).Populate(&configured); err != nil {
		r.logger.Warnw("reading configured binary path", "backend", desc.Name, "error", err)
	}

	if configured != "" {
		ok, err := r.fs.FileExists(configured)
		if err == nil && ok {
			return configured, nil
		}
		r.logger.Warnw("configured binary path is not accessible, falling back",
			"backend", desc.Name, "path", configured, "error", err)
	}

	if dev := os.Getenv(desc.DevPathEnv); dev != "" {
		return dev, nil
	}

	return "", &errors.BinaryNotFoundError{Backend: desc.Name}
}
