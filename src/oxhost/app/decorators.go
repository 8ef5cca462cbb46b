package app

import (
	"fmt"
	"os"
	"path"

	"github.com/oxtools/oxhost/src/oxhost/internal/core"
	"github.com/oxtools/oxhost/src/oxhost/internal/fs"
	"go.uber.org/config"
	"go.uber.org/fx"
)

// Context describes the runtime environment of the service.
type Context struct {
	Environment string `yaml:"environment"`
}

const (
	// EnvLocal indicates that the service is running locally.
	EnvLocal = "local"

	// EnvDevelopment indicates that the service is running in a development environment.
	EnvDevelopment = "development"

	// Environment variables
	_envOxhostEnvironment = "OXHOST_ENVIRONMENT"
)

func decorateEnvContext(env Context) Context {
	if os.Getenv(_envOxhostEnvironment) == EnvDevelopment {
		env.Environment = EnvDevelopment
	} else {
		env.Environment = EnvLocal
	}
	return env
}

// DecorateConfigParams is the set of dependencies required to decorate the config.Provider.
type DecorateConfigParams struct {
	fx.In

	Env Context
	Cfg config.Provider
	FS  fs.HostFS
}

// decorateConfigProvider includes any steps that modify the config.Provider before it is used, or use its data for any startup related activities.
func decorateConfigProvider(p DecorateConfigParams) (config.Provider, error) {
	combined, err := ensureLogFolder(p.Cfg, p.FS)
	if err != nil {
		return nil, fmt.Errorf("ensuring log folder: %v", err)
	}

	return combined, nil
}

// Ensure that all configured logging output directories exist or create if necessary.
func ensureLogFolder(cfg config.Provider, hostFS fs.HostFS) (config.Provider, error) {
	var c core.LoggingConfig
	if err := cfg.Get("logging").Populate(&c); err != nil {
		return nil, fmt.Errorf("loading logging config: %v", err)
	}

	for _, outputPath := range c.OutputPaths {
		dir := path.Dir(outputPath)
		if err := hostFS.MkdirAll(dir); err != nil {
			return nil, fmt.Errorf("creating logging directory: %v", err)
		}
	}

	return cfg, nil
}
