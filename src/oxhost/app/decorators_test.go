package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oxtools/oxhost/src/oxhost/internal/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func TestEnv(t *testing.T) {
	tests := []struct {
		name      string
		setEnvVal string
		expectVal string
	}{
		{
			name:      "local",
			expectVal: EnvLocal,
		},
		{
			name:      "development",
			setEnvVal: "development",
			expectVal: EnvDevelopment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnvVal != "" {
				t.Setenv(_envOxhostEnvironment, tt.setEnvVal)
			}

			fxtest.New(
				t,
				fx.Provide(func() Context {
					return Context{
						Environment: EnvLocal,
					}
				}),
				fx.Decorate(decorateEnvContext),
				fx.Invoke(func(ctx Context) {
					require.Equal(t, tt.expectVal, ctx.Environment, "unexpected environment")
				}),
			).RequireStart().RequireStop()
		})
	}
}

func TestDecorateConfigProvider(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")

	fxtest.New(
		t,
		fx.Provide(fs.New),
		fx.Provide(func() (config.Provider, error) {
			return config.NewYAML(config.Static(map[string]interface{}{
				"logging": map[string]interface{}{
					"outputPaths": []string{
						filepath.Join(logDir, "oxhost.log"),
					},
				},
			}))
		}),
		fx.Provide(func() Context {
			return Context{Environment: EnvDevelopment}
		}),
		fx.Decorate(decorateConfigProvider),
		fx.Invoke(func(cfg config.Provider) {}),
	).RequireStart().RequireStop()

	info, err := os.Stat(logDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
