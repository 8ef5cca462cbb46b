package binres

import (
	"path/filepath"
	"testing"

	"github.com/oxtools/oxhost/src/oxhost/entity"
	"github.com/oxtools/oxhost/src/oxhost/internal/errors"
	"github.com/oxtools/oxhost/src/oxhost/internal/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/config"
	"go.uber.org/zap"
)

func newResolver(t *testing.T, configured string) Resolver {
	t.Helper()

	provider, err := config.NewYAML(config.Static(map[string]interface{}{
		"oxlint": map[string]interface{}{
			"path": map[string]interface{}{
				"server": configured,
			},
		},
	}))
	require.NoError(t, err)

	return New(Params{
		Config: provider,
		FS:     fs.New(),
		Logger: zap.NewNop().Sugar(),
	})
}

func TestResolveConfiguredPath(t *testing.T) {
	hostFS := fs.New()
	binary := filepath.Join(t.TempDir(), "oxlint")
	require.NoError(t, hostFS.WriteFile(binary, "#!/bin/sh\n"))

	r := newResolver(t, binary)

	got, err := r.Resolve(entity.LinterDescriptor())
	assert.NoError(t, err)
	assert.Equal(t, binary, got)
}

func TestResolveConfiguredPathBeatsDevPath(t *testing.T) {
	hostFS := fs.New()
	binary := filepath.Join(t.TempDir(), "oxlint")
	require.NoError(t, hostFS.WriteFile(binary, "#!/bin/sh\n"))
	t.Setenv("OXLINT_PATH_DEV", "/dev/build/oxlint")

	r := newResolver(t, binary)

	got, err := r.Resolve(entity.LinterDescriptor())
	assert.NoError(t, err)
	assert.Equal(t, binary, got)
}

func TestResolveInaccessibleConfiguredPathFallsThrough(t *testing.T) {
	t.Setenv("OXLINT_PATH_DEV", "/dev/build/oxlint")

	r := newResolver(t, filepath.Join(t.TempDir(), "missing"))

	got, err := r.Resolve(entity.LinterDescriptor())
	assert.NoError(t, err)
	assert.Equal(t, "/dev/build/oxlint", got)
}

func TestResolveDevPath(t *testing.T) {
	t.Setenv("OXLINT_PATH_DEV", "/dev/build/oxlint")

	r := newResolver(t, "")

	got, err := r.Resolve(entity.LinterDescriptor())
	assert.NoError(t, err)
	assert.Equal(t, "/dev/build/oxlint", got)
}

func TestResolveNothingAvailable(t *testing.T) {
	t.Setenv("OXLINT_PATH_DEV", "")
	r := newResolver(t, "")

	_, err := r.Resolve(entity.LinterDescriptor())
	require.Error(t, err)

	var notFound *errors.BinaryNotFoundError
	assert.ErrorAs(t, err, &notFound)
}
