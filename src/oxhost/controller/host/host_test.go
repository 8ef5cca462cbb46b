package host

import (
	"context"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/oxtools/oxhost/src/oxhost/controller/backend"
	"github.com/oxtools/oxhost/src/oxhost/controller/backend/backendmock"
	"github.com/oxtools/oxhost/src/oxhost/controller/configsync"
	"github.com/oxtools/oxhost/src/oxhost/entity"
	"github.com/oxtools/oxhost/src/oxhost/gateway/editor-client/editorclientmock"
	"github.com/oxtools/oxhost/src/oxhost/internal/fs"
	"github.com/oxtools/oxhost/src/oxhost/internal/logfilewriter/logfilewritermock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeShutdowner struct {
	calls int
}

func (f *fakeShutdowner) Shutdown(opts ...fx.ShutdownOption) error {
	f.calls++
	return nil
}

type env struct {
	linter      *backendmock.MockController
	formatter   *backendmock.MockController
	editor      *editorclientmock.MockGateway
	channels    *logfilewritermock.MockChannels
	coordinator configsync.Coordinator
	shutdowner  *fakeShutdowner
	c           Controller
}

func newEnv(t *testing.T, settings map[string]interface{}) *env {
	t.Helper()

	if settings == nil {
		settings = map[string]interface{}{}
	}
	settings["idleTimeoutMinutes"] = 90
	provider, err := config.NewYAML(config.Static(settings))
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	e := &env{
		linter:     backendmock.NewMockController(ctrl),
		formatter:  backendmock.NewMockController(ctrl),
		editor:     editorclientmock.NewMockGateway(ctrl),
		channels:   logfilewritermock.NewMockChannels(ctrl),
		shutdowner: &fakeShutdowner{},
	}

	e.linter.EXPECT().Descriptor().Return(entity.LinterDescriptor()).AnyTimes()
	e.formatter.EXPECT().Descriptor().Return(entity.FormatterDescriptor()).AnyTimes()

	e.coordinator = configsync.New(configsync.Params{
		Config: provider,
		FS:     fs.New(),
		Editor: e.editor,
		Logger: zap.NewNop().Sugar(),
		Stats:  tally.NewTestScope("", nil),
	})

	e.c, err = New(Params{
		Shutdowner:  e.shutdowner,
		Backends:    backend.Set{Linter: e.linter, Formatter: e.formatter},
		Coordinator: e.coordinator,
		Editor:      e.editor,
		Channels:    e.channels,
		Logger:      zap.NewNop().Sugar(),
		Config:      provider,
	})
	require.NoError(t, err)
	return e
}

func TestNewMissingIdleTimeout(t *testing.T) {
	provider, err := config.NewYAML(config.Static(map[string]interface{}{}))
	require.NoError(t, err)

	_, err = New(Params{
		Logger: zap.NewNop().Sugar(),
		Config: provider,
	})
	assert.ErrorContains(t, err, "idle timeout")
}

func TestInitEndSession(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()

	e.editor.EXPECT().RegisterClient(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	id, err := e.c.InitSession(ctx, nil)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	e.linter.EXPECT().Deactivate(gomock.Any()).Return(nil)
	e.formatter.EXPECT().Deactivate(gomock.Any()).Return(nil)
	e.editor.EXPECT().DeregisterClient(gomock.Any(), id).Return(nil)

	assert.NoError(t, e.c.EndSession(ctx, id))
}

func TestInitSessionRegisterFailure(t *testing.T) {
	e := newEnv(t, nil)

	e.editor.EXPECT().RegisterClient(gomock.Any(), gomock.Any(), gomock.Any()).Return(assert.AnError)

	id, err := e.c.InitSession(context.Background(), nil)
	assert.Error(t, err)
	assert.Equal(t, uuid.Nil, id)
}

func TestEndSessionDeactivatesDespiteFailure(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()

	// A backend that fails to deactivate must not stop the rest of the
	// session teardown.
	e.linter.EXPECT().Deactivate(gomock.Any()).Return(assert.AnError)
	e.formatter.EXPECT().Deactivate(gomock.Any()).Return(nil)
	e.editor.EXPECT().DeregisterClient(gomock.Any(), gomock.Any()).Return(nil)

	assert.NoError(t, e.c.EndSession(ctx, uuid.Must(uuid.NewV4())))
}
