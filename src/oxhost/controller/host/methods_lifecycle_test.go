package host

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
	"go.uber.org/mock/gomock"
)

func TestInitialize(t *testing.T) {
	e := newEnv(t, nil)

	result, err := e.c.Initialize(context.Background(), &protocol.InitializeParams{
		WorkspaceFolders: []protocol.WorkspaceFolder{{URI: "file:///repo", Name: "repo"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "oxhost", result.ServerInfo.Name)
	assert.ElementsMatch(t, []string{
		CommandRestartServer,
		CommandToggleEnable,
		CommandShowOutputChannel,
	}, result.Capabilities.ExecuteCommandProvider.Commands)
	assert.True(t, result.Capabilities.Workspace.WorkspaceFolders.Supported)

	folders := e.coordinator.Folders()
	require.Len(t, folders, 1)
	assert.Equal(t, "repo", folders[0].Name)
}

func TestInitialized(t *testing.T) {
	e := newEnv(t, nil)

	e.editor.EXPECT().WorkspaceFolders(gomock.Any()).Return(nil, nil)
	e.linter.EXPECT().Activate(gomock.Any()).Return(nil)
	e.formatter.EXPECT().Activate(gomock.Any()).Return(nil)

	assert.NoError(t, e.c.Initialized(context.Background(), &protocol.InitializedParams{}))
}

func TestInitializedQueriesFolders(t *testing.T) {
	e := newEnv(t, nil)

	// With no folders from initialize, the editor is asked for them.
	e.editor.EXPECT().WorkspaceFolders(gomock.Any()).Return([]protocol.WorkspaceFolder{
		{URI: "file:///repo", Name: "repo"},
	}, nil)
	e.linter.EXPECT().Activate(gomock.Any()).Return(nil)
	e.formatter.EXPECT().Activate(gomock.Any()).Return(nil)

	require.NoError(t, e.c.Initialized(context.Background(), &protocol.InitializedParams{}))

	folders := e.coordinator.Folders()
	require.Len(t, folders, 1)
	assert.Equal(t, "repo", folders[0].Name)
}

func TestInitializedSkipsQueryWhenFoldersKnown(t *testing.T) {
	e := newEnv(t, nil)
	e.coordinator.SetFolders([]protocol.WorkspaceFolder{{URI: "file:///repo", Name: "repo"}})

	e.linter.EXPECT().Activate(gomock.Any()).Return(nil)
	e.formatter.EXPECT().Activate(gomock.Any()).Return(nil)

	assert.NoError(t, e.c.Initialized(context.Background(), &protocol.InitializedParams{}))
}

func TestInitializedFolderQueryFailure(t *testing.T) {
	e := newEnv(t, nil)

	// A failed query is logged; activation proceeds regardless.
	e.editor.EXPECT().WorkspaceFolders(gomock.Any()).Return(nil, assert.AnError)
	e.linter.EXPECT().Activate(gomock.Any()).Return(nil)
	e.formatter.EXPECT().Activate(gomock.Any()).Return(nil)

	assert.NoError(t, e.c.Initialized(context.Background(), &protocol.InitializedParams{}))
}

func TestInitializedContinuesPastFailure(t *testing.T) {
	e := newEnv(t, nil)

	e.editor.EXPECT().WorkspaceFolders(gomock.Any()).Return(nil, nil)
	e.linter.EXPECT().Activate(gomock.Any()).Return(assert.AnError)
	e.formatter.EXPECT().Activate(gomock.Any()).Return(nil)

	// One backend failing to come up must not block the other.
	assert.NoError(t, e.c.Initialized(context.Background(), &protocol.InitializedParams{}))
}

func TestShutdown(t *testing.T) {
	e := newEnv(t, nil)

	e.linter.EXPECT().Deactivate(gomock.Any()).Return(nil)
	e.formatter.EXPECT().Deactivate(gomock.Any()).Return(assert.AnError)

	assert.NoError(t, e.c.Shutdown(context.Background()))
}

func TestExit(t *testing.T) {
	e := newEnv(t, nil)

	require.NoError(t, e.c.Exit(context.Background()))
	assert.Equal(t, 1, e.shutdowner.calls)
}
