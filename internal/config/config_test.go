package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/gitx/internal/model"
)

func storeInTempDir(t *testing.T) *Store {
	t.Helper()
	return NewStoreAt(filepath.Join(t.TempDir(), "config.json"))
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	s := storeInTempDir(t)

	cfg, err := s.Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseDir, cfg.Globals.BaseDir)
	assert.Equal(t, "github", cfg.Globals.DefaultProvider)
	assert.Equal(t, "code", cfg.Globals.Editor)
	assert.Empty(t, cfg.Workspaces)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := storeInTempDir(t)

	cfg := Default()
	cfg.Globals.Editor = "vim"
	cfg.Workspaces["acme/widgets"] = &model.Workspace{
		BaseDir:          "/tmp/ws/acme/widgets",
		Label:            "w",
		LastOpenedBranch: "main",
		Branches: map[string]model.BranchWorktree{
			"main": {Path: "/tmp/ws/acme/widgets/widgets--main", IsDefault: true},
		},
	}
	require.NoError(t, s.Save(cfg))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "vim", loaded.Globals.Editor)

	ws := loaded.Workspaces["acme/widgets"]
	require.NotNil(t, ws)
	assert.Equal(t, "w", ws.Label)
	assert.Equal(t, "main", ws.LastOpenedBranch)
	assert.True(t, ws.Branches["main"].IsDefault)
}

func TestLoadToleratesComments(t *testing.T) {
	// The config file is hand-editable; comments and trailing commas
	// must not break loading.
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
  // hand-written note
  "globals": {
    "baseDir": "/srv/workspaces",
    "defaultProvider": "github",
    "editor": "vim", // trailing comma next line
  },
  "workspaces": {},
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := NewStoreAt(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/workspaces", cfg.Globals.BaseDir)
	assert.Equal(t, "vim", cfg.Globals.Editor)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"globals": {"editor": "vim", "theme": "dark"}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := NewStoreAt(path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "theme")
}

func TestLoadFillsMissingGlobals(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"globals": {"editor": "vim"}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := NewStoreAt(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "vim", cfg.Globals.Editor)
	assert.Equal(t, DefaultBaseDir, cfg.Globals.BaseDir)
	assert.Equal(t, DefaultProvider, cfg.Globals.DefaultProvider)
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("globals.editor", "vim"))
	got, err := cfg.Get("globals.editor")
	require.NoError(t, err)
	assert.Equal(t, "vim", got)

	_, err = cfg.Get("globals.nope")
	assert.Error(t, err)
	assert.Error(t, cfg.Set("workspaces.acme/widgets", "x"))
}

func TestExpandedBaseDir(t *testing.T) {
	t.Setenv("GITX_TEST_BASE", "/srv/gitx-base")

	cfg := Default()
	cfg.Globals.BaseDir = "${GITX_TEST_BASE}/workspaces"
	got, err := cfg.ExpandedBaseDir()
	require.NoError(t, err)
	assert.Equal(t, "/srv/gitx-base/workspaces", got)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	cfg.Globals.BaseDir = "~/sources/workspaces"
	got, err = cfg.ExpandedBaseDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "sources", "workspaces"), got)
}

func TestLookupWorkspace(t *testing.T) {
	cfg := Default()
	cfg.Workspaces["acme/widgets"] = &model.Workspace{Label: "w"}
	cfg.Workspaces["acme/gadgets"] = &model.Workspace{}

	id, ws := cfg.LookupWorkspace("acme/widgets")
	require.NotNil(t, ws)
	assert.Equal(t, "acme/widgets", id)

	// Label resolves to the same record.
	id, byLabel := cfg.LookupWorkspace("w")
	require.NotNil(t, byLabel)
	assert.Equal(t, "acme/widgets", id)
	assert.Same(t, ws, byLabel)

	id, missing := cfg.LookupWorkspace("nobody/nothing")
	assert.Nil(t, missing)
	assert.Equal(t, "", id)
}

func TestPathHonorsEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)

	path, err := Path()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.json"), path)
}

func TestWorkspaceIDsSorted(t *testing.T) {
	cfg := Default()
	cfg.Workspaces["zeta/z"] = &model.Workspace{}
	cfg.Workspaces["acme/a"] = &model.Workspace{}
	cfg.Workspaces["mid/m"] = &model.Workspace{}

	assert.Equal(t, []string{"acme/a", "mid/m", "zeta/z"}, cfg.WorkspaceIDs())
}
