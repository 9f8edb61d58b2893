package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := New(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Dir)
	assert.Equal(t, StorageFile, cfg.StorageFile)
	assert.Equal(t, filepath.Join(dir, StorageFile), cfg.StoragePath())
	assert.Equal(t, DefaultExitDelay, cfg.UI.ExitDelay)
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.Quiet)
}

func TestNew_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	yml := "storage_file: todos.json\nquiet: true\nui:\n  filter: incomplete\n  exit_delay: 0s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte(yml), 0600))

	cfg, err := New(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "todos.json"), cfg.StoragePath())
	assert.True(t, cfg.Quiet)
	assert.Equal(t, "incomplete", cfg.UI.Filter)
	assert.Equal(t, time.Duration(0), cfg.UI.ExitDelay)
}

func TestNew_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	yml := "ui:\n  filter: completed\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte(yml), 0600))

	t.Setenv("TASKLIST_UI_FILTER", "all")
	t.Setenv("TASKLIST_UI_EXIT_DELAY", "1s")
	t.Setenv("TASKLIST_DEBUG", "true")

	cfg, err := New(dir)
	require.NoError(t, err)

	assert.Equal(t, "all", cfg.UI.Filter)
	assert.Equal(t, time.Second, cfg.UI.ExitDelay)
	assert.True(t, cfg.Debug)
}

func TestNew_AbsoluteStorageFile(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(t.TempDir(), "elsewhere.json")
	t.Setenv("TASKLIST_STORAGE_FILE", abs)

	cfg, err := New(dir)
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.StoragePath())
}

func TestNew_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte("ui: [unclosed"), 0600))

	_, err := New(dir)
	assert.Error(t, err)
}

func TestNew_NegativeExitDelay(t *testing.T) {
	t.Setenv("TASKLIST_UI_EXIT_DELAY", "-1s")

	_, err := New(t.TempDir())
	assert.Error(t, err)
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", AppName), DefaultConfigDir())
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "ui.exit_delay", envKey("TASKLIST_UI_EXIT_DELAY"))
	assert.Equal(t, "storage_file", envKey("TASKLIST_STORAGE_FILE"))
	assert.Equal(t, "debug", envKey("TASKLIST_DEBUG"))
}
