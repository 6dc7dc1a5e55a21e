package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	def := DefaultAppConfig()
	assert.Equal(t, def.Display, cfg.Display)
	assert.Equal(t, def.Database.Path, cfg.Database.Path)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "database:\n  path: /tmp/lists.db\ndisplay:\n  theme: dark\n  date_format: 02 Jan\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("LISTLY_LOG_LEVEL", "debug")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/lists.db", cfg.Database.Path)
	assert.Equal(t, ThemeDark, cfg.Display.Theme)
	assert.Equal(t, "02 Jan", cfg.Display.DateFormat)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_InvalidTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("display:\n  theme: neon\n"), 0o644))

	_, err := LoadConfig(path)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultAppConfig()
	cfg.Database.Path = "/var/tmp/listly.db"
	cfg.Display.Theme = ThemeLight
	require.NoError(t, SaveConfig(path, cfg))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Database.Path, got.Database.Path)
	assert.Equal(t, ThemeLight, got.Display.Theme)
	assert.Equal(t, cfg.Display.DateFormat, got.Display.DateFormat)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "x.db"), expandHome("~/x.db"))
	assert.Equal(t, "/abs/x.db", expandHome("/abs/x.db"))
}
