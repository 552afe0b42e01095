package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "", cfg.API.BaseURL)
	assert.Equal(t, 1000, cfg.API.PageSize)
	assert.Equal(t, "all", cfg.API.Filter)
	assert.Equal(t, 3, cfg.Widget.PreviewSize)
	assert.Equal(t, 6, cfg.Widget.WordLimit)
	assert.Equal(t, 99, cfg.Widget.BadgeCap)
	assert.Equal(t, "/notifications", cfg.Widget.NotificationsRoute)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_FileOverridesAndNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api:
  base_url: https://admin.example.com
  page_size: 0
widget:
  preview_size: 5
  refresh_interval_sec: -10
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://admin.example.com", cfg.API.BaseURL)
	assert.Equal(t, 1000, cfg.API.PageSize)
	assert.Equal(t, 5, cfg.Widget.PreviewSize)
	assert.Equal(t, 0, cfg.Widget.RefreshIntervalSec)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("NOTIFYBELL_API_BASE_URL", "https://env.example.com")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.API.BaseURL)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [unterminated"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
