package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()
	require.NotNil(t, settings)

	assert.Equal(t, 30, settings.PageLoadTimeout)
	assert.Equal(t, 10*time.Second, settings.ElementTimeout())
	assert.Equal(t, 30*time.Second, settings.PageTimeout())
	assert.Equal(t, RetryPolicy{MaxAttempts: 3, Delay: time.Second}, settings.ActionRetry.Policy())
	assert.Equal(t, 5*time.Second, settings.StockPoll.Policy().Delay)
	assert.Equal(t, 1920, settings.ViewportWidth)
	assert.Equal(t, 1080, settings.ViewportHeight)
	assert.False(t, settings.Headless)
	assert.True(t, settings.KeepBrowserOpen)
	assert.False(t, settings.DryRun)
	assert.NotEmpty(t, settings.UserAgent)
}

func TestSettingsSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "settings.yaml")

	settings := DefaultSettings()
	settings.BrowserProfilePath = filepath.Join(tempDir, "profiles")
	settings.Headless = true
	settings.DryRun = true
	settings.ActionRetry = PolicyConfig{MaxAttempts: 5, DelayMs: 250}
	settings.StockPoll = PolicyConfig{DelayMs: 60000}

	require.NoError(t, settings.Save(path))

	loaded, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, settings, loaded)
	assert.DirExists(t, settings.BrowserProfilePath)
}

func TestLoadSettingsCreatesDefaultIfMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new-settings.yaml")

	settings, err := LoadSettings(path)
	require.NoError(t, err)
	require.NotNil(t, settings)

	assert.FileExists(t, path)
	assert.Equal(t, DefaultSettings(), settings)
}

func TestLoadSettingsPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := `
browser_profile_path: ""
dry_run: true
stock_poll:
  delay_ms: 2000
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	settings, err := LoadSettings(path)
	require.NoError(t, err)

	assert.True(t, settings.DryRun)
	assert.Equal(t, 2*time.Second, settings.StockPoll.Policy().Delay)
	assert.Equal(t, 3, settings.ActionRetry.MaxAttempts)
	assert.Equal(t, 30, settings.PageLoadTimeout)
}

func TestLoadSettingsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("invalid: yaml: content: [unclosed"), 0644))

	_, err := LoadSettings(path)
	assert.Error(t, err)
}

func TestGetUserDataDir(t *testing.T) {
	dir := getUserDataDir()
	require.NotEmpty(t, dir)

	if dir == "./ps5buyer-data" {
		return
	}
	assert.Contains(t, dir, ".ps5buyer")
	assert.True(t, filepath.IsAbs(dir))
}
