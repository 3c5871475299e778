package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/kweeb/internal/config"
	"codeberg.org/mutker/kweeb/internal/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps the real user configuration out of the search path.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("KWEEB_CONFIG", "")
	return dir
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "kweeb.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	tempDir := isolate(t)

	configPath := writeConfig(t, tempDir, `
sample_interval = "50ms"
flush_interval = "10s"
lock_timeout = "500ms"
scroll_threshold = 20
default_ppi = 110.0
log_level = "debug"
database = "/path/to/kweeb.db"

[remote]
enabled = true
url = "https://example.supabase.co"
api_key = "anon"

[ui]
socket = "/tmp/test.sock"

[monitors.display-1]
ppi = 218.0
`)

	// Set environment variable to point to the test config file
	t.Setenv("KWEEB_CONFIG", configPath)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 50*time.Millisecond, cfg.SampleInterval)
	assert.Equal(t, 10*time.Second, cfg.FlushInterval)
	assert.Equal(t, 500*time.Millisecond, cfg.LockTimeout)
	assert.Equal(t, 20, cfg.ScrollThreshold)
	assert.InDelta(t, 110.0, cfg.DefaultPPI, 1e-9)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/path/to/kweeb.db", cfg.Database)
	assert.True(t, cfg.Remote.Enabled)
	assert.Equal(t, "metrics", cfg.Remote.Table)
	assert.Equal(t, "/tmp/test.sock", cfg.UI.Socket)
	assert.True(t, cfg.UI.Enabled)
	assert.Equal(t, configPath, cfg.File)

	density := cfg.Density()
	assert.InDelta(t, 218.0, density.Overrides["display-1"], 1e-9)
	assert.InDelta(t, 110.0, density.DefaultPPI, 1e-9)
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := config.Load()
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, 100*time.Millisecond, cfg.SampleInterval)
	assert.Equal(t, 5*time.Second, cfg.FlushInterval)
	assert.Equal(t, 30*time.Second, cfg.RefreshInterval)
	assert.Equal(t, time.Second, cfg.LockTimeout)
	assert.Equal(t, 2*time.Second, cfg.StoreTimeout)
	assert.Equal(t, 5*time.Second, cfg.SyncTimeout)
	assert.Equal(t, 15, cfg.ScrollThreshold)
	assert.InDelta(t, 96.0, cfg.DefaultPPI, 1e-9)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, filepath.Join(dir, "data", "kweeb", "kweeb.db"), cfg.Database)
	assert.Equal(t, filepath.Join(dir, "data", "kweeb", "device_id"), cfg.DeviceIDFile)
	assert.False(t, cfg.Remote.Enabled)
	assert.True(t, cfg.UI.Enabled)
	assert.Equal(t, time.Second, cfg.UI.MinInterval)
	assert.Empty(t, cfg.File)

	assert.NoError(t, cfg.Pipeline().Validate())
}

func TestLoadSearchesUserConfigDir(t *testing.T) {
	isolate(t)
	userDir, err := os.UserConfigDir()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(userDir, "kweeb"), 0o755))
	writeConfig(t, filepath.Join(userDir, "kweeb"), `scroll_threshold = 3`)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.ScrollThreshold)
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	tempDir := isolate(t)
	configPath := writeConfig(t, tempDir, `
This is not a valid TOML file
`)
	t.Setenv("KWEEB_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
	assert.Contains(t, err.Error(), "Failed to read config")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := config.Load(config.WithConfigFile(filepath.Join(t.TempDir(), "absent.toml")))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
}

func TestInvalidLogLevel(t *testing.T) {
	tempDir := isolate(t)
	t.Setenv("KWEEB_CONFIG", writeConfig(t, tempDir, `log_level = "invalid"`))

	_, err := config.Load()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidLogLevel))
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.ErrorCode
	}{
		{name: "lock timeout not below flush", content: "flush_interval = \"1s\"\nlock_timeout = \"1s\"", code: errors.ErrInvalidInterval},
		{name: "zero sample interval", content: `sample_interval = "0s"`, code: errors.ErrInvalidInterval},
		{name: "non-positive ppi", content: `default_ppi = 0.0`, code: errors.ErrInvalidConfig},
		{name: "remote without key", content: "[remote]\nenabled = true\nurl = \"https://x.example\"", code: errors.ErrInvalidConfig},
		{name: "bad monitor ppi", content: "[monitors.left]\nppi = -1.0", code: errors.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := isolate(t)
			t.Setenv("KWEEB_CONFIG", writeConfig(t, tempDir, tt.content))

			_, err := config.Load()
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	tempDir := isolate(t)
	t.Setenv("KWEEB_CONFIG", writeConfig(t, tempDir, `flush_interval = "10s"`))
	t.Setenv("KWEEB_FLUSH_INTERVAL", "20s")
	t.Setenv("KWEEB_REMOTE_TABLE", "activity")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 20*time.Second, cfg.FlushInterval)
	assert.Equal(t, "activity", cfg.Remote.Table)
}

func TestLogLevelFlag(t *testing.T) {
	isolate(t)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	fs.Bool("remote", false, "command specific flag")
	require.NoError(t, fs.Parse([]string{"--log-level", "warn", "--flush-interval", "7s", "--no-ui", "--remote"}))

	cfg, err := config.Load(config.WithFlags(fs))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel, "Expected LogLevel to be set by flag")
	assert.Equal(t, 7*time.Second, cfg.FlushInterval)
	assert.False(t, cfg.UI.Enabled)
	assert.Equal(t, 100*time.Millisecond, cfg.SampleInterval, "unset flags must not override defaults")
	assert.False(t, cfg.Remote.Enabled)
}

func TestDebugFlag(t *testing.T) {
	isolate(t)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--debug", "--verbose"}))

	cfg, err := config.Load(config.WithFlags(fs))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestEnvPrefixOption(t *testing.T) {
	isolate(t)
	t.Setenv("ACME_SCROLL_THRESHOLD", "30")
	t.Setenv("KWEEB_SCROLL_THRESHOLD", "5")

	cfg, err := config.Load(config.WithEnvPrefix("ACME"))
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.ScrollThreshold)
}
