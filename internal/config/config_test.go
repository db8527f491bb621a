package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/staffpilot/internal/lifecycle"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
		"base_url": "http://hiring.internal:8000/api",
		"timeout_seconds": 12,
		"ordering_policy": "last-settled",
		"throttle_enabled": false,
		"verbose": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "http://hiring.internal:8000/api", cfg.BaseURL)
	assert.Equal(t, 12*time.Second, cfg.Timeout())
	assert.Equal(t, lifecycle.LastSettledWins, cfg.Policy())
	assert.False(t, cfg.Throttled())
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
base_url: http://hiring.internal:8000/api
refresh_concurrency: 2
timezone: Asia/Kolkata
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://hiring.internal:8000/api", cfg.BaseURL)
	assert.Equal(t, 2, cfg.RefreshConcurrency)
	assert.Equal(t, "Asia/Kolkata", cfg.Timezone)
	assert.True(t, cfg.Throttled())
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{ invalid json }`)

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "config.yml", "base_url: [unterminated")

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "valid", cfg: Defaults()},
		{name: "relative base url", cfg: Config{BaseURL: "/api"}, wantErr: "base_url"},
		{name: "negative timeout", cfg: Config{TimeoutSeconds: -1}, wantErr: "timeout_seconds"},
		{name: "negative concurrency", cfg: Config{RefreshConcurrency: -2}, wantErr: "refresh_concurrency"},
		{name: "unknown policy", cfg: Config{OrderingPolicy: "first-wins"}, wantErr: "ordering policy"},
		{name: "unknown timezone", cfg: Config{Timezone: "Mars/Olympus"}, wantErr: "timezone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvBaseURL, "http://env.example:9000/api")
	t.Setenv(EnvTimeout, "5")
	t.Setenv(EnvOrdering, "last-settled")

	cfg := Config{BaseURL: "http://file.example/api", TimeoutSeconds: 60}
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "http://env.example:9000/api", cfg.BaseURL)
	assert.Equal(t, 5, cfg.TimeoutSeconds)
	assert.Equal(t, "last-settled", cfg.OrderingPolicy)
}

func TestApplyEnv_BadTimeout(t *testing.T) {
	t.Setenv(EnvTimeout, "soon")

	cfg := Config{}
	err := cfg.ApplyEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvTimeout)
}

func TestMergeWithDefaults(t *testing.T) {
	partial := Config{
		BaseURL:        "http://custom/api",
		OrderingPolicy: "last-settled",
	}

	merged := partial.MergeWithDefaults(Defaults())

	// Custom values should be preserved
	assert.Equal(t, "http://custom/api", merged.BaseURL)
	assert.Equal(t, "last-settled", merged.OrderingPolicy)

	// Default values should fill in empty fields
	assert.Equal(t, DefaultTimeoutSeconds, merged.TimeoutSeconds)
	assert.Equal(t, DefaultRefreshConcurrency, merged.RefreshConcurrency)
	require.NotNil(t, merged.ThrottleEnabled)
	assert.True(t, *merged.ThrottleEnabled)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{BaseURL: "http://custom/api"}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "http://custom/api", merged.BaseURL)
	assert.Nil(t, merged.ThrottleEnabled)
	assert.True(t, merged.Throttled())
}

func TestLocation(t *testing.T) {
	cfg := Config{}
	assert.Equal(t, time.Local, cfg.Location())

	cfg.Timezone = "UTC"
	assert.Equal(t, "UTC", cfg.Location().String())
}
