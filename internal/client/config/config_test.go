package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, "sareebook.db", cfg.DatabasePath)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.RemoteBaseURL)
	assert.Equal(t, 10*time.Second, cfg.RemoteTimeout)
	assert.Equal(t, 3*time.Second, cfg.OnlineCheckInterval)
	assert.Equal(t, "@every 5m", cfg.SyncSchedule)
	assert.Equal(t, 3*24*time.Hour, cfg.RetentionWindow)
	assert.Equal(t, 10*time.Minute, cfg.SuggestionsTTL)
}

func TestParseEnvOverlay(t *testing.T) {
	t.Setenv("SAREEBOOK_DB_PATH", "/tmp/orders.db")
	t.Setenv("SAREEBOOK_RETENTION", "48h")

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, "/tmp/orders.db", cfg.DatabasePath)
	assert.Equal(t, 48*time.Hour, cfg.RetentionWindow)
	// Untouched by the environment.
	assert.Equal(t, "@every 5m", cfg.SyncSchedule)
}

func TestParseJsonOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"remote_base_url": "https://orders.example.com",
		"online_check_interval": "7s",
		"suggestions_ttl": 60000000000
	}`), 0o600))

	oldArgs := os.Args
	os.Args = []string{"sareebook", "-c", path}
	defer func() { os.Args = oldArgs }()

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseJson(cfg))

	assert.Equal(t, "https://orders.example.com", cfg.RemoteBaseURL)
	assert.Equal(t, 7*time.Second, cfg.OnlineCheckInterval)
	assert.Equal(t, time.Minute, cfg.SuggestionsTTL)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, "sareebook.db", cfg.DatabasePath)
}

func TestParseFlagsOverlay(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"sareebook", "-r", "https://flags.example.com", "-i", "9"}
	defer func() { os.Args = oldArgs }()

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, "https://flags.example.com", cfg.RemoteBaseURL)
	assert.Equal(t, 9*time.Second, cfg.OnlineCheckInterval)
	assert.Equal(t, "sareebook.db", cfg.DatabasePath)
}
