package config

import "time"

// Config holds runtime settings for the order book client.
//
// Sources are layered: defaults, then environment variables, then an optional
// JSON file, then command-line flags. Later sources take precedence.
type Config struct {
	// DatabasePath is the SQLite file backing the local cache.
	DatabasePath string `env:"SAREEBOOK_DB_PATH"`
	// RemoteBaseURL is the base URL of the order store API.
	RemoteBaseURL string `env:"SAREEBOOK_REMOTE_URL"`
	// RemoteAuthToken is sent as a bearer token on every API call.
	RemoteAuthToken string `env:"SAREEBOOK_TOKEN"`
	// RemoteTimeout bounds each individual API call.
	RemoteTimeout time.Duration `env:"SAREEBOOK_REMOTE_TIMEOUT"`
	// OnlineCheckInterval is how often reachability of the remote is probed.
	OnlineCheckInterval time.Duration `env:"SAREEBOOK_ONLINE_CHECK_INTERVAL"`
	// SyncSchedule is a cron expression for periodic background sync.
	SyncSchedule string `env:"SAREEBOOK_SYNC_SCHEDULE"`
	// RetentionWindow is how long an untouched cached order survives.
	RetentionWindow time.Duration `env:"SAREEBOOK_RETENTION"`
	// SuggestionsTTL bounds the age of the autocomplete snapshot.
	SuggestionsTTL time.Duration `env:"SAREEBOOK_SUGGESTIONS_TTL"`
	// LogFile, when set, routes logs to a rotating file instead of stderr.
	LogFile string `env:"SAREEBOOK_LOG_FILE"`
	// UserID identifies whose order book this client works on. When empty the
	// CLI prompts for it at startup.
	UserID string `env:"SAREEBOOK_USER"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "sareebook.db"
	c.RemoteBaseURL = "http://127.0.0.1:8080"
	c.RemoteTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.SyncSchedule = "@every 5m"
	c.RetentionWindow = 3 * 24 * time.Hour
	c.SuggestionsTTL = 10 * time.Minute
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	parseFlags(cfg)
	return cfg, nil
}
