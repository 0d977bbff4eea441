package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/kavyatex/sareebook/internal/flagx"
	"github.com/kavyatex/sareebook/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "3s"
// or as integer nanoseconds.
type JsonConfig struct {
	DatabasePath        string         `json:"database_path"`
	RemoteBaseURL       string         `json:"remote_base_url"`
	RemoteAuthToken     string         `json:"remote_auth_token"`
	RemoteTimeout       timex.Duration `json:"remote_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	SyncSchedule        string         `json:"sync_schedule"`
	RetentionWindow     timex.Duration `json:"retention_window"`
	SuggestionsTTL      timex.Duration `json:"suggestions_ttl"`
	LogFile             string         `json:"log_file"`
	UserID              string         `json:"user_id"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags; when neither is given no JSON is
// loaded. Keys absent from the file leave the field untouched.
func parseJson(cfg *Config) error {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return nil
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.RemoteBaseURL != "" {
		cfg.RemoteBaseURL = jc.RemoteBaseURL
	}
	if jc.RemoteAuthToken != "" {
		cfg.RemoteAuthToken = jc.RemoteAuthToken
	}
	if jc.RemoteTimeout.Duration != 0 {
		cfg.RemoteTimeout = time.Duration(jc.RemoteTimeout.Duration)
	}
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	}
	if jc.SyncSchedule != "" {
		cfg.SyncSchedule = jc.SyncSchedule
	}
	if jc.RetentionWindow.Duration != 0 {
		cfg.RetentionWindow = time.Duration(jc.RetentionWindow.Duration)
	}
	if jc.SuggestionsTTL.Duration != 0 {
		cfg.SuggestionsTTL = time.Duration(jc.SuggestionsTTL.Duration)
	}
	if jc.LogFile != "" {
		cfg.LogFile = jc.LogFile
	}
	if jc.UserID != "" {
		cfg.UserID = jc.UserID
	}
	return nil
}
