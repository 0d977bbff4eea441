package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays Config with values from SAREEBOOK_* environment
// variables. Unset variables leave the corresponding field untouched.
func parseEnv(cfg *Config) error {
	return env.Parse(cfg)
}
