package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file
const (
	EnvBaseURL      = "STAFFDASH_BASE_URL"
	EnvToken        = "STAFFDASH_TOKEN"
	EnvPollInterval = "STAFFDASH_POLL_INTERVAL"
)

// LoadEnv reads .env style files into the process environment. Variables
// already set win. Missing files are ignored.
func LoadEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			log.Printf("Failed to load %s: %v", f, err)
		}
	}
}

// ApplyEnv overlays environment variables on cfg. Values that cannot be parsed
// are ignored.
func ApplyEnv(cfg *Config) {
	if v := getEnv(EnvBaseURL); v != "" {
		cfg.API.BaseURL = strings.TrimRight(v, "/")
	}
	if v := getEnv(EnvToken); v != "" {
		cfg.Auth.Token = v
	}
	if v := getEnv(EnvPollInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			log.Printf("Ignoring %s=%q: not a positive duration", EnvPollInterval, v)
		} else {
			cfg.List.PollInterval = Duration{d}
		}
	}
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
