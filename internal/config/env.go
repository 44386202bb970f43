package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// envPrefix is prepended to every environment variable name.
const envPrefix = "TASKS_"

// loadFromEnv overrides config from environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	setString := func(name, field string, target *string) {
		if v := os.Getenv(envPrefix + name); v != "" {
			*target = v
			markSource(sources, field, SourceEnv)
		}
	}
	setBool := func(name, field string, target *bool) {
		if v := os.Getenv(envPrefix + name); v != "" {
			*target = boolFromString(v)
			markSource(sources, field, SourceEnv)
		}
	}

	setString("DATA_DIR", "data_dir", &cfg.DataDir)
	setBool("TRACK_UPDATED_AT", "track_updated_at", &cfg.TrackUpdatedAt)
	setString("CLOCK_FORMAT", "clock_format", &cfg.ClockFormat)
	if v := os.Getenv(envPrefix + "TOAST_SECONDS"); v != "" {
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sTOAST_SECONDS: %q is not an integer", envPrefix, v)
		}
		cfg.ToastSeconds = i
		markSource(sources, "toast_seconds", SourceEnv)
	}

	// Logging configuration
	setString("LOG_LEVEL", "log_level", &cfg.LogLevel)
	setString("LOG_FORMAT", "log_format", &cfg.LogFormat)
	setBool("LOG_TIMESTAMPS", "log_timestamps", &cfg.LogTimestamps)
	setBool("LOG_CALLER", "log_caller", &cfg.LogCaller)
	setString("LOG_FILE", "log_file", &cfg.LogFile)
	return nil
}

func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
