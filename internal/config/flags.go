package config

import (
	"flag"
)

// parseFlags defines and parses the global CLI flags.
// If sources is non-nil, it tracks the source of each explicitly set value.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet(AppName, flag.ContinueOnError)
	}

	// Storage
	fs.StringVar(&cfg.DataDir, "data", cfg.DataDir, "Data directory")
	fs.BoolVar(&cfg.TrackUpdatedAt, "track-updated", cfg.TrackUpdatedAt, "Stamp updatedAt on toggle and edit")

	// Terminal UI
	fs.StringVar(&cfg.ClockFormat, "clock-format", cfg.ClockFormat, "Clock layout (Go time format)")
	fs.IntVar(&cfg.ToastSeconds, "toast-seconds", cfg.ToastSeconds, "How long notifications stay visible")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, `Log file ("stderr" to log to the terminal)`)

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Map flag names to source field names
	flagToSource := map[string]string{
		"data":           "data_dir",
		"track-updated":  "track_updated_at",
		"clock-format":   "clock_format",
		"toast-seconds":  "toast_seconds",
		"log-level":      "log_level",
		"log-format":     "log_format",
		"log-timestamps": "log_timestamps",
		"log-caller":     "log_caller",
		"log-file":       "log_file",
	}
	fs.Visit(func(f *flag.Flag) {
		if fieldName, ok := flagToSource[f.Name]; ok {
			markSource(sources, fieldName, SourceFlag)
		}
	})

	return nil
}
