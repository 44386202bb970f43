package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, in load order.
	Files []string
}

// Default values.
const (
	DefaultDataDir        = "~/.tasks"
	DefaultTrackUpdatedAt = true
	DefaultClockFormat    = "15:04:05"
	DefaultToastSeconds   = 3
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"

	// LogFileName is the log file created inside the data dir when
	// log_file is not set.
	LogFileName = "tasks.log"

	// LogToStderr as log_file sends logs to stderr instead of a file.
	LogToStderr = "stderr"
)

// Config holds the full configuration for tasks.
type Config struct {
	// Storage
	DataDir string `toml:"data_dir"`

	// Stamp updatedAt on toggle and edit
	TrackUpdatedAt bool `toml:"track_updated_at"`

	// Terminal UI
	ClockFormat  string `toml:"clock_format"`
	ToastSeconds int    `toml:"toast_seconds"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
	LogFile       string `toml:"log_file"`

	// Working directory (computed)
	WorkDir string `toml:"-"`
}

// LogPath returns the resolved log file path, or "" when logging to stderr.
func (c *Config) LogPath() string {
	switch c.LogFile {
	case LogToStderr:
		return ""
	case "":
		return joinDataDir(c.DataDir, LogFileName)
	default:
		return c.LogFile
	}
}
