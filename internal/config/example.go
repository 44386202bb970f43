package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasks configuration file
# Values can be overridden by TASKS_* environment variables or CLI flags

# Where tasks and the theme flag are stored (supports ~ expansion)
data_dir = "~/.tasks"

# Stamp updatedAt whenever a task is toggled or edited
track_updated_at = true

# Clock layout in the terminal UI (Go time format)
clock_format = "15:04:05"

# How long notifications stay visible (seconds, 0 keeps them until the next one)
toast_seconds = 3

# Logging
log_level = "info"        # debug, info, warn, error
log_format = "text"       # text, json, logfmt
log_timestamps = false
log_caller = false
# log_file = "~/.tasks/tasks.log"   # default: <data_dir>/tasks.log, "stderr" for the terminal
`
}
