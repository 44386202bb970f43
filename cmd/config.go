package cmd

import (
	"flag"
	"fmt"

	"github.com/nibzard/tasks-go/internal/config"
)

// configCommand prints the effective configuration and where each value
// came from.
func (a *app) configCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("tasks config", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	example := fs.Bool("example", false, "Print an example configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if *example {
		fmt.Fprint(a.stdout, config.ExampleConfig())
		return nil
	}

	w := a.stdout
	cfg := cws.Config
	fmt.Fprintln(w, "Configuration")
	fmt.Fprintln(w, "=============")
	fmt.Fprintln(w)
	if len(cws.Files) == 0 {
		fmt.Fprintln(w, "Config files: (none)")
	} else {
		fmt.Fprintln(w, "Config files:")
		for _, f := range cws.Files {
			fmt.Fprintf(w, "  %s\n", f)
		}
	}
	fmt.Fprintln(w)

	entries := []struct {
		key   string
		value any
	}{
		{"data_dir", cfg.DataDir},
		{"track_updated_at", cfg.TrackUpdatedAt},
		{"clock_format", cfg.ClockFormat},
		{"toast_seconds", cfg.ToastSeconds},
		{"log_level", cfg.LogLevel},
		{"log_format", cfg.LogFormat},
		{"log_timestamps", cfg.LogTimestamps},
		{"log_caller", cfg.LogCaller},
		{"log_file", cfg.LogFile},
	}
	for _, e := range entries {
		value := fmt.Sprintf("%v", e.value)
		if s, ok := e.value.(string); ok {
			value = fmt.Sprintf("%q", s)
		}
		source := cws.Sources[e.key]
		if source == "" {
			source = config.SourceDefault
		}
		fmt.Fprintf(w, "  %-18s = %-30s (%s)\n", e.key, value, source)
	}
	fmt.Fprintln(w)

	logPath := cfg.LogPath()
	if logPath == "" {
		logPath = "stderr"
	}
	fmt.Fprintf(w, "Log destination: %s\n", logPath)
	return nil
}
