package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/nibzard/tasks-go/internal/logging"
)

// logCommand prints the log file, optionally following it.
func (a *app) logCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tasks log", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if *n < 0 {
		return fmt.Errorf("-n must not be negative")
	}

	logPath := a.cfg.LogPath()
	if logPath == "" {
		return fmt.Errorf("logging goes to stderr; there is no log file")
	}
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		fmt.Fprintf(a.stdout, "No log file at %s.\n", logPath)
		return nil
	}

	fmt.Fprintf(a.stderr, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(a.stderr, "(Ctrl+C to stop)")
	}
	return logging.TailLog(ctx, a.stdout, logPath, *n, *follow)
}
