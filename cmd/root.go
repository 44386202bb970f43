// Package cmd implements the CLI command structure for tasks.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasks-go/internal/config"
	"github.com/nibzard/tasks-go/internal/logging"
	"github.com/nibzard/tasks-go/internal/storage"
	"github.com/nibzard/tasks-go/internal/todo"
	"github.com/nibzard/tasks-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// errTaskNotFound is reported when a task reference matches nothing.
var errTaskNotFound = errors.New("task not found")

// Run executes the tasks CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

// app carries what a subcommand needs: configuration, output streams and,
// once opened, the logger and the task store.
type app struct {
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer

	logger    *log.Logger
	logCloser io.Closer
	store     *todo.Store
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("tasks", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}

	a := &app{cfg: cws.Config, stdout: stdout, stderr: stderr}
	defer a.close()

	if *showVersion {
		return a.versionCommand()
	}

	// Determine the subcommand; the terminal UI is the default.
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return a.tuiCommand(ctx, remainingArgs)
	case "add", "create":
		return a.addCommand(remainingArgs)
	case "list", "ls":
		return a.listCommand(remainingArgs)
	case "done", "toggle":
		return a.doneCommand(remainingArgs)
	case "edit":
		return a.editCommand(remainingArgs)
	case "rm", "delete":
		return a.rmCommand(remainingArgs)
	case "theme":
		return a.themeCommand(remainingArgs)
	case "remaining":
		return a.remainingCommand(remainingArgs)
	case "export":
		return a.exportCommand(remainingArgs)
	case "doctor":
		return a.doctorCommand(remainingArgs)
	case "config":
		return a.configCommand(cws, remainingArgs)
	case "log":
		return a.logCommand(ctx, remainingArgs)
	case "completion":
		return a.completionCommand(remainingArgs)
	case "version":
		return a.versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// open prepares the logger and the store. It is safe to call more than once.
func (a *app) open() error {
	if a.store != nil {
		return nil
	}
	if err := a.openLogger(); err != nil {
		return err
	}
	dir, err := storage.OpenDir(a.cfg.DataDir)
	if err != nil {
		return err
	}
	a.store = todo.Open(dir,
		todo.WithLogger(a.logger),
		todo.WithUpdatedAt(a.cfg.TrackUpdatedAt),
	)
	return nil
}

func (a *app) openLogger() error {
	if a.logger != nil {
		return nil
	}
	logger, closer, err := logging.Open(a.cfg.LogPath(), logging.Options{
		Level:      a.cfg.LogLevel,
		Format:     a.cfg.LogFormat,
		Timestamps: a.cfg.LogTimestamps,
		Caller:     a.cfg.LogCaller,
		Prefix:     logging.DefaultPrefix,
	})
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	a.logger = logger
	a.logCloser = closer
	return nil
}

func (a *app) close() {
	if a.logCloser != nil {
		_ = a.logCloser.Close()
		a.logCloser = nil
	}
}

// tuiCommand launches the terminal UI.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tasks tui", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if a.cfg.LogPath() == "" {
		return fmt.Errorf("tui cannot log to stderr; set log_file to a path")
	}
	if err := a.open(); err != nil {
		return err
	}
	a.logger.Info("starting tui", "data_dir", a.cfg.DataDir, "tasks", a.store.Len())
	return ui.Run(ctx, a.store, a.cfg, a.logger)
}

func (a *app) versionCommand() error {
	fmt.Fprintf(a.stdout, "tasks version %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Tasks - A terminal task list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasks [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                   Launch the terminal UI (default command)")
	fmt.Fprintln(w, "  add <text...>         Add a task (alias: create)")
	fmt.Fprintln(w, "  list                  List tasks (alias: ls)")
	fmt.Fprintln(w, "  done <ref>            Toggle a task's completion (alias: toggle)")
	fmt.Fprintln(w, "  edit <ref> <text...>  Replace a task's text")
	fmt.Fprintln(w, "  rm <ref>              Delete a task (alias: delete)")
	fmt.Fprintln(w, "  theme                 Toggle the light/dark theme")
	fmt.Fprintln(w, "  remaining             Print the number of incomplete tasks")
	fmt.Fprintln(w, "  export                Print all tasks as json, yaml or toml")
	fmt.Fprintln(w, "  doctor                Check the data directory and stored documents")
	fmt.Fprintln(w, "  config                Show the effective configuration")
	fmt.Fprintln(w, "  log                   Show the log file")
	fmt.Fprintln(w, "  completion <shell>    Print a shell completion script (bash|zsh|fish)")
	fmt.Fprintln(w, "  version               Show version information")
	fmt.Fprintln(w, "  help                  Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "A <ref> is a position from 'tasks list' or a unique id prefix.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List Options (use with 'list' command):")
	fmt.Fprintln(w, "  -v    Show ids and timestamps")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Theme Options (use with 'theme' command):")
	fmt.Fprintln(w, "  -show")
	fmt.Fprintln(w, "        Print the current theme without changing it")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export Options (use with 'export' command):")
	fmt.Fprintln(w, "  -format string")
	fmt.Fprintln(w, "        Output format (json|yaml|toml) (default \"json\")")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Log Options (use with 'log' command):")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options (use with 'config' command):")
	fmt.Fprintln(w, "  -example")
	fmt.Fprintln(w, "        Print an example configuration file")
}

// joinArgs joins words into task text.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
