// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/tasks-go/internal/todo"
	"github.com/nibzard/tasks-go/internal/ui"
)

// isolate points every config lookup at empty temp directories and
// returns a data dir for the test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, name := range []string{
		"DATA_DIR", "TRACK_UPDATED_AT", "CLOCK_FORMAT", "TOAST_SECONDS",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_TIMESTAMPS", "LOG_CALLER", "LOG_FILE",
	} {
		t.Setenv("TASKS_"+name, "")
	}
	chdir(t, t.TempDir())
	return filepath.Join(home, "data")
}

// runCLI runs the CLI against dataDir and returns stdout, stderr and the error.
func runCLI(t *testing.T, dataDir string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"--data", dataDir}, args...)
	err := run(context.Background(), full, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func mustRun(t *testing.T, dataDir string, args ...string) string {
	t.Helper()
	out, stderr, err := runCLI(t, dataDir, args...)
	if err != nil {
		t.Fatalf("tasks %v: %v (stderr: %s)", args, err, stderr)
	}
	return out
}

// TestRun tests the main run function.
func TestRun(t *testing.T) {
	isolate(t)

	tests := []struct {
		name   string
		args   []string
		needle string
	}{
		{"help flag", []string{"--help"}, "Usage:"},
		{"short help flag", []string{"-h"}, "Commands:"},
		{"help command", []string{"help"}, "Global Options:"},
		{"version flag", []string{"--version"}, "tasks version dev"},
		{"short version flag", []string{"-v"}, "tasks version dev"},
		{"version command", []string{"version"}, "tasks version dev"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if err := run(context.Background(), tt.args, &stdout, &stderr); err != nil {
				t.Fatalf("run(%v): %v", tt.args, err)
			}
			if !strings.Contains(stdout.String(), tt.needle) {
				t.Errorf("output missing %q:\n%s", tt.needle, stdout.String())
			}
		})
	}

	t.Run("unknown command returns error", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		err := run(context.Background(), []string{"unknown-command"}, &stdout, &stderr)
		if err == nil || !strings.Contains(err.Error(), "unknown command") {
			t.Fatalf("expected unknown command error, got %v", err)
		}
		if !strings.Contains(stderr.String(), "Usage:") {
			t.Errorf("usage should go to stderr: %q", stderr.String())
		}
	})

	t.Run("invalid global flag value", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		err := run(context.Background(), []string{"--log-level", "loud", "list"}, &stdout, &stderr)
		if err == nil || !strings.Contains(err.Error(), "log_level") {
			t.Fatalf("expected log_level error, got %v", err)
		}
	})
}

func TestAddListRemaining(t *testing.T) {
	data := isolate(t)

	out := mustRun(t, data, "list")
	if !strings.Contains(out, "No tasks.") || !strings.Contains(out, "0 remaining") {
		t.Errorf("empty list output:\n%s", out)
	}

	if out := mustRun(t, data, "add", "Buy", "milk"); out != "Added 1: Buy milk\n" {
		t.Errorf("add output: %q", out)
	}
	mustRun(t, data, "create", "  Walk dog  ")
	if out := mustRun(t, data, "done", "1"); out != "Completed 1: Buy milk\n" {
		t.Errorf("done output: %q", out)
	}

	out = mustRun(t, data, "ls")
	for _, want := range []string{"  1. [x] Buy milk\n", "  2. [ ] Walk dog\n", "1 remaining\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
	if out := mustRun(t, data, "remaining"); out != "1\n" {
		t.Errorf("remaining: got %q, want 1", out)
	}

	if out := mustRun(t, data, "toggle", "1"); out != "Reopened 1: Buy milk\n" {
		t.Errorf("toggle output: %q", out)
	}
	if out := mustRun(t, data, "remaining"); out != "2\n" {
		t.Errorf("remaining: got %q, want 2", out)
	}

	out = mustRun(t, data, "list", "-v")
	if !strings.Contains(out, "id: ") || !strings.Contains(out, "updated: ") {
		t.Errorf("verbose list should show ids and timestamps:\n%s", out)
	}
}

func TestAddEmptyText(t *testing.T) {
	data := isolate(t)

	for _, args := range [][]string{{"add"}, {"add", "   "}} {
		_, _, err := runCLI(t, data, args...)
		if err == nil || err.Error() != "task text required" {
			t.Errorf("tasks %v: got %v, want task text required", args, err)
		}
	}
	if out := mustRun(t, data, "remaining"); out != "0\n" {
		t.Errorf("remaining: got %q", out)
	}
}

func TestEditCommand(t *testing.T) {
	data := isolate(t)
	mustRun(t, data, "add", "A")

	if out := mustRun(t, data, "edit", "1", "A", "prime"); out != "Updated 1: A prime\n" {
		t.Errorf("edit output: %q", out)
	}

	_, _, err := runCLI(t, data, "edit", "1", "   ")
	if err == nil || err.Error() != "task text required" {
		t.Errorf("empty edit: got %v", err)
	}
	if out := mustRun(t, data, "list"); !strings.Contains(out, "A prime") {
		t.Errorf("text should be unchanged after empty edit:\n%s", out)
	}

	_, _, err = runCLI(t, data, "edit", "9", "x")
	if !errors.Is(err, errTaskNotFound) {
		t.Errorf("unknown ref: got %v, want task not found", err)
	}
}

func TestRmCommand(t *testing.T) {
	data := isolate(t)
	mustRun(t, data, "add", "A")
	mustRun(t, data, "add", "B")

	if out := mustRun(t, data, "rm", "1"); out != "Deleted 1: A\n" {
		t.Errorf("rm output: %q", out)
	}
	if out := mustRun(t, data, "delete", "1"); out != "Deleted 1: B\n" {
		t.Errorf("delete output: %q", out)
	}
	_, _, err := runCLI(t, data, "rm", "1")
	if !errors.Is(err, errTaskNotFound) {
		t.Errorf("rm on empty list: got %v", err)
	}
	_, _, err = runCLI(t, data, "rm")
	if err == nil || !strings.Contains(err.Error(), "usage") {
		t.Errorf("rm without ref: got %v", err)
	}
}

func TestThemeCommand(t *testing.T) {
	data := isolate(t)

	if out := mustRun(t, data, "theme", "-show"); out != "Theme: light\n" {
		t.Errorf("show: %q", out)
	}
	if out := mustRun(t, data, "theme"); out != "Theme: dark\n" {
		t.Errorf("toggle: %q", out)
	}
	if out := mustRun(t, data, "theme", "--show"); out != "Theme: dark\n" {
		t.Errorf("show after toggle: %q", out)
	}
	raw, err := os.ReadFile(filepath.Join(data, "darkMode.json"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(raw)) != "true" {
		t.Errorf("darkMode.json: got %q", raw)
	}
}

func TestTrackUpdatedAtFlag(t *testing.T) {
	data := isolate(t)
	mustRun(t, data, "add", "A")
	mustRun(t, data, "--track-updated=false", "done", "1")

	raw, err := os.ReadFile(filepath.Join(data, "todos.json"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "updatedAt") {
		t.Errorf("updatedAt should not be written: %s", raw)
	}
	if !strings.Contains(string(raw), `"completed":true`) {
		t.Errorf("task should be completed: %s", raw)
	}
}

func TestExportCommand(t *testing.T) {
	data := isolate(t)
	mustRun(t, data, "add", "A")
	mustRun(t, data, "add", "B")
	mustRun(t, data, "done", "2")
	mustRun(t, data, "theme")

	check := func(t *testing.T, doc exportDocument) {
		t.Helper()
		if !doc.DarkMode || doc.Remaining != 1 || len(doc.Todos) != 2 {
			t.Fatalf("unexpected document: %+v", doc)
		}
		if doc.Todos[0].Text != "A" || !doc.Todos[1].Completed {
			t.Errorf("unexpected tasks: %+v", doc.Todos)
		}
		if doc.Todos[1].UpdatedAt == nil {
			t.Error("toggled task should carry updatedAt")
		}
	}

	t.Run("json", func(t *testing.T) {
		var doc exportDocument
		if err := json.Unmarshal([]byte(mustRun(t, data, "export")), &doc); err != nil {
			t.Fatal(err)
		}
		check(t, doc)
	})

	t.Run("yaml", func(t *testing.T) {
		var doc exportDocument
		if err := yaml.Unmarshal([]byte(mustRun(t, data, "export", "-format", "yaml")), &doc); err != nil {
			t.Fatal(err)
		}
		check(t, doc)
	})

	t.Run("toml", func(t *testing.T) {
		var doc exportDocument
		if _, err := toml.Decode(mustRun(t, data, "export", "--format=toml"), &doc); err != nil {
			t.Fatal(err)
		}
		check(t, doc)
	})

	t.Run("invalid format", func(t *testing.T) {
		_, _, err := runCLI(t, data, "export", "-format", "xml")
		if err == nil || !strings.Contains(err.Error(), "invalid format") {
			t.Errorf("got %v", err)
		}
	})
}

func TestResolveRef(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tasks := []todo.Task{
		{ID: "abc123", Text: "A", CreatedAt: created},
		{ID: "abd456", Text: "B", CreatedAt: created},
		{ID: "9ff000", Text: "C", CreatedAt: created},
	}

	tests := []struct {
		ref     string
		wantPos int
		wantID  string
		wantErr bool
	}{
		{"1", 1, "abc123", false},
		{"3", 3, "9ff000", false},
		{"abc", 1, "abc123", false},
		{"abd456", 2, "abd456", false},
		{"9", 3, "9ff000", false},
		{"ab", 0, "", true},
		{"zzz", 0, "", true},
		{"0", 0, "", true},
		{"", 0, "", true},
	}
	for _, tt := range tests {
		pos, task, err := resolveRef(tasks, tt.ref)
		if (err != nil) != tt.wantErr {
			t.Errorf("resolveRef(%q): err %v, wantErr %v", tt.ref, err, tt.wantErr)
			continue
		}
		if pos != tt.wantPos || task.ID != tt.wantID {
			t.Errorf("resolveRef(%q): got %d %s, want %d %s", tt.ref, pos, task.ID, tt.wantPos, tt.wantID)
		}
	}

	if _, _, err := resolveRef(tasks, "zzz"); !errors.Is(err, errTaskNotFound) {
		t.Errorf("unknown ref should wrap errTaskNotFound, got %v", err)
	}
}

func TestDoctorCommand(t *testing.T) {
	t.Run("missing data dir", func(t *testing.T) {
		data := isolate(t)
		out := mustRun(t, data, "doctor")
		if !strings.Contains(out, "Not found") || !strings.Contains(out, "All checks passed") {
			t.Errorf("unexpected output:\n%s", out)
		}
		if _, err := os.Stat(data); !os.IsNotExist(err) {
			t.Error("doctor should not create the data dir")
		}
	})

	t.Run("valid data", func(t *testing.T) {
		data := isolate(t)
		mustRun(t, data, "add", "A")
		mustRun(t, data, "theme")
		out := mustRun(t, data, "doctor", "-v")
		for _, want := range []string{"✅ Valid", "Tasks: 1 (1 remaining)", "✅ dark", "All checks passed"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("invalid documents", func(t *testing.T) {
		data := isolate(t)
		if err := os.MkdirAll(data, 0o755); err != nil {
			t.Fatal(err)
		}
		doc := `[{"id":"1","text":"a","completed":"yes","createdAt":"2024-01-01T00:00:00Z"}]`
		if err := os.WriteFile(filepath.Join(data, "todos.json"), []byte(doc), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(data, "darkMode.json"), []byte("maybe"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(data, "notes.json"), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}

		out, _, err := runCLI(t, data, "doctor")
		if err == nil || !strings.Contains(err.Error(), "doctor checks failed") {
			t.Fatalf("expected failure, got %v", err)
		}
		for _, want := range []string{"Validation failed", "[0].completed", "❌ Invalid", "Unknown document"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}

		// The store tolerates what doctor reports.
		if out := mustRun(t, data, "remaining"); out != "0\n" {
			t.Errorf("remaining over invalid doc: %q", out)
		}
	})
}

func TestConfigCommand(t *testing.T) {
	data := isolate(t)
	if err := os.WriteFile("tasks.toml", []byte("toast_seconds = 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TASKS_LOG_LEVEL", "debug")

	out := mustRun(t, data, "config")
	for _, want := range []string{
		"tasks.toml",
		"(flag)",
		"(project file)",
		"(environment)",
		"(default)",
		`"debug"`,
		"Log destination: " + filepath.Join(data, "tasks.log"),
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	example := mustRun(t, data, "config", "-example")
	if !strings.Contains(example, "data_dir") {
		t.Errorf("example config missing data_dir:\n%s", example)
	}
}

func TestLogCommand(t *testing.T) {
	data := isolate(t)

	out := mustRun(t, data, "log")
	if !strings.Contains(out, "No log file") {
		t.Errorf("expected no log file message, got %q", out)
	}

	mustRun(t, data, "--log-level", "debug", "add", "A")
	mustRun(t, data, "--log-level", "debug", "done", "1")

	out = mustRun(t, data, "log", "-n", "1")
	if strings.Count(out, "\n") != 1 || !strings.Contains(out, "task toggled") {
		t.Errorf("log -n 1: got %q", out)
	}
	out = mustRun(t, data, "log")
	if !strings.Contains(out, "task created") {
		t.Errorf("log should contain the create entry:\n%s", out)
	}

	_, _, err := runCLI(t, data, "--log-file", "stderr", "log")
	if err == nil {
		t.Error("log with stderr logging should fail")
	}
}

func TestTUICommand(t *testing.T) {
	data := isolate(t)

	_, _, err := runCLI(t, data, "--log-file", "stderr", "tui")
	if err == nil || !strings.Contains(err.Error(), "log_file") {
		t.Errorf("tui with stderr logging: got %v", err)
	}

	if ui.IsTTY(os.Stdout) {
		t.Skip("stdout is a terminal")
	}
	_, _, err = runCLI(t, data)
	if err == nil || !strings.Contains(err.Error(), "TTY") {
		t.Errorf("default command without a TTY: got %v", err)
	}
}

func TestJoinArgs(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, ""},
		{[]string{"a"}, "a"},
		{[]string{" a", "b "}, "a b"},
		{[]string{"", ""}, ""},
	}
	for _, tt := range tests {
		if got := joinArgs(tt.args); got != tt.want {
			t.Errorf("joinArgs(%q): got %q, want %q", tt.args, got, tt.want)
		}
	}
}

// chdir changes the working directory to dir for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PWD", dir)
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restoring working directory: %v", err)
		}
	})
}
