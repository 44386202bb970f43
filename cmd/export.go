package cmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/tasks-go/internal/todo"
)

// exportDocument is the shape written by 'tasks export'.
type exportDocument struct {
	DarkMode  bool        `json:"darkMode" yaml:"darkMode" toml:"darkMode"`
	Remaining int         `json:"remaining" yaml:"remaining" toml:"remaining"`
	Todos     []todo.Task `json:"todos" yaml:"todos" toml:"todos"`
}

// exportCommand writes every task and the theme flag to stdout.
func (a *app) exportCommand(args []string) error {
	fs := flag.NewFlagSet("tasks export", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	format := fs.String("format", "json", "Output format (json|yaml|toml)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	normalized, ok := normalizeFormat(*format)
	if !ok {
		return fmt.Errorf("invalid format %q (expected json, yaml, toml)", *format)
	}
	if err := a.open(); err != nil {
		return err
	}

	doc := exportDocument{
		DarkMode:  a.store.DarkMode(),
		Remaining: a.store.Remaining(),
		Todos:     a.store.Tasks(),
	}
	return writeExport(a.stdout, normalized, doc)
}

func normalizeFormat(input string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", "json":
		return "json", true
	case "yaml", "yml":
		return "yaml", true
	case "toml":
		return "toml", true
	default:
		return "", false
	}
}

func writeExport(w io.Writer, format string, doc exportDocument) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case "toml":
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
