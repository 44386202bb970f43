package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/nibzard/tasks-go/internal/storage"
	"github.com/nibzard/tasks-go/internal/todo"
)

// doctorCommand checks the data directory, the stored documents and the
// log destination. It never modifies anything.
func (a *app) doctorCommand(args []string) error {
	fs := flag.NewFlagSet("tasks doctor", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	w := a.stdout
	fmt.Fprintln(w, "Tasks Doctor")
	fmt.Fprintln(w, "============")
	fmt.Fprintln(w)

	allOK := true

	// Check data directory
	fmt.Fprintf(w, "Data directory: %s\n", a.cfg.DataDir)
	info, err := os.Stat(a.cfg.DataDir)
	switch {
	case os.IsNotExist(err):
		fmt.Fprintln(w, "  ⚠️  Not found (will be created on first change)")
		fmt.Fprintln(w)
		a.doctorLog()
		fmt.Fprintln(w)
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	case !info.IsDir():
		fmt.Fprintln(w, "  ❌ Error: path is not a directory")
		allOK = false
	default:
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	if allOK {
		dir, err := storage.OpenDir(a.cfg.DataDir)
		if err != nil {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		} else {
			if !a.doctorTodos(dir, *verbose) {
				allOK = false
			}
			if !a.doctorTheme(dir) {
				allOK = false
			}
			a.doctorExtraKeys(dir)
		}
	}

	a.doctorLog()
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed. Invalid documents are ignored and replaced on the next change.")
	return fmt.Errorf("doctor checks failed")
}

func (a *app) doctorTodos(dir *storage.Dir, verbose bool) bool {
	w := a.stdout
	fmt.Fprintf(w, "Tasks: %s\n", dir.KeyPath(storage.KeyTodos))
	defer fmt.Fprintln(w)

	doc, ok, err := dir.Get(storage.KeyTodos)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		return false
	}
	if !ok {
		fmt.Fprintln(w, "  ⚠️  Not found (no tasks saved yet)")
		return true
	}

	if errs := todo.ValidateDocument([]byte(doc)); len(errs) > 0 {
		fmt.Fprintln(w, "  ❌ Validation failed:")
		for _, e := range errs {
			fmt.Fprintf(w, "     - %v\n", e)
		}
		return false
	}
	fmt.Fprintln(w, "  ✅ Valid")

	tasks, err := todo.DecodeTasks(doc)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Load error: %v\n", err)
		return false
	}
	remaining := 0
	for _, t := range tasks {
		if !t.Completed {
			remaining++
		}
	}
	fmt.Fprintf(w, "  Tasks: %d (%d remaining)\n", len(tasks), remaining)
	if verbose {
		for _, t := range tasks {
			check := " "
			if t.Completed {
				check = "x"
			}
			fmt.Fprintf(w, "    - [%s] %s: %s\n", check, t.ID, t.Text)
		}
	}
	return true
}

func (a *app) doctorTheme(dir *storage.Dir) bool {
	w := a.stdout
	fmt.Fprintf(w, "Theme: %s\n", dir.KeyPath(storage.KeyDarkMode))
	defer fmt.Fprintln(w)

	doc, ok, err := dir.Get(storage.KeyDarkMode)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		return false
	}
	if !ok {
		fmt.Fprintln(w, "  ⚠️  Not found (light theme)")
		return true
	}
	dark, err := todo.DecodeDarkMode(doc)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Invalid: %v\n", err)
		return false
	}
	fmt.Fprintf(w, "  ✅ %s\n", themeName(dark))
	return true
}

func (a *app) doctorExtraKeys(dir *storage.Dir) {
	keys, err := dir.Keys()
	if err != nil {
		return
	}
	for _, k := range keys {
		if k == storage.KeyTodos || k == storage.KeyDarkMode {
			continue
		}
		fmt.Fprintf(a.stdout, "⚠️  Unknown document: %s\n\n", dir.KeyPath(k))
	}
}

func (a *app) doctorLog() {
	w := a.stdout
	path := a.cfg.LogPath()
	if path == "" {
		fmt.Fprintln(w, "Log: stderr")
		return
	}
	fmt.Fprintf(w, "Log file: %s\n", path)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(w, "  ⚠️  Not found (will be created on first use)")
			return
		}
		fmt.Fprintf(w, "  ⚠️  %v\n", err)
		return
	}
	fmt.Fprintln(w, "  ✅ OK")
}
