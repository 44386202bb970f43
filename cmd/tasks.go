package cmd

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nibzard/tasks-go/internal/todo"
)

// addCommand creates a task from the remaining words.
func (a *app) addCommand(args []string) error {
	text := joinArgs(args)
	if text == "" {
		return fmt.Errorf("task text required")
	}
	if err := a.open(); err != nil {
		return err
	}
	task, err := a.store.Create(text)
	if errors.Is(err, todo.ErrEmptyInput) {
		return fmt.Errorf("task text required")
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Added %d: %s\n", a.store.Len(), task.Text)
	return nil
}

// listCommand prints tasks in insertion order followed by the remaining count.
func (a *app) listCommand(args []string) error {
	fs := flag.NewFlagSet("tasks list", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	verbose := fs.Bool("v", false, "Show ids and timestamps")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if err := a.open(); err != nil {
		return err
	}

	tasks := a.store.Tasks()
	if len(tasks) == 0 {
		fmt.Fprintln(a.stdout, "No tasks.")
	}
	for i, t := range tasks {
		a.printTask(i+1, t, *verbose)
	}
	fmt.Fprintln(a.stdout)
	fmt.Fprintf(a.stdout, "%d remaining\n", a.store.Remaining())
	return nil
}

func (a *app) printTask(pos int, t todo.Task, verbose bool) {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}
	fmt.Fprintf(a.stdout, "%3d. %s %s\n", pos, check, t.Text)
	if !verbose {
		return
	}
	line := fmt.Sprintf("       id: %s  created: %s", t.ID, t.CreatedAt.Local().Format(time.DateTime))
	if t.UpdatedAt != nil {
		line += fmt.Sprintf("  updated: %s", t.UpdatedAt.Local().Format(time.DateTime))
	}
	fmt.Fprintln(a.stdout, line)
}

// doneCommand toggles the completion flag of a task.
func (a *app) doneCommand(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: tasks done <ref>")
	}
	if err := a.open(); err != nil {
		return err
	}
	pos, task, err := resolveRef(a.store.Tasks(), args[0])
	if err != nil {
		return err
	}
	if err := a.store.Toggle(task.ID); err != nil {
		return err
	}
	verb := "Completed"
	if task.Completed {
		verb = "Reopened"
	}
	fmt.Fprintf(a.stdout, "%s %d: %s\n", verb, pos, task.Text)
	return nil
}

// editCommand replaces the text of a task.
func (a *app) editCommand(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: tasks edit <ref> <text...>")
	}
	if err := a.open(); err != nil {
		return err
	}
	pos, task, err := resolveRef(a.store.Tasks(), args[0])
	if err != nil {
		return err
	}

	a.store.StartEdit(task.ID)
	err = a.store.SaveEdit(task.ID, joinArgs(args[1:]))
	if errors.Is(err, todo.ErrEmptyInput) {
		a.store.CancelEdit()
		return fmt.Errorf("task text required")
	}
	if err != nil {
		return err
	}
	updated, _ := a.store.Task(task.ID)
	fmt.Fprintf(a.stdout, "Updated %d: %s\n", pos, updated.Text)
	return nil
}

// rmCommand deletes a task.
func (a *app) rmCommand(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: tasks rm <ref>")
	}
	if err := a.open(); err != nil {
		return err
	}
	pos, task, err := resolveRef(a.store.Tasks(), args[0])
	if err != nil {
		return err
	}
	if err := a.store.Delete(task.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Deleted %d: %s\n", pos, task.Text)
	return nil
}

// themeCommand toggles the theme, or prints it with -show.
func (a *app) themeCommand(args []string) error {
	fs := flag.NewFlagSet("tasks theme", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	show := fs.Bool("show", false, "Print the current theme without changing it")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if err := a.open(); err != nil {
		return err
	}
	if !*show {
		if err := a.store.ToggleTheme(); err != nil {
			return err
		}
	}
	fmt.Fprintf(a.stdout, "Theme: %s\n", themeName(a.store.DarkMode()))
	return nil
}

// remainingCommand prints the number of incomplete tasks.
func (a *app) remainingCommand(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	if err := a.open(); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, a.store.Remaining())
	return nil
}

// resolveRef finds a task by 1-based position or by unique id prefix.
// It returns the task's position along with the task.
func resolveRef(tasks []todo.Task, ref string) (int, todo.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return 0, todo.Task{}, errTaskNotFound
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(tasks) {
			return n, tasks[n-1], nil
		}
	}

	match := -1
	for i, t := range tasks {
		if !strings.HasPrefix(t.ID, ref) {
			continue
		}
		if match >= 0 {
			return 0, todo.Task{}, fmt.Errorf("ambiguous task reference %q", ref)
		}
		match = i
	}
	if match < 0 {
		return 0, todo.Task{}, fmt.Errorf("%w: %s", errTaskNotFound, ref)
	}
	return match + 1, tasks[match], nil
}

func themeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}
