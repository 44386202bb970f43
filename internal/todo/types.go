package todo

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrEmptyInput is returned when task text is empty after trimming.
var ErrEmptyInput = errors.New("task text is empty")

// Task represents a single entry in the task list.
type Task struct {
	ID        string     `json:"id" yaml:"id" toml:"id"`
	Text      string     `json:"text" yaml:"text" toml:"text"`
	Completed bool       `json:"completed" yaml:"completed" toml:"completed"`
	CreatedAt time.Time  `json:"createdAt" yaml:"createdAt" toml:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty" toml:"updatedAt,omitempty"`
}

// clone returns a copy of t that shares no memory with it.
func (t Task) clone() Task {
	if t.UpdatedAt != nil {
		at := *t.UpdatedAt
		t.UpdatedAt = &at
	}
	return t
}

// cleanText trims text and reports whether anything is left.
func cleanText(text string) (string, bool) {
	text = strings.TrimSpace(text)
	return text, text != ""
}

// Equal reports whether two tasks hold the same values.
func (t Task) Equal(other Task) bool {
	if t.ID != other.ID || t.Text != other.Text || t.Completed != other.Completed {
		return false
	}
	if !t.CreatedAt.Equal(other.CreatedAt) {
		return false
	}
	switch {
	case t.UpdatedAt == nil && other.UpdatedAt == nil:
		return true
	case t.UpdatedAt == nil || other.UpdatedAt == nil:
		return false
	}
	return t.UpdatedAt.Equal(*other.UpdatedAt)
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // dot path to the error location, e.g. "[2].text"
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// EncodeTasks serializes tasks as a JSON array. A nil slice encodes as [].
func EncodeTasks(tasks []Task) (string, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("marshal tasks: %w", err)
	}
	return string(data), nil
}

// DecodeTasks parses and validates a todos document.
func DecodeTasks(doc string) ([]Task, error) {
	if errs := ValidateDocument([]byte(doc)); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	var tasks []Task
	if err := json.Unmarshal([]byte(doc), &tasks); err != nil {
		return nil, fmt.Errorf("parse todos: %w", err)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// EncodeDarkMode serializes the theme flag as a JSON boolean.
func EncodeDarkMode(dark bool) string {
	if dark {
		return "true"
	}
	return "false"
}

// DecodeDarkMode parses a JSON boolean.
func DecodeDarkMode(doc string) (bool, error) {
	var dark bool
	if err := json.Unmarshal([]byte(doc), &dark); err != nil {
		return false, fmt.Errorf("parse darkMode: %w", err)
	}
	return dark, nil
}
