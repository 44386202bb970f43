// Package storage provides durable key-value storage with string values.
package storage

import (
	"fmt"
	"sort"
	"strings"
)

// Well-known keys.
const (
	KeyTodos    = "todos"
	KeyDarkMode = "darkMode"
)

// Storage is a key-value store with string values.
//
// Get reports ok=false and a nil error when the key is absent.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Memory is an in-memory Storage. The zero value is ready to use.
type Memory struct {
	values map[string]string
	// FailWrites makes every Set return an error. Used in tests.
	FailWrites bool
}

// NewMemory returns a Memory pre-populated with values.
func NewMemory(values map[string]string) *Memory {
	m := &Memory{values: make(map[string]string, len(values))}
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

// Get returns the value stored under key.
func (m *Memory) Get(key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}
	v, ok := m.values[key]
	return v, ok, nil
}

// Set stores value under key.
func (m *Memory) Set(key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if m.FailWrites {
		return fmt.Errorf("write %s: storage is read-only", key)
	}
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}

// Keys returns the stored keys in sorted order.
func (m *Memory) Keys() []string {
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("storage key is empty")
	}
	if strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}
