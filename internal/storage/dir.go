package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"
)

const (
	fileExt      = ".json"
	lockFileName = ".lock"
)

// Dir is a Storage that keeps each key in its own file, <dir>/<key>.json.
//
// Reads and writes hold an advisory lock on <dir>/.lock so that separate
// processes sharing the directory never observe a half-written value.
// Writes go to a temporary file that is renamed into place.
type Dir struct {
	path string
	lock *flock.Flock
}

// OpenDir opens (and creates if needed) a directory store.
func OpenDir(path string) (*Dir, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("data dir is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Dir{
		path: abs,
		lock: flock.New(filepath.Join(abs, lockFileName)),
	}, nil
}

// Path returns the absolute directory path.
func (d *Dir) Path() string {
	return d.path
}

// KeyPath returns the file that holds key.
func (d *Dir) KeyPath(key string) string {
	return filepath.Join(d.path, key+fileExt)
}

// Get reads the value stored under key.
func (d *Dir) Get(key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}
	if err := d.lock.RLock(); err != nil {
		return "", false, fmt.Errorf("lock data dir: %w", err)
	}
	defer func() { _ = d.lock.Unlock() }()

	data, err := os.ReadFile(d.KeyPath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return strings.TrimSuffix(string(data), "\n"), true, nil
}

// Set writes value under key, replacing the previous value atomically.
func (d *Dir) Set(key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := d.lock.Lock(); err != nil {
		return fmt.Errorf("lock data dir: %w", err)
	}
	defer func() { _ = d.lock.Unlock() }()

	target := d.KeyPath(key)
	tmp, err := os.CreateTemp(d.path, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", key, err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	// Trailing newline, like every other file we write.
	if _, err := tmp.WriteString(value + "\n"); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", key, err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}

// Keys lists the keys present in the directory, sorted.
func (d *Dir) Keys() ([]string, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}
	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, fileExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, fileExt))
	}
	sort.Strings(keys)
	return keys, nil
}
