package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Writer abstracts how patched content reaches its destination.
// This allows the same apply path to serve real runs and dry runs.
type Writer interface {
	// WriteFile replaces the full content of path with data.
	WriteFile(path string, data []byte) error
}

// Reader is implemented by writers that stage content and must serve
// staged content back to later reads of the same path.
type Reader interface {
	ReadFile(path string) ([]byte, error)
}

// FileWriter writes to disk by renaming a temp file over the target,
// keeping the target's permission bits.
type FileWriter struct{}

// NewFile creates a FileWriter.
func NewFile() *FileWriter {
	return &FileWriter{}
}

// WriteFile atomically replaces path with data.
func (w *FileWriter) WriteFile(path string, data []byte) error {
	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".textpatch-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	// Remove is a no-op once the rename has succeeded.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// DryRunWriter records writes in memory and never touches disk.
type DryRunWriter struct {
	mu     sync.Mutex
	staged map[string][]byte
}

// NewDryRun creates an empty DryRunWriter.
func NewDryRun() *DryRunWriter {
	return &DryRunWriter{staged: make(map[string][]byte)}
}

// WriteFile stages data for path.
func (w *DryRunWriter) WriteFile(path string, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.staged[path] = append([]byte(nil), data...)
	return nil
}

// ReadFile returns staged content for path, falling back to disk.
func (w *DryRunWriter) ReadFile(path string) ([]byte, error) {
	w.mu.Lock()
	data, ok := w.staged[path]
	w.mu.Unlock()
	if ok {
		return append([]byte(nil), data...), nil
	}
	return os.ReadFile(path)
}

// Staged returns the content staged for path, if any.
func (w *DryRunWriter) Staged(path string) ([]byte, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	data, ok := w.staged[path]
	return data, ok
}

// Paths returns every staged path in sorted order.
func (w *DryRunWriter) Paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	paths := make([]string, 0, len(w.staged))
	for p := range w.staged {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
