package watcher

import (
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// TargetWatcher wraps fsnotify and maps watched files to the patches that target them.
// Parent directories are watched rather than the files themselves, because
// editors and formatters commonly replace files by rename, which drops a
// watch placed on the file inode.
type TargetWatcher struct {
	*fsnotify.Watcher
	targets map[string][]string
	dirs    map[string]bool
	mu      sync.RWMutex
}

// New creates a new TargetWatcher
func New() (*TargetWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &TargetWatcher{
		Watcher: w,
		targets: make(map[string][]string),
		dirs:    make(map[string]bool),
	}, nil
}

// AddTarget registers path as the target of patchName and watches its directory.
func (w *TargetWatcher) AddTarget(path, patchName string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.dirs[dir] {
		if err := w.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = true
	}
	for _, name := range w.targets[abs] {
		if name == patchName {
			return nil
		}
	}
	w.targets[abs] = append(w.targets[abs], patchName)
	return nil
}

// PatchesFor returns the names of patches targeting path.
func (w *TargetWatcher) PatchesFor(path string) []string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	names := w.targets[abs]
	return append([]string(nil), names...)
}

// Targets returns every watched target path in sorted order.
func (w *TargetWatcher) Targets() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]string, 0, len(w.targets))
	for p := range w.targets {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// IsContentEvent reports whether event may have changed a file's content.
func IsContentEvent(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Rename) ||
		event.Has(fsnotify.Remove)
}
