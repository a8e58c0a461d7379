// Package file provides a udf.Watcher that emits a file's contents whenever
// the file is written, using fsnotify.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a single file.
type Watcher struct {
	path string
}

// New creates a Watcher for the file at path.
func New(path string) *Watcher {
	return &Watcher{path: path}
}

// Watch emits the file's current contents, then its contents after every
// write or create event. The directory is watched rather than the file so
// editors that replace the file by rename keep being observed.
func (w *Watcher) Watch(ctx context.Context) (<-chan []byte, error) {
	if _, err := os.Stat(w.path); err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", w.path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", w.path, err)
	}

	out := make(chan []byte)
	go w.run(ctx, fsw, out)
	return out, nil
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher, out chan<- []byte) {
	defer close(out)
	defer fsw.Close()

	target := filepath.Clean(w.path)
	emit := func() bool {
		data, err := os.ReadFile(w.path)
		if err != nil {
			return true
		}
		select {
		case out <- data:
			return true
		case <-ctx.Done():
			return false
		}
	}

	if !emit() {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !emit() {
				return
			}

		case _, ok := <-fsw.Errors:
			if !ok {
				return
			}
		}
	}
}
