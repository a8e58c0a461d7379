package file

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zoobzio/udf"
)

func TestNew(t *testing.T) {
	watcher := New("/path/to/state.json")
	if watcher == nil {
		t.Fatal("expected non-nil watcher")
	}
	if watcher.path != "/path/to/state.json" {
		t.Errorf("expected path '/path/to/state.json', got %q", watcher.path)
	}
}

func TestWatcher_Watch_EmitsInitialContents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")

	content := []byte(`{"count": 1}`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	ch, err := New(path).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	select {
	case data := <-ch:
		if !bytes.Equal(data, content) {
			t.Errorf("expected %q, got %q", content, data)
		}
	case <-ctx.Done():
		t.Fatal("timeout waiting for initial content")
	}
}

func TestWatcher_Watch_NonexistentFile(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := New("/nonexistent/path/state.json").Watch(ctx); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestWatcher_Watch_ClosesOnContextCancel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := New(path).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	<-ch

	cancel()

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("timeout waiting for channel to close")
		}
	}
}

func TestWatcher_Watch_EmitsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	if err := os.WriteFile(path, []byte(`{"count": 1}`), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ch, err := New(path).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	<-ch

	if err := os.WriteFile(path, []byte(`{"count": 2}`), 0o600); err != nil {
		t.Fatalf("failed to update file: %v", err)
	}

	// A rewrite may surface as a truncate followed by a write.
	for {
		select {
		case data := <-ch:
			if string(data) == `{"count": 2}` {
				return
			}
		case <-ctx.Done():
			t.Fatal("timeout waiting for file update")
		}
	}
}

func TestWatcher_Watch_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	if err := os.WriteFile(path, []byte(`{"count": 1}`), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := New(path).Watch(ctx)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	<-ch

	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0o600); err != nil {
		t.Fatalf("failed to write sibling: %v", err)
	}

	select {
	case data := <-ch:
		t.Errorf("unexpected emission %q for sibling write", data)
	case <-time.After(200 * time.Millisecond):
	}
}

type counter struct {
	Count int `json:"count"`
}

type setCount struct{ n int }

func TestWatcher_FeedsStoreThroughSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	if err := os.WriteFile(path, []byte(`{"count": 7}`), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	store := udf.NewStore(counter{}, func(s counter, a udf.Action) counter {
		if set, ok := a.(setCount); ok {
			s.Count = set.n
		}
		return s
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := udf.NewSource[counter](New(path), store, func(c counter) udf.Action {
		return setCount{n: c.Count}
	}).Debounce(10 * time.Millisecond)

	if err := src.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if got := store.Current().Count; got != 7 {
		t.Fatalf("expected count 7 after start, got %d", got)
	}

	if err := os.WriteFile(path, []byte(`{"count": 9}`), 0o600); err != nil {
		t.Fatalf("failed to update file: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if store.Current().Count == 9 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected count 9 after write, got %d", store.Current().Count)
}
