package udf

import (
	"context"
	"slices"
	"testing"
	"time"
)

// receive reads one value from ch, reporting ok=false if ch is closed.
func receive(t *testing.T, ch <-chan []byte) (string, bool) {
	t.Helper()
	select {
	case v, ok := <-ch:
		return string(v), ok
	case <-time.After(time.Second):
		t.Fatal("timed out waiting on watcher channel")
		return "", false
	}
}

func TestChannelWatcher_RelaysInOrder(t *testing.T) {
	src := make(chan []byte, 3)
	for _, v := range []string{"port: 1", "port: 2", "port: 3"} {
		src <- []byte(v)
	}

	out, err := NewChannelWatcher(src).Watch(context.Background())
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	var got []string
	for range 3 {
		v, ok := receive(t, out)
		if !ok {
			t.Fatal("channel closed early")
		}
		got = append(got, v)
	}
	if !slices.Equal(got, []string{"port: 1", "port: 2", "port: 3"}) {
		t.Errorf("expected values in order, got %v", got)
	}
}

func TestChannelWatcher_ClosesWhenSourceCloses(t *testing.T) {
	src := make(chan []byte, 1)
	src <- []byte("last")
	close(src)

	out, _ := NewChannelWatcher(src).Watch(context.Background())

	if v, ok := receive(t, out); !ok || v != "last" {
		t.Fatalf("expected last value before close, got %q ok=%v", v, ok)
	}
	if _, ok := receive(t, out); ok {
		t.Error("expected channel to close after the source closed")
	}
}

func TestChannelWatcher_StopsOnCancel(t *testing.T) {
	tests := []struct {
		name string
		// pending leaves a value blocked in the relay when set.
		pending bool
	}{
		{name: "idle", pending: false},
		{name: "blocked on send", pending: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := make(chan []byte)
			ctx, cancel := context.WithCancel(context.Background())
			out, _ := NewChannelWatcher(src).Watch(ctx)

			if tt.pending {
				// The relay accepts this value and then blocks on the unread output.
				src <- []byte("unread")
			}
			cancel()

			deadline := time.After(time.Second)
			for {
				select {
				case _, ok := <-out:
					if !ok {
						return
					}
				case <-deadline:
					t.Fatal("relay did not stop after cancel")
				}
			}
		})
	}
}

func TestSyncChannelWatcher_ReturnsSource(t *testing.T) {
	src := make(chan []byte, 1)

	out, err := NewSyncChannelWatcher(src).Watch(context.Background())
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	src <- []byte("direct")
	select {
	case v := <-out:
		if string(v) != "direct" {
			t.Errorf("expected direct, got %s", v)
		}
	default:
		t.Fatal("expected value to be readable without a relay goroutine")
	}
}

func TestChannelWatcher_FeedsSourceIntoStore(t *testing.T) {
	src := make(chan []byte, 1)
	store := NewStore(settings{}, reduceSettings)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := NewSource[settings](NewChannelWatcher(src), store, func(s settings) Action {
		return settingsLoaded{settings: s}
	}).Debounce(time.Millisecond)

	src <- []byte(`{"port": 7000, "host": "relay"}`)
	if err := source.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if got := store.Current(); got.Port != 7000 || got.Host != "relay" {
		t.Errorf("expected {7000 relay}, got %+v", got)
	}
}
