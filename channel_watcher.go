package udf

import "context"

// ChannelWatcher adapts an existing byte channel to Watcher.
// Useful in tests and for sources that already produce bytes.
type ChannelWatcher struct {
	src     <-chan []byte
	forward bool
}

// NewChannelWatcher creates a ChannelWatcher that relays values from src
// through its own goroutine and stops relaying when the Watch context ends.
func NewChannelWatcher(src <-chan []byte) *ChannelWatcher {
	return &ChannelWatcher{src: src, forward: true}
}

// NewSyncChannelWatcher creates a ChannelWatcher whose Watch returns src
// itself. Pair it with Source.SyncMode for deterministic tests.
func NewSyncChannelWatcher(src <-chan []byte) *ChannelWatcher {
	return &ChannelWatcher{src: src}
}

// Watch returns a channel carrying the values of the wrapped channel.
func (w *ChannelWatcher) Watch(ctx context.Context) (<-chan []byte, error) {
	if !w.forward {
		return w.src, nil
	}

	out := make(chan []byte)
	go relay(ctx, w.src, out)
	return out, nil
}

func relay(ctx context.Context, in <-chan []byte, out chan<- []byte) {
	defer close(out)
	for {
		var (
			v  []byte
			ok bool
		)
		select {
		case <-ctx.Done():
			return
		case v, ok = <-in:
			if !ok {
				return
			}
		}
		select {
		case out <- v:
		case <-ctx.Done():
			return
		}
	}
}
