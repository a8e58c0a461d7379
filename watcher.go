package udf

import "context"

// Watcher observes an external source and emits its raw contents.
// Implementations must emit the current contents immediately when Watch is
// called, so a Source can dispatch an initial action without waiting for the
// first change.
type Watcher interface {
	// Watch begins observing and returns a channel of raw contents. The
	// channel is closed when ctx is canceled or the source fails for good.
	Watch(ctx context.Context) (<-chan []byte, error)
}
