package udf

import "sync"

// Disposable is a handle to a live registration, typically a store
// subscription. Dispose releases it and must be safe to call more than once.
type Disposable interface {
	Dispose()
}

// DisposableFunc adapts a function to Disposable. The function is called on
// every Dispose, so it must be idempotent itself.
type DisposableFunc func()

// Dispose calls f.
func (f DisposableFunc) Dispose() {
	if f != nil {
		f()
	}
}

// onceDisposable wraps a release function so repeated Dispose calls are no-ops.
type onceDisposable struct {
	once    sync.Once
	release func()
}

func newOnceDisposable(release func()) *onceDisposable {
	return &onceDisposable{release: release}
}

func (d *onceDisposable) Dispose() {
	d.once.Do(d.release)
}

// Disposer owns a group of disposables and releases them together.
//
// A Disposer accepts new disposables until it is torn down. Teardown happens
// exactly once and releases every held disposable in registration order.
// Disposables added after teardown are released immediately.
type Disposer struct {
	mu       sync.Mutex
	items    []Disposable
	disposed bool
}

// NewDisposer creates an empty Disposer.
func NewDisposer() *Disposer {
	return &Disposer{}
}

// Add registers d with the disposer. Nil disposables are ignored.
func (d *Disposer) Add(item Disposable) {
	if item == nil {
		return
	}

	d.mu.Lock()
	if d.disposed {
		d.mu.Unlock()
		item.Dispose()
		return
	}
	d.items = append(d.items, item)
	d.mu.Unlock()
}

// Dispose releases all held disposables in the order they were added.
// Subsequent calls do nothing.
func (d *Disposer) Dispose() {
	d.mu.Lock()
	if d.disposed {
		d.mu.Unlock()
		return
	}
	d.disposed = true
	items := d.items
	d.items = nil
	d.mu.Unlock()

	// Released outside the lock: a disposable may add to this disposer.
	for _, item := range items {
		item.Dispose()
	}
}

// Len returns the number of disposables currently held.
func (d *Disposer) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}

// IsDisposed reports whether the disposer has been torn down.
func (d *Disposer) IsDisposed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.disposed
}
