package udf

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/zoobzio/capitan"
)

// Component binds a props value of type P to one or more stores.
//
// Props change only through the connect pipeline, on the component's
// executor, and only when the derived value differs from the current one.
// A UI layer listens for those assignments with OnChange. Subscriptions hold
// the component weakly: dropping the last reference to a Component releases
// its subscriptions once it is collected, and Destroy releases them at once.
type Component[P any] struct {
	name     string
	exec     Executor
	equal    func(a, b P) bool
	onChange func(ctx context.Context, prev, curr P)
	disposer *Disposer

	mu       sync.RWMutex
	props    P
	hasProps bool

	updates   atomic.Uint64
	destroyed atomic.Bool
}

// NewComponent creates a component whose props are compared with ==.
// Notifications run on exec; nil means Immediate.
func NewComponent[P comparable](exec Executor) *Component[P] {
	return NewComponentFunc(exec, func(a, b P) bool { return a == b })
}

// NewComponentFunc creates a component whose props are compared with equal,
// for props types that are not comparable.
//
//	c := udf.NewComponentFunc(queue, slices.Equal[[]string])
func NewComponentFunc[P any](exec Executor, equal func(a, b P) bool) *Component[P] {
	if exec == nil {
		exec = Immediate
	}
	c := &Component[P]{
		exec:     exec,
		equal:    equal,
		disposer: NewDisposer(),
	}
	runtime.AddCleanup(c, func(d *Disposer) { d.Dispose() }, c.disposer)
	return c
}

// Named sets the name reported in component signals.
// Must be called before the component is connected.
func (c *Component[P]) Named(name string) *Component[P] {
	c.name = name
	return c
}

// OnChange sets the function called after every props assignment, on the
// component's executor. It is not called when an update is suppressed.
// Actions dispatched from fn should use ctx, which marks them as re-entrant.
// Must be called before the component is connected.
func (c *Component[P]) OnChange(fn func(ctx context.Context, prev, curr P)) *Component[P] {
	c.onChange = fn
	return c
}

// Props returns the current props and whether any have been assigned yet.
func (c *Component[P]) Props() (P, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.props, c.hasProps
}

// Updates returns how many times props have been assigned.
func (c *Component[P]) Updates() uint64 {
	return c.updates.Load()
}

// Executor returns the execution context the component's pipeline runs on.
func (c *Component[P]) Executor() Executor {
	return c.exec
}

// Disposer returns the disposer owning the component's subscriptions.
func (c *Component[P]) Disposer() *Disposer {
	return c.disposer
}

// Destroy releases every subscription and stops all further updates.
// Later calls do nothing.
func (c *Component[P]) Destroy() {
	if !c.destroyed.CompareAndSwap(false, true) {
		return
	}
	c.disposer.Dispose()
	capitan.Emit(context.Background(), ComponentDestroyed,
		KeyComponent.Field(c.name),
	)
}

// IsDestroyed reports whether Destroy has been called.
func (c *Component[P]) IsDestroyed() bool {
	return c.destroyed.Load()
}

// assign stores candidate unless it equals the current props.
func (c *Component[P]) assign(ctx context.Context, candidate P) {
	c.mu.Lock()
	if c.hasProps && c.equal(c.props, candidate) {
		c.mu.Unlock()
		return
	}
	prev := c.props
	c.props = candidate
	c.hasProps = true
	c.mu.Unlock()

	n := c.updates.Add(1)
	capitan.Emit(ctx, ComponentPropsChanged,
		KeyComponent.Field(c.name),
		KeyUpdates.Field(int(n)),
	)
	if c.onChange != nil {
		c.onChange(ctx, prev, candidate)
	}
}
