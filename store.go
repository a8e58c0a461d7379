package udf

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/pipz"
)

// EffectHandler maps a committed transition to follow-up work. It runs after
// every observer has been notified; returning nil means no effect.
type EffectHandler[S any] func(prev, curr S, action Action) SideEffect

// Store is the single source of truth for a state value of type S.
//
// State is replaced wholesale on every dispatch and handed to observers by
// value; neither the store nor its observers mutate it afterwards. Dispatch is
// serialized: actions submitted while another dispatch is running (from an
// observer, a side effect, or another goroutine) are queued and processed in
// submission order by the goroutine already draining the queue.
// Other goroutines wait for their own action's outcome.
type Store[S any] struct {
	reducer      Reducer[S]
	pipeline     pipz.Chainable[*Transition[S]]
	effects      EffectHandler[S]
	clock        clockz.Clock
	metrics      MetricsProvider
	errorHistory *errorRing
	lastError    atomic.Pointer[error]

	mu        sync.Mutex
	state     S
	version   uint64
	observers []*observer[S]
	pending   []pendingDispatch
	draining  bool
	queued    ActionDispatcher
}

// ErrDispatchPanicked is returned to a caller waiting on an action whose
// processing panicked on another goroutine.
var ErrDispatchPanicked = errors.New("dispatch panicked")

// errHandoff tells a waiting caller to take over the queue.
var errHandoff = errors.New("drain handoff")

// drainKey marks the context of a running dispatch, per store.
type drainKey struct{ store any }

type pendingDispatch struct {
	ctx    context.Context
	action Action
	done   chan error // nil for re-entrant dispatches
}

// NewStore creates a Store holding initial and reducing actions with reducer.
//
// Pipeline options (With*) add middleware that runs between the reducer and
// the commit. Instance configuration uses chainable methods.
//
// Example:
//
//	store := udf.NewStore(Counter{}, func(s Counter, a udf.Action) Counter {
//	    if _, ok := a.(Increment); ok {
//	        s.Count++
//	    }
//	    return s
//	}).Effects(func(prev, curr Counter, _ udf.Action) udf.SideEffect {
//	    if curr.Count >= 10 && prev.Count < 10 {
//	        return udf.Dispatch(Celebrate{})
//	    }
//	    return nil
//	})
func NewStore[S any](initial S, reducer Reducer[S], opts ...Option[S]) *Store[S] {
	terminal := pipz.Transform(terminalID, func(_ context.Context, t *Transition[S]) *Transition[S] {
		return t
	})

	s := &Store[S]{
		reducer:  reducer,
		pipeline: buildPipeline(terminal, opts),
		clock:    clockz.RealClock,
		state:    initial,
		version:  1,
	}
	s.queued = DispatcherFunc(func(ctx context.Context, action Action) error {
		return s.Dispatch(s.reentrant(ctx), action)
	})
	return s
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Clock sets the clock used to time dispatches.
// Must be called before the store is shared.
func (s *Store[S]) Clock(clock clockz.Clock) *Store[S] {
	s.clock = clock
	return s
}

// Metrics sets a metrics provider for observability integration.
// Must be called before the store is shared.
func (s *Store[S]) Metrics(provider MetricsProvider) *Store[S] {
	s.metrics = provider
	return s
}

// ErrorHistorySize sets the number of recent rejection errors to retain.
// Use 0 (default) to only retain the most recent error via LastError().
// Must be called before the store is shared.
func (s *Store[S]) ErrorHistorySize(n int) *Store[S] {
	s.errorHistory = newErrorRing(n)
	return s
}

// Effects sets the handler that turns committed transitions into side
// effects. Effects execute with a dispatcher into this store that queues
// actions behind the current one without waiting for them.
// Must be called before the store is shared.
func (s *Store[S]) Effects(fn EffectHandler[S]) *Store[S] {
	s.effects = fn
	return s
}

// -----------------------------------------------------------------------------
// Accessors
// -----------------------------------------------------------------------------

// Current returns the latest committed state.
func (s *Store[S]) Current() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Version returns the version of the latest committed state. The initial
// state is version 1 and every committed dispatch increments it.
func (s *Store[S]) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Observers returns the number of registered observers.
func (s *Store[S]) Observers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers)
}

// LastError returns the error of the last rejected transition, or nil if the
// most recent transition was committed.
func (s *Store[S]) LastError() error {
	ptr := s.lastError.Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}

// ErrorHistory returns recent rejection errors, oldest first.
// Returns nil if error history is not enabled (see ErrorHistorySize).
func (s *Store[S]) ErrorHistory() []error {
	return s.errorHistory.all()
}

// -----------------------------------------------------------------------------
// Dispatch
// -----------------------------------------------------------------------------

// Dispatch reduces action into a new state and notifies every observer, and
// returns the error of action itself.
//
// Dispatch is serialized. If no dispatch is running, the calling goroutine
// processes the queue, action included. A call from another goroutine while a
// dispatch is running queues action and waits until it has been processed.
//
// A call made from inside the running dispatch is queued behind the current
// action and returns nil at once; its outcome is reported through LastError,
// ErrorHistory and StoreDispatchRejected. Such calls are recognized by the ctx
// handed to observers, OnChange callbacks and side effects, and by the
// dispatcher handed to stateToProps. Code running inside a dispatch must
// dispatch with that ctx or dispatcher; any other ctx waits for a dispatch
// that cannot finish.
//
// A panic raised by an observer running on Immediate propagates to the
// goroutine processing the queue. A caller waiting on the panicking action
// receives ErrDispatchPanicked. The next waiting caller takes over the rest
// of the queue; with no caller waiting, queued re-entrant actions stay
// pending until the next Dispatch.
func (s *Store[S]) Dispatch(ctx context.Context, action Action) error {
	s.mu.Lock()
	if s.draining && ctx.Value(drainKey{s}) != nil {
		s.pending = append(s.pending, pendingDispatch{ctx: ctx, action: action})
		s.mu.Unlock()
		return nil
	}
	done := make(chan error, 1)
	s.pending = append(s.pending, pendingDispatch{ctx: ctx, action: action, done: done})
	owner := !s.draining
	s.draining = true
	s.mu.Unlock()

	if owner {
		s.drain(done)
	}
	for {
		err := <-done
		if err != errHandoff {
			return err
		}
		s.drain(done)
	}
}

// drain processes queued actions until the queue is empty. The caller must
// have set draining; own is the caller's result channel.
func (s *Store[S]) drain(own chan error) {
	var (
		current  pendingDispatch
		finished bool
	)
	defer func() {
		if !finished {
			s.handoff(current, own)
		}
	}()

	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.draining = false
			s.mu.Unlock()
			finished = true
			return
		}
		current = s.pending[0]
		s.pending[0] = pendingDispatch{}
		s.pending = s.pending[1:]
		s.mu.Unlock()

		err := s.apply(s.reentrant(current.ctx), current.action)
		if current.done != nil {
			current.done <- err
		}
	}
}

// handoff runs while a drain unwinds from a panic. It fails the panicking
// action's waiter and passes the queue to the next waiting caller.
func (s *Store[S]) handoff(panicked pendingDispatch, own chan error) {
	if panicked.done != nil {
		panicked.done <- ErrDispatchPanicked
	}

	s.mu.Lock()
	// The unwinding caller is gone; its action stays queued without a waiter.
	for i := range s.pending {
		if s.pending[i].done == own {
			s.pending[i].done = nil
		}
	}
	i := slices.IndexFunc(s.pending, func(p pendingDispatch) bool { return p.done != nil })
	if i < 0 {
		s.draining = false
		s.mu.Unlock()
		return
	}
	next := s.pending[i].done
	s.mu.Unlock()

	next <- errHandoff
}

// reentrant marks ctx as belonging to this store's running dispatch.
func (s *Store[S]) reentrant(ctx context.Context) context.Context {
	return context.WithValue(ctx, drainKey{s}, struct{}{})
}

// apply runs one action through reduce, pipeline, validation, commit, notify
// and effects.
func (s *Store[S]) apply(ctx context.Context, action Action) error {
	start := s.clock.Now()
	prev := s.Current()

	req := &Transition[S]{Action: action, Previous: prev, Current: s.reducer(prev, action)}
	processed, err := s.pipeline.Process(ctx, req)
	if err != nil {
		return s.reject(ctx, action, "pipeline", start, err)
	}
	next := processed.Current

	if v, ok := any(next).(Validator); ok {
		if err := v.Validate(); err != nil {
			return s.reject(ctx, action, "validate", start, err)
		}
	}

	s.mu.Lock()
	s.state = next
	s.version++
	version := s.version
	observers := slices.Clone(s.observers)
	s.mu.Unlock()

	s.lastError.Store(nil)
	s.errorHistory.clear()

	for _, o := range observers {
		o.deliver(ctx, next, version)
	}

	duration := s.clock.Since(start)
	capitan.Emit(ctx, StoreDispatched,
		KeyAction.Field(actionName(action)),
		KeyVersion.Field(int(version)),
		KeyObservers.Field(len(observers)),
		KeyDuration.Field(duration),
	)
	if s.metrics != nil {
		s.metrics.OnDispatchSuccess(duration, len(observers))
	}

	if s.effects != nil {
		if effect := s.effects(prev, next, action); !isNilEffect(effect) {
			effect.Execute(ctx, s.queued)
		}
	}
	return nil
}

// reject records a failed transition and returns the wrapped error.
func (s *Store[S]) reject(ctx context.Context, action Action, stage string, start time.Time, err error) error {
	e := err
	s.lastError.Store(&e)
	s.errorHistory.push(err)

	capitan.Emit(ctx, StoreDispatchRejected,
		KeyAction.Field(actionName(action)),
		KeyStage.Field(stage),
		KeyError.Field(err.Error()),
	)
	if s.metrics != nil {
		s.metrics.OnDispatchFailure(stage, s.clock.Since(start))
	}
	return fmt.Errorf("%s failed: %w", stage, err)
}

// -----------------------------------------------------------------------------
// Observation
// -----------------------------------------------------------------------------

// Observe registers handler to receive every future state on exec, and
// delivers the current state immediately so the observer never waits for the
// next dispatch to initialise. A nil exec means Immediate.
//
// Each delivery carries the state version; the handler never sees a version
// older than one it has already seen, and never runs after the returned
// Disposable is disposed, even if a delivery was already scheduled.
func (s *Store[S]) Observe(exec Executor, handler func(ctx context.Context, state S)) Disposable {
	if exec == nil {
		exec = Immediate
	}
	o := &observer[S]{exec: exec, handler: handler}

	s.mu.Lock()
	s.observers = append(s.observers, o)
	state, version, total := s.state, s.version, len(s.observers)
	s.mu.Unlock()

	ctx := context.Background()
	capitan.Emit(ctx, StoreObserverAdded, KeyObservers.Field(total))
	if s.metrics != nil {
		s.metrics.OnObserversChanged(total)
	}

	o.deliver(ctx, state, version)

	return newOnceDisposable(func() { s.remove(o) })
}

func (s *Store[S]) remove(o *observer[S]) {
	o.disposed.Store(true)

	s.mu.Lock()
	s.observers = slices.DeleteFunc(s.observers, func(x *observer[S]) bool { return x == o })
	total := len(s.observers)
	s.mu.Unlock()

	capitan.Emit(context.Background(), StoreObserverRemoved, KeyObservers.Field(total))
	if s.metrics != nil {
		s.metrics.OnObserversChanged(total)
	}
}

// observer is one registration on a store.
type observer[S any] struct {
	exec     Executor
	handler  func(context.Context, S)
	disposed atomic.Bool
	last     atomic.Uint64
}

// deliver schedules handler on the observer's executor. The disposed and
// version checks run on the executor, at delivery time.
func (o *observer[S]) deliver(ctx context.Context, state S, version uint64) {
	o.exec.Execute(func() {
		if o.disposed.Load() {
			return
		}
		if !o.advance(version) {
			return
		}
		o.handler(ctx, state)
	})
}

// advance records version as delivered, reporting false if it is not newer
// than the last delivered version.
func (o *observer[S]) advance(version uint64) bool {
	for {
		last := o.last.Load()
		if version <= last {
			return false
		}
		if o.last.CompareAndSwap(last, version) {
			return true
		}
	}
}

func actionName(action Action) string {
	if action == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%T", action)
}
