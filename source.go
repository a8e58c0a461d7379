package udf

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// DefaultDebounce is the default debounce duration for source changes.
const DefaultDebounce = 100 * time.Millisecond

// Source feeds an external value into a store as actions.
//
// A Source watches a Watcher, decodes each emission into T, validates it when
// T implements Validator, and dispatches toAction(value). External data
// therefore reaches components the same way any other change does: through
// the reducer and the store's notification pipeline.
//
//	src := udf.NewSource[Settings](
//	    file.New("/etc/app/settings.yaml"),
//	    store,
//	    func(s Settings) udf.Action { return SettingsLoaded{s} },
//	).Codec(udf.YAMLCodec{})
//
//	if err := src.Start(ctx); err != nil {
//	    log.Printf("initial settings rejected: %v", err)
//	}
type Source[T any] struct {
	watcher        Watcher
	dispatcher     ActionDispatcher
	toAction       func(T) Action
	debounce       time.Duration
	startupTimeout time.Duration
	syncMode       bool
	clock          clockz.Clock
	codec          Codec
	metrics        MetricsProvider
	onStop         func(Health)

	health       atomic.Int32
	current      atomic.Pointer[T]
	lastError    atomic.Pointer[error]
	errorHistory *errorRing

	mu      sync.Mutex
	started bool

	// Sync mode only: the watcher channel, drained by Process.
	changes <-chan []byte
}

// NewSource creates a Source dispatching toAction(value) to dispatcher for
// every value watcher produces.
func NewSource[T any](watcher Watcher, dispatcher ActionDispatcher, toAction func(T) Action) *Source[T] {
	s := &Source[T]{
		watcher:    watcher,
		dispatcher: dispatcher,
		toAction:   toAction,
		debounce:   DefaultDebounce,
		clock:      clockz.RealClock,
		codec:      JSONCodec{},
	}
	s.health.Store(int32(HealthLoading))
	return s
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Debounce sets how long the source waits for changes to settle before
// dispatching the latest one. Default: 100ms. Must be called before Start().
func (s *Source[T]) Debounce(d time.Duration) *Source[T] {
	s.debounce = d
	return s
}

// SyncMode disables the background goroutine and debouncing. Start processes
// the initial value only; call Process for each subsequent one.
// Must be called before Start().
func (s *Source[T]) SyncMode() *Source[T] {
	s.syncMode = true
	return s
}

// Clock sets a custom clock for debounce and startup timeout.
// Must be called before Start().
func (s *Source[T]) Clock(clock clockz.Clock) *Source[T] {
	s.clock = clock
	return s
}

// Codec sets the codec used to decode raw data. Default: JSONCodec.
// Must be called before Start().
func (s *Source[T]) Codec(codec Codec) *Source[T] {
	s.codec = codec
	return s
}

// StartupTimeout bounds how long Start waits for the watcher's initial value.
// Default: no timeout. Must be called before Start().
func (s *Source[T]) StartupTimeout(d time.Duration) *Source[T] {
	s.startupTimeout = d
	return s
}

// Metrics sets a metrics provider. Must be called before Start().
func (s *Source[T]) Metrics(provider MetricsProvider) *Source[T] {
	s.metrics = provider
	return s
}

// OnStop sets a callback invoked with the final health when the source stops
// watching. Must be called before Start().
func (s *Source[T]) OnStop(fn func(Health)) *Source[T] {
	s.onStop = fn
	return s
}

// ErrorHistorySize sets the number of recent errors to retain.
// Must be called before Start().
func (s *Source[T]) ErrorHistorySize(n int) *Source[T] {
	s.errorHistory = newErrorRing(n)
	return s
}

// -----------------------------------------------------------------------------
// Accessors
// -----------------------------------------------------------------------------

// Health returns the source's current health.
func (s *Source[T]) Health() Health {
	return Health(s.health.Load())
}

// Current returns the last value the dispatcher accepted and true, or the zero
// value and false if none has been accepted.
func (s *Source[T]) Current() (T, bool) {
	ptr := s.current.Load()
	if ptr == nil {
		var zero T
		return zero, false
	}
	return *ptr, true
}

// LastError returns the last error encountered, or nil after a success.
func (s *Source[T]) LastError() error {
	ptr := s.lastError.Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}

// ErrorHistory returns recent errors, oldest first, or nil if history is
// not enabled.
func (s *Source[T]) ErrorHistory() []error {
	return s.errorHistory.all()
}

// -----------------------------------------------------------------------------
// Lifecycle
// -----------------------------------------------------------------------------

// Start begins watching. It blocks until the initial value has been processed,
// then keeps watching in the background until ctx is canceled or the watcher
// closes. The initial value's error, if any, is returned; watching continues
// regardless. Start can only be called once.
func (s *Source[T]) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.New("source already started")
	}
	s.started = true
	s.mu.Unlock()

	capitan.Emit(ctx, SourceStarted,
		KeyDebounce.Field(s.debounce),
		KeyContentType.Field(s.codec.ContentType()),
	)

	changes, err := s.watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	waitCtx := ctx
	if s.startupTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = s.clock.WithTimeout(ctx, s.startupTimeout)
		defer cancel()
	}

	var initialErr error
	select {
	case <-waitCtx.Done():
		if s.startupTimeout > 0 && errors.Is(waitCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("startup timeout: no initial value within %v", s.startupTimeout)
		}
		return waitCtx.Err()
	case raw, ok := <-changes:
		if !ok {
			return errors.New("watcher closed before emitting initial value")
		}
		s.received(ctx)
		initialErr = s.process(ctx, raw)
	}

	if s.syncMode {
		s.changes = changes
		return initialErr
	}

	go s.watch(ctx, changes)
	return initialErr
}

// Process handles the next pending value in sync mode and reports whether one
// was available. It never blocks and always returns false outside sync mode.
func (s *Source[T]) Process(ctx context.Context) bool {
	if !s.syncMode {
		return false
	}
	select {
	case raw, ok := <-s.changes:
		if !ok {
			return false
		}
		s.received(ctx)
		_ = s.process(ctx, raw) //nolint:errcheck // Errors stored via recordFailure
		return true
	default:
		return false
	}
}

func (s *Source[T]) received(ctx context.Context) {
	capitan.Emit(ctx, SourceChangeReceived)
	if s.metrics != nil {
		s.metrics.OnChangeReceived()
	}
}

// process decodes, validates and dispatches a single value.
func (s *Source[T]) process(ctx context.Context, raw []byte) error {
	old := s.Health()

	var value T
	if err := s.codec.Unmarshal(raw, &value); err != nil {
		s.recordFailure(ctx, old, err)
		capitan.Emit(ctx, SourceDecodeFailed, KeyError.Field(err.Error()))
		return fmt.Errorf("decode failed: %w", err)
	}

	if v, ok := any(value).(Validator); ok {
		if err := v.Validate(); err != nil {
			s.recordFailure(ctx, old, err)
			capitan.Emit(ctx, SourceValidationFailed, KeyError.Field(err.Error()))
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	action := s.toAction(value)
	if err := s.dispatcher.Dispatch(ctx, action); err != nil {
		s.recordFailure(ctx, old, err)
		capitan.Emit(ctx, SourceDispatchFailed,
			KeyAction.Field(actionName(action)),
			KeyError.Field(err.Error()),
		)
		return fmt.Errorf("dispatch failed: %w", err)
	}

	s.current.Store(&value)
	s.lastError.Store(nil)
	s.errorHistory.clear()
	s.transition(ctx, old, HealthHealthy)
	capitan.Emit(ctx, SourceDispatchSucceeded, KeyAction.Field(actionName(action)))
	return nil
}

// recordFailure stores err and moves to degraded, or empty if no value has
// ever been accepted.
func (s *Source[T]) recordFailure(ctx context.Context, old Health, err error) {
	e := err
	s.lastError.Store(&e)
	s.errorHistory.push(err)

	next := HealthDegraded
	if s.current.Load() == nil {
		next = HealthEmpty
	}
	s.transition(ctx, old, next)
}

func (s *Source[T]) transition(ctx context.Context, old, next Health) {
	if old == next {
		return
	}
	s.health.Store(int32(next))
	capitan.Emit(ctx, SourceHealthChanged,
		KeyOldHealth.Field(old.String()),
		KeyNewHealth.Field(next.String()),
	)
	if s.metrics != nil {
		s.metrics.OnHealthChange(old, next)
	}
}

// watch processes changes with debouncing until ctx ends or changes closes.
// Only the latest value received within a debounce window is dispatched.
func (s *Source[T]) watch(ctx context.Context, changes <-chan []byte) {
	defer func() {
		final := s.Health()
		capitan.Emit(ctx, SourceStopped, KeyHealth.Field(final.String()))
		if s.onStop != nil {
			s.onStop(final)
		}
	}()

	var (
		timer   clockz.Timer
		timerC  <-chan time.Time
		pending []byte
		waiting bool
	)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case raw, ok := <-changes:
			if !ok {
				if waiting {
					_ = s.process(ctx, pending) //nolint:errcheck // Errors stored via recordFailure
				}
				return
			}
			s.received(ctx)
			pending, waiting = raw, true

			if timer == nil {
				timer = s.clock.NewTimer(s.debounce)
				timerC = timer.C()
				continue
			}
			if !timer.Stop() {
				select {
				case <-timerC:
				default:
				}
			}
			timer.Reset(s.debounce)

		case <-timerC:
			if waiting {
				_ = s.process(ctx, pending) //nolint:errcheck // Errors stored via recordFailure
				pending, waiting = nil, false
			}
		}
	}
}
