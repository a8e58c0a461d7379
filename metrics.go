package udf

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus, StatsD, etc.
// Stores and Sources accept the same provider; each calls only the methods
// relevant to it.
type MetricsProvider interface {
	// OnDispatchSuccess is called after a store replaces its state and has
	// notified its observers. Duration covers reduce, pipeline and notify.
	OnDispatchSuccess(duration time.Duration, observers int)

	// OnDispatchFailure is called when a store rejects a transition.
	// Stage is "pipeline" or "validate".
	OnDispatchFailure(stage string, duration time.Duration)

	// OnObserversChanged is called whenever a store gains or loses an observer.
	OnObserversChanged(total int)

	// OnHealthChange is called when a Source transitions between health states.
	OnHealthChange(from, to Health)

	// OnChangeReceived is called when a Source receives raw data from its watcher.
	OnChangeReceived()
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnDispatchSuccess(_ time.Duration, _ int)    {}
func (NoOpMetricsProvider) OnDispatchFailure(_ string, _ time.Duration) {}
func (NoOpMetricsProvider) OnObserversChanged(_ int)                    {}
func (NoOpMetricsProvider) OnHealthChange(_, _ Health)                  {}
func (NoOpMetricsProvider) OnChangeReceived()                           {}
