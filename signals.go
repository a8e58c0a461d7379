package udf

import "github.com/zoobzio/capitan"

// Store signals.
var (
	// StoreDispatched is emitted after a new state is stored and observers
	// have been notified.
	StoreDispatched = capitan.NewSignal(
		"udf.store.dispatched",
		"State replaced and observers notified",
	)

	// StoreDispatchRejected is emitted when middleware or validation rejects
	// a transition. The previous state remains current.
	StoreDispatchRejected = capitan.NewSignal(
		"udf.store.dispatch.rejected",
		"Transition rejected, state unchanged",
	)

	// StoreObserverAdded is emitted when an observer registers.
	StoreObserverAdded = capitan.NewSignal(
		"udf.store.observer.added",
		"Observer registered",
	)

	// StoreObserverRemoved is emitted when an observer is disposed.
	StoreObserverRemoved = capitan.NewSignal(
		"udf.store.observer.removed",
		"Observer disposed",
	)
)

// Component signals.
var (
	// ComponentPropsChanged is emitted when a component's props are assigned
	// a value different from the previous one.
	ComponentPropsChanged = capitan.NewSignal(
		"udf.component.props.changed",
		"Component props assigned",
	)

	// ComponentDestroyed is emitted when a component is torn down.
	ComponentDestroyed = capitan.NewSignal(
		"udf.component.destroyed",
		"Component destroyed and subscriptions released",
	)
)

// Source signals.
var (
	// SourceStarted is emitted when a Source begins watching.
	SourceStarted = capitan.NewSignal(
		"udf.source.started",
		"Source watching started",
	)

	// SourceStopped is emitted when a Source stops watching.
	SourceStopped = capitan.NewSignal(
		"udf.source.stopped",
		"Source watching stopped",
	)

	// SourceHealthChanged is emitted when a Source transitions between health states.
	SourceHealthChanged = capitan.NewSignal(
		"udf.source.health.changed",
		"Source health transition",
	)

	// SourceChangeReceived is emitted when raw data arrives from the watcher.
	SourceChangeReceived = capitan.NewSignal(
		"udf.source.change.received",
		"Raw change received from watcher",
	)

	// SourceDecodeFailed is emitted when raw data cannot be decoded.
	SourceDecodeFailed = capitan.NewSignal(
		"udf.source.decode.failed",
		"Decoding failed",
	)

	// SourceValidationFailed is emitted when a decoded value fails validation.
	SourceValidationFailed = capitan.NewSignal(
		"udf.source.validation.failed",
		"Validation failed",
	)

	// SourceDispatchFailed is emitted when the store rejects the source's action.
	SourceDispatchFailed = capitan.NewSignal(
		"udf.source.dispatch.failed",
		"Dispatch failed",
	)

	// SourceDispatchSucceeded is emitted when the source's action is accepted.
	SourceDispatchSucceeded = capitan.NewSignal(
		"udf.source.dispatch.succeeded",
		"Action dispatched",
	)
)
