package udf

import "github.com/zoobzio/capitan"

// Field keys for store, component and source events.
var (
	// KeyAction is the dynamic type name of the dispatched action.
	KeyAction = capitan.NewStringKey("action")

	// KeyVersion is the state version a store produced or a component applied.
	KeyVersion = capitan.NewIntKey("version")

	// KeyObservers is the number of registered observers.
	KeyObservers = capitan.NewIntKey("observers")

	// KeyStage is where a rejected transition failed: "pipeline" or "validate".
	KeyStage = capitan.NewStringKey("stage")

	// KeyDuration is how long a dispatch took to reduce, filter and notify.
	KeyDuration = capitan.NewDurationKey("duration")

	// KeyUpdates is the number of props assignments a component has applied.
	KeyUpdates = capitan.NewIntKey("updates")

	// KeyComponent is the name given to a component, if any.
	KeyComponent = capitan.NewStringKey("component")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyHealth is the current health of a Source.
	KeyHealth = capitan.NewStringKey("health")

	// KeyOldHealth is the health before a transition.
	KeyOldHealth = capitan.NewStringKey("old_health")

	// KeyNewHealth is the health after a transition.
	KeyNewHealth = capitan.NewStringKey("new_health")

	// KeyDebounce is the configured debounce duration of a Source.
	KeyDebounce = capitan.NewDurationKey("debounce")

	// KeyContentType is the MIME type of the Source codec.
	KeyContentType = capitan.NewStringKey("content_type")
)
