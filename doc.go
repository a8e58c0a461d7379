// Package udf provides unidirectional state propagation primitives.
//
// A Store holds one state value and replaces it wholesale on every dispatched
// action. Components derive their own props from that state through a
// transform → stateToProps → equality chain, and are updated only when the
// derived props actually change. Side effects turn committed transitions into
// further actions.
//
// # Store
//
// A Store reduces actions into new states and notifies observers:
//
//	Dispatch → Reduce → Pipeline → Validate → Commit → Notify → Effects
//
// Dispatch is serialized. An action dispatched while another is being
// processed is queued and handled after the current one, so observers always
// see states in commit order. Another goroutine waits for its own action's
// result. An observer, OnChange callback or side effect dispatching with the
// ctx it was given does not wait, so re-entrant dispatch cannot deadlock.
//
// # Components
//
// Connect is the general binding; ConnectState, ConnectProps, ConnectField,
// ConnectBy, ConnectByField and ConnectThrough are shorthands for common
// shapes of transform and stateToProps:
//
//	type Counter struct {
//	    Count int
//	    Label string
//	}
//
//	store := udf.NewStore(Counter{}, reduce)
//	badge := udf.NewComponent[string](queue).OnChange(func(_ context.Context, _, curr string) {
//	    render(curr)
//	})
//	udf.ConnectField(badge, store,
//	    func(s Counter) int { return s.Count },
//	    func(n int, _ udf.ActionDispatcher) string { return strconv.Itoa(n) },
//	)
//
// Each component runs its pipeline on its own Executor: Immediate for the
// dispatching goroutine, or a SerialQueue for a dedicated one. Subscriptions
// belong to the component's Disposer and end when the component is destroyed
// or garbage collected.
//
// # Side effects
//
// SideEffect values are composable units of follow-up work:
//
//	store.Effects(func(prev, curr Counter, _ udf.Action) udf.SideEffect {
//	    return udf.Combine(logChange(prev, curr), maybeReset(curr))
//	})
//
// # Sources
//
// A Source feeds values from a Watcher into a store as actions, decoding with
// a Codec and validating values that implement Validator. pkg/file provides
// a file Watcher built on fsnotify.
//
// # Observability
//
// Stores, components and sources emit capitan signals (see signals.go) and
// accept a MetricsProvider.
package udf
