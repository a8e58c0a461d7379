package udf

import "context"

// Action is an opaque request to change state. The store never inspects it;
// only the reducer does.
type Action any

// ActionDispatcher submits actions to a store without exposing its internals.
// It is handed to connectors and side effects so they can originate actions.
type ActionDispatcher interface {
	Dispatch(ctx context.Context, action Action) error
}

// DispatcherFunc adapts a function to ActionDispatcher.
type DispatcherFunc func(ctx context.Context, action Action) error

// Dispatch calls f(ctx, action).
func (f DispatcherFunc) Dispatch(ctx context.Context, action Action) error {
	return f(ctx, action)
}

// Reducer produces the next state from the current state and an action.
// Reducers must be pure and must not mutate the state they receive.
type Reducer[S any] func(state S, action Action) S

// Validator is implemented by state and source value types that can check
// their own consistency. A store rejects any transition whose new state fails
// validation; a Source refuses to dispatch an invalid value.
type Validator interface {
	Validate() error
}
