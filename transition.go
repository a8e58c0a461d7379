package udf

// Transition carries one state change through a store's middleware pipeline.
// Middleware may inspect the action, compare Previous and Current, replace
// Current, or fail to reject the change entirely.
type Transition[S any] struct {
	// Action is the action that produced this transition.
	Action Action

	// Previous is the state before the reducer ran.
	Previous S

	// Current is the reducer's output. Whatever value remains here after the
	// pipeline runs becomes the store's new state.
	Current S
}
