package udf

import (
	"context"
	"weak"
)

// Field projects one part of a state value, the way a struct field selector
// would: func(s App) int { return s.Count }.
type Field[S, F any] func(state S) F

// Connect binds c to store. It is the general form every other Connect
// function is built on.
//
// On each state the store emits, and once immediately with the current state,
// the component's executor runs:
//
//	props := stateToProps(transform(state), store)
//
// and assigns props if it differs from the component's current props.
// The dispatcher passed to stateToProps queues actions behind the running
// dispatch instead of waiting for them. The
// subscription is registered with the component's disposer; the returned
// Disposable may be used to end this one subscription early.
//
// The subscription refers to c weakly. Notifications for a destroyed or
// collected component are skipped.
func Connect[S, C, P any](
	c *Component[P],
	store *Store[S],
	transform func(S) C,
	stateToProps func(C, ActionDispatcher) P,
) Disposable {
	ref := weak.Make(c)
	sub := store.Observe(c.exec, func(ctx context.Context, state S) {
		target := ref.Value()
		if target == nil || target.destroyed.Load() {
			return
		}
		target.assign(ctx, stateToProps(transform(state), store.queued))
	})
	c.disposer.Add(sub)
	return sub
}

// ConnectState binds c to store when the props are the store's state itself.
func ConnectState[S any](c *Component[S], store *Store[S]) Disposable {
	return Connect[S, S, S](c, store, identity[S], func(state S, _ ActionDispatcher) S {
		return state
	})
}

// ConnectProps binds c to store, deriving props from the whole state.
func ConnectProps[S, P any](c *Component[P], store *Store[S], stateToProps func(S, ActionDispatcher) P) Disposable {
	return Connect[S, S, P](c, store, identity[S], stateToProps)
}

// ConnectField binds c to one projected field of the store's state.
//
//	udf.ConnectField(c, store,
//	    func(s App) int { return s.Count },
//	    func(n int, _ udf.ActionDispatcher) string { return strconv.Itoa(n) },
//	)
func ConnectField[S, F, P any](c *Component[P], store *Store[S], field Field[S, F], stateToProps func(F, ActionDispatcher) P) Disposable {
	return Connect[S, F, P](c, store, field, stateToProps)
}

// ConnectBy binds c to store using connector over the whole state.
//
// A type that embeds *Component[P] and implements Connector[S, P] connects
// itself with ConnectBy(v.Component, store, v). Such a connector refers to
// the component strongly, so the subscription lasts until Destroy.
func ConnectBy[S, P any](c *Component[P], store *Store[S], connector Connector[S, P]) Disposable {
	return Connect[S, S, P](c, store, identity[S], connector.StateToProps)
}

// ConnectByField binds c to store using connector over one projected field.
func ConnectByField[S, F, P any](c *Component[P], store *Store[S], connector Connector[F, P], field Field[S, F]) Disposable {
	return Connect[S, F, P](c, store, field, connector.StateToProps)
}

// ConnectThrough binds c to store using connector over a transformed state.
func ConnectThrough[S, C, P any](c *Component[P], store *Store[S], connector Connector[C, P], transform func(S) C) Disposable {
	return Connect[S, C, P](c, store, transform, connector.StateToProps)
}

func identity[S any](state S) S {
	return state
}
