package udf

import (
	"context"
	"reflect"
	"slices"
)

// SideEffect is deferred work performed against a dispatcher after a state
// transition. An effect may dispatch further actions.
type SideEffect interface {
	Execute(ctx context.Context, dispatcher ActionDispatcher)
}

// SideEffectFunc adapts a function to SideEffect.
type SideEffectFunc func(ctx context.Context, dispatcher ActionDispatcher)

// Execute calls f(ctx, dispatcher).
func (f SideEffectFunc) Execute(ctx context.Context, dispatcher ActionDispatcher) {
	f(ctx, dispatcher)
}

type noEffect struct{}

func (noEffect) Execute(context.Context, ActionDispatcher) {}

// NoEffect does nothing. It stands in where an effect is required but none
// applies.
var NoEffect SideEffect = noEffect{}

// Dispatch returns an effect that dispatches actions in order. Dispatch
// errors are not reported; a store records them itself.
func Dispatch(actions ...Action) SideEffect {
	return SideEffectFunc(func(ctx context.Context, dispatcher ActionDispatcher) {
		for _, action := range actions {
			_ = dispatcher.Dispatch(ctx, action) //nolint:errcheck // Recorded by the store
		}
	})
}

// CombineSideEffect executes an ordered sequence of child effects.
// It performs no error handling of its own: every child runs, in order, on
// the caller's goroutine.
type CombineSideEffect struct {
	effects []SideEffect
}

// Combine builds a CombineSideEffect from effects, dropping nil entries.
// A typed nil, such as a nil *T or a nil SideEffectFunc, counts as nil.
func Combine(effects ...SideEffect) CombineSideEffect {
	kept := make([]SideEffect, 0, len(effects))
	for _, e := range effects {
		if !isNilEffect(e) {
			kept = append(kept, e)
		}
	}
	return CombineSideEffect{effects: kept}
}

// CombineAny builds a CombineSideEffect from a loosely typed list. Items that
// are not SideEffects, including nil, are dropped silently.
//
//	udf.CombineAny(saveDraft, maybeNotify, "ignored")
func CombineAny(items ...any) CombineSideEffect {
	kept := make([]SideEffect, 0, len(items))
	for _, item := range items {
		if e, ok := item.(SideEffect); ok && !isNilEffect(e) {
			kept = append(kept, e)
		}
	}
	return CombineSideEffect{effects: kept}
}

// isNilEffect reports whether e is nil or an interface holding a nil value.
func isNilEffect(e SideEffect) bool {
	if e == nil {
		return true
	}
	v := reflect.ValueOf(e)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// Execute runs every child effect in sequence.
func (c CombineSideEffect) Execute(ctx context.Context, dispatcher ActionDispatcher) {
	for _, e := range c.effects {
		e.Execute(ctx, dispatcher)
	}
}

// Effects returns the child effects in execution order.
func (c CombineSideEffect) Effects() []SideEffect {
	return slices.Clone(c.effects)
}

// Len returns the number of child effects.
func (c CombineSideEffect) Len() int {
	return len(c.effects)
}
