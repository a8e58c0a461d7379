package udf

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/zoobzio/pipz"
)

// Identities of the processors a store builds itself.
var (
	terminalID     = pipz.NewIdentity("udf:transition", "Hands the reduced transition to the store for commit")
	middlewareID   = pipz.NewIdentity("udf:middleware", "Runs store middleware in order")
	validationID   = pipz.NewIdentity("udf:validation", "Validates the next state using struct tags")
	fallbackID     = pipz.NewIdentity("udf:fallback", "Tries fallback processors when the pipeline rejects")
	errorHandlerID = pipz.NewIdentity("udf:error-handler", "Reports pipeline rejections to an error handler")
)

// structValidator is shared by every UseValidation processor.
var structValidator = validator.New()

// Option configures the transition pipeline of a Store. Pipeline options wrap
// the terminal stage with middleware that can observe, rewrite or reject each
// transition before it is committed.
//
// Instance configuration (clock, metrics, effects, etc.) is handled via
// chainable methods on the Store.
type Option[S any] func(pipz.Chainable[*Transition[S]]) pipz.Chainable[*Transition[S]]

// buildPipeline wraps a terminal with pipeline options.
func buildPipeline[S any](terminal pipz.Chainable[*Transition[S]], opts []Option[S]) pipz.Chainable[*Transition[S]] {
	pipeline := terminal
	for _, opt := range opts {
		pipeline = opt(pipeline)
	}
	return pipeline
}

// WithFallback tries each fallback in order when the pipeline rejects a
// transition. The first one to succeed decides the committed state.
//
//	clampID := pipz.NewIdentity("clamp", "Clamps quantities into range")
//	udf.WithFallback(udf.UseTransform[Cart](clampID, clampQuantities))
func WithFallback[S any](fallbacks ...pipz.Chainable[*Transition[S]]) Option[S] {
	return func(p pipz.Chainable[*Transition[S]]) pipz.Chainable[*Transition[S]] {
		all := append([]pipz.Chainable[*Transition[S]]{p}, fallbacks...)
		return pipz.NewFallback(fallbackID, all...)
	}
}

// WithErrorHandler passes rejected transitions to handler for logging or
// alerting. The rejection still propagates to the dispatcher.
func WithErrorHandler[S any](handler pipz.Chainable[*pipz.Error[*Transition[S]]]) Option[S] {
	return func(p pipz.Chainable[*Transition[S]]) pipz.Chainable[*Transition[S]] {
		return pipz.NewHandle(errorHandlerID, p, handler)
	}
}

// WithMiddleware runs processors in order before the transition is committed.
//
// Example:
//
//	store := udf.NewStore(Counter{}, reduce,
//	    udf.WithMiddleware(
//	        udf.UseEffect[Counter](auditID, auditFn),
//	        udf.UseValidation[Counter](),
//	    ),
//	)
func WithMiddleware[S any](processors ...pipz.Chainable[*Transition[S]]) Option[S] {
	return func(p pipz.Chainable[*Transition[S]]) pipz.Chainable[*Transition[S]] {
		all := make([]pipz.Chainable[*Transition[S]], 0, len(processors)+1)
		all = append(all, processors...)
		all = append(all, p)
		return pipz.NewSequence(middlewareID, all...)
	}
}

// UseTransform creates a processor that rewrites the transition and cannot fail.
func UseTransform[S any](identity pipz.Identity, fn func(context.Context, *Transition[S]) *Transition[S]) pipz.Chainable[*Transition[S]] {
	return pipz.Transform(identity, fn)
}

// UseApply creates a processor that may rewrite the transition or reject it
// by returning an error.
func UseApply[S any](identity pipz.Identity, fn func(context.Context, *Transition[S]) (*Transition[S], error)) pipz.Chainable[*Transition[S]] {
	return pipz.Apply(identity, fn)
}

// UseEffect creates a processor that observes the transition. Returning an
// error rejects it; the transition itself passes through unchanged.
func UseEffect[S any](identity pipz.Identity, fn func(context.Context, *Transition[S]) error) pipz.Chainable[*Transition[S]] {
	return pipz.Effect(identity, fn)
}

// UseMutate creates a processor that rewrites the transition only when
// condition returns true.
func UseMutate[S any](identity pipz.Identity, transformer func(context.Context, *Transition[S]) *Transition[S], condition func(context.Context, *Transition[S]) bool) pipz.Chainable[*Transition[S]] {
	return pipz.Mutate(identity, transformer, condition)
}

// UseEnrich creates a processor that attempts an optional rewrite. If fn
// fails the transition continues unchanged.
func UseEnrich[S any](identity pipz.Identity, fn func(context.Context, *Transition[S]) (*Transition[S], error)) pipz.Chainable[*Transition[S]] {
	return pipz.Enrich(identity, fn)
}

// UseFilter runs processor only when condition returns true; otherwise the
// transition passes through unchanged.
func UseFilter[S any](identity pipz.Identity, condition func(context.Context, *Transition[S]) bool, processor pipz.Chainable[*Transition[S]]) pipz.Chainable[*Transition[S]] {
	return pipz.NewFilter(identity, condition, processor)
}

// UseValidation creates a processor that validates the new state using
// go-playground/validator struct tags. S must be a struct or pointer to struct.
//
//	type Form struct {
//	    Email string `validate:"required,email"`
//	}
func UseValidation[S any]() pipz.Chainable[*Transition[S]] {
	return pipz.Effect(validationID, func(_ context.Context, t *Transition[S]) error {
		if err := structValidator.Struct(t.Current); err != nil {
			return fmt.Errorf("invalid state: %w", err)
		}
		return nil
	})
}
