// Package testing provides test utilities and helpers for udf stores and
// components.
package testing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/udf"
)

// TestState is a standard state type for testing stores.
// It implements udf.Validator: Count must not be negative.
type TestState struct {
	Count int    `yaml:"count" json:"count"`
	Name  string `yaml:"name" json:"name"`
}

// Validate implements udf.Validator.
func (s TestState) Validate() error {
	if s.Count < 0 {
		return errors.New("count must not be negative")
	}
	return nil
}

// Increment adds By to Count.
type Increment struct{ By int }

// SetCount replaces Count.
type SetCount struct{ Count int }

// Rename replaces Name.
type Rename struct{ Name string }

// Reduce is the reducer for TestState. Unknown actions leave state unchanged.
func Reduce(state TestState, action udf.Action) TestState {
	switch a := action.(type) {
	case Increment:
		state.Count += a.By
	case SetCount:
		state.Count = a.Count
	case Rename:
		state.Name = a.Name
	}
	return state
}

// NewTestStore creates a store over TestState using Reduce.
func NewTestStore(t *testing.T, initial TestState, opts ...udf.Option[TestState]) *udf.Store[TestState] {
	t.Helper()
	return udf.NewStore(initial, Reduce, opts...)
}

// WaitFor polls a condition until it returns true or timeout is reached.
// Returns true if the condition was met, false if timeout occurred.
func WaitFor(t *testing.T, timeout time.Duration, condition func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return condition()
}

// RequireProps fails the test immediately unless the component has props
// equal to want.
func RequireProps[P comparable](t *testing.T, c *udf.Component[P], want P) {
	t.Helper()
	got, ok := c.Props()
	if !ok {
		t.Fatalf("expected props %v, got none", want)
	}
	if got != want {
		t.Fatalf("expected props %v, got %v", want, got)
	}
}

// RequireUpdates fails the test immediately unless the component has
// assigned props exactly n times.
func RequireUpdates[P any](t *testing.T, c *udf.Component[P], n uint64) {
	t.Helper()
	if got := c.Updates(); got != n {
		t.Fatalf("expected %d props updates, got %d", n, got)
	}
}

// Recorder captures every props assignment a component reports through
// OnChange.
type Recorder[P any] struct {
	mu     sync.Mutex
	values []P
}

// NewRecorder creates an empty Recorder.
func NewRecorder[P any]() *Recorder[P] {
	return &Recorder[P]{}
}

// Record is an OnChange callback.
func (r *Recorder[P]) Record(_ context.Context, _, curr P) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, curr)
}

// Values returns the recorded props in assignment order.
func (r *Recorder[P]) Values() []P {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]P, len(r.values))
	copy(out, r.values)
	return out
}
