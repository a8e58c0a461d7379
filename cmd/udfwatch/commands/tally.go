package commands

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/zoobzio/udf"
)

// Tally is the store state: a set of named, non-negative counters.
type Tally struct {
	Counts map[string]int `json:"counts" yaml:"counts"`
}

// Validate rejects negative counters.
func (t Tally) Validate() error {
	for name, n := range t.Counts {
		if n < 0 {
			return fmt.Errorf("counter %q is negative: %d", name, n)
		}
	}
	return nil
}

// ReplaceCounts swaps in a freshly loaded set of counters.
type ReplaceCounts struct {
	Counts map[string]int
}

// ReduceTally is the store's reducer. The incoming map is copied so the
// committed state shares nothing with the decoded file.
func ReduceTally(state Tally, action udf.Action) Tally {
	switch a := action.(type) {
	case ReplaceCounts:
		return Tally{Counts: maps.Clone(a.Counts)}
	}
	return state
}

// Summary is the props of the summary component.
type Summary struct {
	Counters int
	Total    int
}

// SummaryConnector derives a Summary from the whole tally.
type SummaryConnector struct{}

// StateToProps implements udf.Connector.
func (SummaryConnector) StateToProps(state Tally, _ udf.ActionDispatcher) Summary {
	s := Summary{Counters: len(state.Counts)}
	for _, n := range state.Counts {
		s.Total += n
	}
	return s
}

// Names projects the sorted counter names as one comparable string.
func Names(state Tally) string {
	return strings.Join(slices.Sorted(maps.Keys(state.Counts)), ",")
}
