package udf

// Mapper derives props of type P from state of type S.
//
// Implementations must be pure: the same state yields an equal result, and the
// dispatcher is used only during the call, never retained. Components compare
// successive results to suppress redundant updates, so a non-deterministic
// mapper defeats that check.
type Mapper[S, P any] interface {
	StateToProps(state S, dispatcher ActionDispatcher) P
}

// Connector is a named, reusable Mapper passed to ConnectBy and friends in
// place of a stateToProps closure.
type Connector[S, P any] interface {
	Mapper[S, P]
}

// ConnectorFunc adapts a stateToProps function to Connector.
type ConnectorFunc[S, P any] func(state S, dispatcher ActionDispatcher) P

// StateToProps calls f(state, dispatcher).
func (f ConnectorFunc[S, P]) StateToProps(state S, dispatcher ActionDispatcher) P {
	return f(state, dispatcher)
}

// Through narrows a connector written against a slice of state so it can be
// used against the whole state S.
//
//	profile := udf.Through(func(s App) User { return s.User }, ProfileConnector{})
func Through[S, C, P any](transform func(S) C, connector Connector[C, P]) Connector[S, P] {
	return ConnectorFunc[S, P](func(state S, dispatcher ActionDispatcher) P {
		return connector.StateToProps(transform(state), dispatcher)
	})
}
