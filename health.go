package udf

// Health is the condition of a Source's most recent processing attempt.
type Health int32

const (
	// HealthLoading indicates the Source has not processed any value yet.
	HealthLoading Health = iota

	// HealthHealthy indicates the last value was decoded, validated and
	// accepted by the dispatcher.
	HealthHealthy

	// HealthDegraded indicates the last value failed. An earlier value was
	// accepted, so the store still reflects good data.
	HealthDegraded

	// HealthEmpty indicates no value has ever been accepted. The Source
	// keeps watching for a valid one.
	HealthEmpty
)

// String returns the string representation of the health state.
func (h Health) String() string {
	switch h {
	case HealthLoading:
		return "loading"
	case HealthHealthy:
		return "healthy"
	case HealthDegraded:
		return "degraded"
	case HealthEmpty:
		return "empty"
	default:
		return "unknown"
	}
}
