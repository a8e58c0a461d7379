package udf

import (
	"testing"
	"time"
)

func TestNoOpMetricsProvider_DoesNotPanic(_ *testing.T) {
	var m NoOpMetricsProvider

	// These should not panic
	m.OnDispatchSuccess(100*time.Millisecond, 3)
	m.OnDispatchFailure("validate", 50*time.Millisecond)
	m.OnObserversChanged(2)
	m.OnHealthChange(HealthLoading, HealthHealthy)
	m.OnChangeReceived()
}
