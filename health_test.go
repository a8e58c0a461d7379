package udf

import "testing"

func TestHealth_String(t *testing.T) {
	tests := []struct {
		health Health
		want   string
	}{
		{HealthLoading, "loading"},
		{HealthHealthy, "healthy"},
		{HealthDegraded, "degraded"},
		{HealthEmpty, "empty"},
		{Health(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.health.String(); got != tt.want {
			t.Errorf("Health(%d).String() = %q, want %q", tt.health, got, tt.want)
		}
	}
}
