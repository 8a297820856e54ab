package telemetry

import (
	"testing"

	"github.com/agentroom/agentroom/internal/models"
)

func TestDisabledReporterIsNil(t *testing.T) {
	tests := []struct {
		name string
		cfg  models.TelemetryConfig
	}{
		{"off", models.TelemetryConfig{}},
		{"enabled without key", models.TelemetryConfig{Enabled: true}},
		{"key but disabled", models.TelemetryConfig{PostHogKey: "phc_x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.cfg)
			if r != nil {
				t.Fatal("expected nil reporter")
			}
			// Methods on a nil reporter are no-ops.
			r.Capture(EventDaemonStarted, Counts{})
			r.Close()
		})
	}
}

func TestDistinctIDIsStable(t *testing.T) {
	a, b := DistinctID(), DistinctID()
	if a != b || a == "" {
		t.Errorf("DistinctID = %q then %q", a, b)
	}
}
