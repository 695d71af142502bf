package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewManagerWithOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewManager(
		WithNamespace("test"),
		WithSubsystem("board"),
		WithHistogramBuckets([]float64{1, 5, 10}),
		WithPrometheusRegistry(reg),
	)
	if m == nil {
		t.Fatal("NewManager returned nil")
	}
	if m.namespace != "test" || m.subsystem != "board" {
		t.Errorf("unexpected namespace/subsystem: %s/%s", m.namespace, m.subsystem)
	}
}

func TestGlobalHelpers(t *testing.T) {
	// Exercise the package-level helpers against the global manager.
	RecordClaimProcessed()
	RecordClaimFailed()
	RecordClaimLatency(12.5)
	RecordPointsAwarded(42)
	RecordRankRecompute()
	RecordRankRecomputeLatency(3.0)
	UpdateObserversConnected(2)
	RecordBroadcastSent()
	RecordBroadcastDropped()
	RecordObserverSendDropped()
	RecordStoreOpLatency(0.5)
	RecordStoreError()
	UpdateTotalParticipants(10)
	UpdateHistorySize(100)
	RecordHTTPRequest("claim", "POST", "200")
	RecordHTTPRequestDuration("claim", "POST", "200", 8.0)
	UpdateSystemMemoryUsage(1 << 20)
	UpdateSystemGoroutineCount(8)

	if GetRegistry() == nil {
		t.Fatal("custom registry is nil")
	}

	families, err := GetRegistry().Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected registered metric families")
	}
}
