// Package metrics provides Prometheus metrics for the Podium leaderboard service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the Podium service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Core business metrics - claims drive everything in this system.
	claimsProcessed prometheus.Counter
	claimsFailed    prometheus.Counter
	claimLatency    prometheus.Histogram
	pointsAwarded   prometheus.Counter

	// Ranking metrics.
	rankRecomputes       prometheus.Counter
	rankRecomputeLatency prometheus.Histogram

	// Observer metrics - fan-out health.
	observersConnected prometheus.Gauge
	broadcastsSent     prometheus.Counter
	broadcastsDropped  prometheus.Counter
	observerSendsDrop  prometheus.Counter

	// Store metrics.
	storeOpLatency prometheus.Histogram
	storeErrors    prometheus.Counter

	// Operational health.
	totalParticipants prometheus.Gauge
	historySize       prometheus.Gauge

	// HTTP performance.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System performance.
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "podium",
		subsystem:        "leaderboard",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.claimsProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "claims_processed_total",
		Help:      "Total number of point claims successfully processed",
	})

	m.claimsFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "claims_failed_total",
		Help:      "Total number of point claims that failed",
	})

	m.claimLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "claim_latency_milliseconds",
		Help:      "Histogram of end-to-end claim latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.pointsAwarded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "points_awarded_total",
		Help:      "Total points awarded across all claims",
	})

	m.rankRecomputes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rank_recomputes_total",
		Help:      "Total number of full rank recomputations",
	})

	m.rankRecomputeLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rank_recompute_latency_milliseconds",
		Help:      "Histogram of rank recomputation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.observersConnected = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "observers_connected",
		Help:      "Current number of connected ranking observers",
	})

	m.broadcastsSent = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "broadcasts_sent_total",
		Help:      "Total number of ranking events broadcast to observers",
	})

	m.broadcastsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "broadcasts_dropped_total",
		Help:      "Total number of ranking events dropped due to queue saturation",
	})

	m.observerSendsDrop = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "observer_sends_dropped_total",
		Help:      "Total number of per-observer deliveries dropped (slow observers)",
	})

	m.storeOpLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_op_latency_milliseconds",
		Help:      "Histogram of participant store operation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_errors_total",
		Help:      "Total number of participant store failures",
	})

	m.totalParticipants = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "total_participants",
		Help:      "Total number of participants on the leaderboard",
	})

	m.historySize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "history_size",
		Help:      "Current number of stored claim history entries",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current allocated memory in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})
}

// RecordClaimProcessed increments the processed claims counter.
func RecordClaimProcessed() {
	globalManager.claimsProcessed.Inc()
}

// RecordClaimFailed increments the failed claims counter.
func RecordClaimFailed() {
	globalManager.claimsFailed.Inc()
}

// RecordClaimLatency records end-to-end claim latency in milliseconds.
func RecordClaimLatency(latencyMs float64) {
	globalManager.claimLatency.Observe(latencyMs)
}

// RecordPointsAwarded adds the awarded delta to the points counter.
func RecordPointsAwarded(points int) {
	globalManager.pointsAwarded.Add(float64(points))
}

// RecordRankRecompute increments the rank recompute counter.
func RecordRankRecompute() {
	globalManager.rankRecomputes.Inc()
}

// RecordRankRecomputeLatency records rank recompute latency in milliseconds.
func RecordRankRecomputeLatency(latencyMs float64) {
	globalManager.rankRecomputeLatency.Observe(latencyMs)
}

// UpdateObserversConnected sets the connected observer gauge.
func UpdateObserversConnected(count int) {
	globalManager.observersConnected.Set(float64(count))
}

// RecordBroadcastSent increments the broadcast counter.
func RecordBroadcastSent() {
	globalManager.broadcastsSent.Inc()
}

// RecordBroadcastDropped increments the dropped broadcast counter.
func RecordBroadcastDropped() {
	globalManager.broadcastsDropped.Inc()
}

// RecordObserverSendDropped increments the dropped per-observer delivery counter.
func RecordObserverSendDropped() {
	globalManager.observerSendsDrop.Inc()
}

// RecordStoreOpLatency records a store operation latency in milliseconds.
func RecordStoreOpLatency(latencyMs float64) {
	globalManager.storeOpLatency.Observe(latencyMs)
}

// RecordStoreError increments the store error counter.
func RecordStoreError() {
	globalManager.storeErrors.Inc()
}

// UpdateTotalParticipants sets the participant total gauge.
func UpdateTotalParticipants(count int) {
	globalManager.totalParticipants.Set(float64(count))
}

// UpdateHistorySize sets the history size gauge.
func UpdateHistorySize(size int) {
	globalManager.historySize.Set(float64(size))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// UpdateSystemMemoryUsage sets the allocated memory gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by the service.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
