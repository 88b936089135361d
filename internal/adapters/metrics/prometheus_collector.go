package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "battleship"
	// Subsystem for server metrics
	subsystem = "server"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalCollector is the singleton game metrics collector
	// Set by SetGlobalCollector() when metrics are enabled
	globalCollector GameMetricsRecorder
)

// GameMetricsRecorder defines the interface for recording gameplay metrics events
// This interface is used by application code to record metrics
type GameMetricsRecorder interface {
	RecordGameCreated()
	RecordMatchStarted()
	RecordGameFinished(reason string, durationSeconds float64)
	RecordShotResolved(result string)
	RecordEventPublished(eventType string)
	RecordSessionOpened()
	RecordSessionClosed()
	RecordConnectionsPurged(count int)
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalCollector sets the global metrics collector
// This should be called after the collector is created and registered
func SetGlobalCollector(collector GameMetricsRecorder) {
	globalCollector = collector
}

// RecordGameCreated records a game creation event globally
func RecordGameCreated() {
	if globalCollector != nil {
		globalCollector.RecordGameCreated()
	}
}

// RecordMatchStarted records a lobby pairing event globally
func RecordMatchStarted() {
	if globalCollector != nil {
		globalCollector.RecordMatchStarted()
	}
}

// RecordGameFinished records a game completion event globally
func RecordGameFinished(reason string, durationSeconds float64) {
	if globalCollector != nil {
		globalCollector.RecordGameFinished(reason, durationSeconds)
	}
}

// RecordShotResolved records a resolved shot globally
func RecordShotResolved(result string) {
	if globalCollector != nil {
		globalCollector.RecordShotResolved(result)
	}
}

// RecordEventPublished records a published game event globally
func RecordEventPublished(eventType string) {
	if globalCollector != nil {
		globalCollector.RecordEventPublished(eventType)
	}
}

// RecordSessionOpened records a websocket session being opened globally
func RecordSessionOpened() {
	if globalCollector != nil {
		globalCollector.RecordSessionOpened()
	}
}

// RecordSessionClosed records a websocket session being closed globally
func RecordSessionClosed() {
	if globalCollector != nil {
		globalCollector.RecordSessionClosed()
	}
}

// RecordConnectionsPurged records stale connections removed by the cleaner globally
func RecordConnectionsPurged(count int) {
	if globalCollector != nil {
		globalCollector.RecordConnectionsPurged(count)
	}
}
