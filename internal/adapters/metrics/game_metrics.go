package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// GameMetricsCollector handles all gameplay and session metrics
type GameMetricsCollector struct {
	// Lifecycle counters
	gamesCreatedTotal   prometheus.Counter
	matchesStartedTotal prometheus.Counter
	gamesFinishedTotal  *prometheus.CounterVec
	gameDuration        *prometheus.HistogramVec

	// Gameplay metrics
	shotsResolvedTotal   *prometheus.CounterVec
	eventsPublishedTotal *prometheus.CounterVec

	// Session metrics
	activeSessions         prometheus.Gauge
	connectionsPurgedTotal prometheus.Counter
}

// NewGameMetricsCollector creates a new gameplay metrics collector
func NewGameMetricsCollector() *GameMetricsCollector {
	return &GameMetricsCollector{
		// Games created via the matchmaking queue
		gamesCreatedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "games_created_total",
				Help:      "Total number of games created",
			},
		),

		// Lobbies filled and moved into setup
		matchesStartedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "matches_started_total",
				Help:      "Total number of lobbies paired into a match",
			},
		),

		// Games finished by reason (victory, forfeit)
		gamesFinishedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "games_finished_total",
				Help:      "Total number of games finished by reason",
			},
			[]string{"reason"},
		),

		// Game duration distribution
		gameDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "game_duration_seconds",
				Help:      "Game duration from creation to finish",
				Buckets:   []float64{30, 60, 120, 300, 600, 1200, 1800, 3600},
			},
			[]string{"reason"},
		),

		// Shots resolved by result
		shotsResolvedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "shots_resolved_total",
				Help:      "Total number of shots resolved by result",
			},
			[]string{"result"},
		),

		// Events pushed to subscribers by type
		eventsPublishedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "events_published_total",
				Help:      "Total number of game events published by type",
			},
			[]string{"type"},
		),

		// Currently open websocket sessions
		activeSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "active_sessions",
				Help:      "Number of currently open websocket sessions",
			},
		),

		// Stale connection rows removed by the cleanup job
		connectionsPurgedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "connections_purged_total",
				Help:      "Total number of stale connections removed by the cleaner",
			},
		),
	}
}

// Register registers all gameplay metrics with the Prometheus registry
func (c *GameMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.gamesCreatedTotal,
		c.matchesStartedTotal,
		c.gamesFinishedTotal,
		c.gameDuration,
		c.shotsResolvedTotal,
		c.eventsPublishedTotal,
		c.activeSessions,
		c.connectionsPurgedTotal,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordGameCreated records a game creation event
func (c *GameMetricsCollector) RecordGameCreated() {
	c.gamesCreatedTotal.Inc()
}

// RecordMatchStarted records a lobby pairing event
func (c *GameMetricsCollector) RecordMatchStarted() {
	c.matchesStartedTotal.Inc()
}

// RecordGameFinished records a game completion event
func (c *GameMetricsCollector) RecordGameFinished(reason string, durationSeconds float64) {
	c.gamesFinishedTotal.WithLabelValues(reason).Inc()
	if durationSeconds > 0 {
		c.gameDuration.WithLabelValues(reason).Observe(durationSeconds)
	}
}

// RecordShotResolved records a resolved shot by result
func (c *GameMetricsCollector) RecordShotResolved(result string) {
	c.shotsResolvedTotal.WithLabelValues(result).Inc()
}

// RecordEventPublished records a published game event by type
func (c *GameMetricsCollector) RecordEventPublished(eventType string) {
	c.eventsPublishedTotal.WithLabelValues(eventType).Inc()
}

// RecordSessionOpened records a websocket session being opened
func (c *GameMetricsCollector) RecordSessionOpened() {
	c.activeSessions.Inc()
}

// RecordSessionClosed records a websocket session being closed
func (c *GameMetricsCollector) RecordSessionClosed() {
	c.activeSessions.Dec()
}

// RecordConnectionsPurged records stale connections removed by the cleaner
func (c *GameMetricsCollector) RecordConnectionsPurged(count int) {
	if count > 0 {
		c.connectionsPurgedTotal.Add(float64(count))
	}
}
