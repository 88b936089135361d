package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mertbeyaz/battleship-go/internal/adapters/metrics"
	"github.com/mertbeyaz/battleship-go/internal/domain/session"
	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
	"github.com/mertbeyaz/battleship-go/internal/infrastructure/scheduler"
)

// ConnectionCleaner periodically removes connection rows whose last
// activity predates the staleness threshold. Games, shots and resume
// tokens are never touched; an abandoned game stays resumable.
type ConnectionCleaner struct {
	connections session.ConnectionRepository
	interval    time.Duration
	threshold   time.Duration
	clock       shared.Clock
	logger      *zap.SugaredLogger
}

// NewConnectionCleaner creates a new ConnectionCleaner
func NewConnectionCleaner(
	connections session.ConnectionRepository,
	interval time.Duration,
	threshold time.Duration,
	clock shared.Clock,
	logger *zap.SugaredLogger,
) *ConnectionCleaner {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &ConnectionCleaner{
		connections: connections,
		interval:    interval,
		threshold:   threshold,
		clock:       clock,
		logger:      logger,
	}
}

// Start schedules the periodic sweep on the shared pool.
func (c *ConnectionCleaner) Start(pool *scheduler.Pool) {
	pool.ScheduleEvery(c.interval, c.Sweep)
}

// Sweep deletes every connection row last seen before the cutoff.
func (c *ConnectionCleaner) Sweep(ctx context.Context) {
	cutoff := c.clock.Now().Add(-c.threshold)

	stale, err := c.connections.FindStale(ctx, cutoff)
	if err != nil {
		c.logger.Errorw("stale connection scan failed", "error", err)
		return
	}

	removed := 0
	for _, conn := range stale {
		if err := c.connections.Delete(ctx, conn.GameCode, conn.PlayerID); err != nil {
			c.logger.Warnw("failed to delete stale connection",
				"gameCode", conn.GameCode, "playerId", conn.PlayerID, "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		metrics.RecordConnectionsPurged(removed)
		c.logger.Infow("purged stale connections", "count", removed, "cutoff", cutoff)
	}
}
