package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mertbeyaz/battleship-go/internal/adapters/persistence"
	"github.com/mertbeyaz/battleship-go/internal/application/session/services"
	"github.com/mertbeyaz/battleship-go/internal/domain/session"
	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
	"github.com/mertbeyaz/battleship-go/internal/infrastructure/scheduler"
	"github.com/mertbeyaz/battleship-go/test/helpers"
)

func TestConnectionCleaner_SweepRemovesStaleRows(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	connections := persistence.NewGormConnectionRepository(db)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := shared.NewMockClock(now)

	stale := session.NewPlayerConnection("GAME0001", "p1", "sess-1", now.Add(-25*time.Hour))
	fresh := session.NewPlayerConnection("GAME0001", "p2", "sess-2", now.Add(-time.Hour))
	require.NoError(t, connections.Upsert(context.Background(), stale))
	require.NoError(t, connections.Upsert(context.Background(), fresh))

	cleaner := services.NewConnectionCleaner(connections, time.Hour, 24*time.Hour, clock, nil)

	// Act
	cleaner.Sweep(context.Background())

	// Assert
	_, err := connections.FindByGameAndPlayer(context.Background(), "GAME0001", "p1")
	var notFound *shared.NotFoundError
	assert.ErrorAs(t, err, &notFound)

	kept, err := connections.FindByGameAndPlayer(context.Background(), "GAME0001", "p2")
	require.NoError(t, err)
	assert.Equal(t, "sess-2", kept.SessionID)
}

func TestConnectionCleaner_SweepKeepsFreshRows(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	connections := persistence.NewGormConnectionRepository(db)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := shared.NewMockClock(now)

	fresh := session.NewPlayerConnection("GAME0001", "p1", "sess-1", now.Add(-time.Minute))
	require.NoError(t, connections.Upsert(context.Background(), fresh))

	cleaner := services.NewConnectionCleaner(connections, time.Hour, 24*time.Hour, clock, nil)

	// Act
	cleaner.Sweep(context.Background())

	// Assert
	all, err := connections.FindByGame(context.Background(), "GAME0001")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestConnectionCleaner_StartSchedulesPeriodicSweeps(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	connections := persistence.NewGormConnectionRepository(db)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := shared.NewMockClock(now)

	stale := session.NewPlayerConnection("GAME0001", "p1", "sess-1", now.Add(-48*time.Hour))
	require.NoError(t, connections.Upsert(context.Background(), stale))

	pool := scheduler.NewPool(2, nil)
	pool.Start(context.Background())
	t.Cleanup(pool.Stop)

	cleaner := services.NewConnectionCleaner(connections, 20*time.Millisecond, 24*time.Hour, clock, nil)

	// Act
	cleaner.Start(pool)

	// Assert - a tick sweeps the stale row without a manual call
	require.Eventually(t, func() bool {
		all, err := connections.FindByGame(context.Background(), "GAME0001")
		return err == nil && len(all) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
