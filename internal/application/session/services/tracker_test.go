package services_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mertbeyaz/battleship-go/internal/adapters/persistence"
	"github.com/mertbeyaz/battleship-go/internal/application/common"
	"github.com/mertbeyaz/battleship-go/internal/application/session/services"
	"github.com/mertbeyaz/battleship-go/internal/domain/game"
	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
	"github.com/mertbeyaz/battleship-go/internal/infrastructure/scheduler"
	"github.com/mertbeyaz/battleship-go/test/helpers"
)

type trackerFixture struct {
	clock       *shared.MockClock
	games       *persistence.GormGameRepository
	connections *persistence.GormConnectionRepository
	publisher   *helpers.MockEventPublisher
	tracker     *services.ConnectionTracker
}

func newTrackerFixture(t *testing.T, grace time.Duration) *trackerFixture {
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	pool := scheduler.NewPool(2, nil)
	pool.Start(context.Background())
	t.Cleanup(pool.Stop)

	fix := &trackerFixture{
		clock:       clock,
		games:       persistence.NewGormGameRepository(db, clock),
		connections: persistence.NewGormConnectionRepository(db),
		publisher:   helpers.NewMockEventPublisher(),
	}
	fix.tracker = services.NewConnectionTracker(
		fix.games, fix.connections, fix.publisher, common.NewGameLockRegistry(),
		pool, grace, clock, nil)
	return fix
}

// seedRunningGame persists a two-player game that has reached RUNNING.
func seedRunningGame(t *testing.T, games *persistence.GormGameRepository, clock shared.Clock) *game.Game {
	t.Helper()

	g, err := game.NewGame("GAME0001", game.DefaultConfiguration(), clock)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	_, err = g.Join(game.NewPlayer("p1", "alice"), "board-p1", rng)
	require.NoError(t, err)
	_, err = g.Join(game.NewPlayer("p2", "bob"), "board-p2", rng)
	require.NoError(t, err)
	require.NoError(t, g.ConfirmBoard("p1", "board-p1"))
	require.NoError(t, g.ConfirmBoard("p2", "board-p2"))
	g.TakeEvents()

	require.NoError(t, games.Add(context.Background(), g))
	return g
}

func TestConnectionTracker_SubscribeRecordsConnection(t *testing.T) {
	// Arrange
	fix := newTrackerFixture(t, time.Minute)
	g := seedRunningGame(t, fix.games, fix.clock)

	// Act
	err := fix.tracker.HandleSubscribe(context.Background(), g.GameCode(), "p1", "sess-1")

	// Assert
	require.NoError(t, err)

	conn, err := fix.connections.FindByGameAndPlayer(context.Background(), g.GameCode(), "p1")
	require.NoError(t, err)
	assert.True(t, conn.Connected)
	assert.Equal(t, "sess-1", conn.SessionID)

	// A first subscribe is not a reconnect
	assert.Empty(t, fix.publisher.GameEvents())
}

func TestConnectionTracker_SubscribeAnnouncesReconnect(t *testing.T) {
	// Arrange
	fix := newTrackerFixture(t, time.Minute)
	g := seedRunningGame(t, fix.games, fix.clock)

	require.NoError(t, fix.tracker.HandleSubscribe(context.Background(), g.GameCode(), "p1", "sess-1"))
	require.NoError(t, fix.tracker.HandleDisconnect(context.Background(), "sess-1"))
	fix.publisher.Clear()

	// Act
	err := fix.tracker.HandleSubscribe(context.Background(), g.GameCode(), "p1", "sess-2")

	// Assert
	require.NoError(t, err)

	events := fix.publisher.EventsOfType(game.EventPlayerReconnected)
	require.Len(t, events, 1)
	payload, ok := events[0].Payload.(game.PlayerReconnectedPayload)
	require.True(t, ok)
	assert.Equal(t, "p1", payload.PlayerID)
	assert.Equal(t, "alice", payload.PlayerName)

	conn, err := fix.connections.FindByGameAndPlayer(context.Background(), g.GameCode(), "p1")
	require.NoError(t, err)
	assert.True(t, conn.Connected)
	assert.Equal(t, "sess-2", conn.SessionID)
}

func TestConnectionTracker_SubscribeRejectsOutsider(t *testing.T) {
	// Arrange
	fix := newTrackerFixture(t, time.Minute)
	g := seedRunningGame(t, fix.games, fix.clock)

	// Act
	err := fix.tracker.HandleSubscribe(context.Background(), g.GameCode(), "intruder", "sess-9")

	// Assert
	var forbidden *shared.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
}

func TestConnectionTracker_DisconnectUnknownSessionIgnored(t *testing.T) {
	// Arrange
	fix := newTrackerFixture(t, time.Minute)

	// Act
	err := fix.tracker.HandleDisconnect(context.Background(), "sess-ghost")

	// Assert
	assert.NoError(t, err)
	assert.Empty(t, fix.publisher.GameEvents())
}

func TestConnectionTracker_PausesGameAfterGrace(t *testing.T) {
	// Arrange
	fix := newTrackerFixture(t, 20*time.Millisecond)
	g := seedRunningGame(t, fix.games, fix.clock)
	require.NoError(t, fix.tracker.HandleSubscribe(context.Background(), g.GameCode(), "p1", "sess-1"))

	// Act
	require.NoError(t, fix.tracker.HandleDisconnect(context.Background(), "sess-1"))

	// Assert - the grace timer fires and pauses the game
	require.Eventually(t, func() bool {
		current, err := fix.games.FindByCode(context.Background(), g.GameCode())
		return err == nil && current.Status() == game.StatusPaused
	}, 2*time.Second, 10*time.Millisecond)

	assert.True(t, fix.publisher.HasEventOfType(game.EventPlayerDisconnected))
	assert.True(t, fix.publisher.HasEventOfType(game.EventGamePaused))
}

func TestConnectionTracker_ReconnectInsideGraceSkipsPause(t *testing.T) {
	// Arrange
	fix := newTrackerFixture(t, 100*time.Millisecond)
	g := seedRunningGame(t, fix.games, fix.clock)
	require.NoError(t, fix.tracker.HandleSubscribe(context.Background(), g.GameCode(), "p1", "sess-1"))
	require.NoError(t, fix.tracker.HandleDisconnect(context.Background(), "sess-1"))

	// Act - back before the timer fires
	require.NoError(t, fix.tracker.HandleSubscribe(context.Background(), g.GameCode(), "p1", "sess-2"))

	// let the grace timer fire against the reconnected row
	time.Sleep(300 * time.Millisecond)

	// Assert
	current, err := fix.games.FindByCode(context.Background(), g.GameCode())
	require.NoError(t, err)
	assert.Equal(t, game.StatusRunning, current.Status())
	assert.False(t, fix.publisher.HasEventOfType(game.EventPlayerDisconnected))
	assert.False(t, fix.publisher.HasEventOfType(game.EventGamePaused))
}
