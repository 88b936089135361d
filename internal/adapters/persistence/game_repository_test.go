package persistence_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mertbeyaz/battleship-go/internal/adapters/persistence"
	"github.com/mertbeyaz/battleship-go/internal/domain/game"
	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
	"github.com/mertbeyaz/battleship-go/test/helpers"
)

// runningGame builds a two-player game that has reached RUNNING.
func runningGame(t *testing.T, gameCode string, clock shared.Clock) *game.Game {
	t.Helper()

	g, err := game.NewGame(gameCode, game.DefaultConfiguration(), clock)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	_, err = g.Join(game.NewPlayer("p1", "alice"), "board-p1", rng)
	require.NoError(t, err)
	_, err = g.Join(game.NewPlayer("p2", "bob"), "board-p2", rng)
	require.NoError(t, err)

	require.NoError(t, g.ConfirmBoard("p1", "board-p1"))
	require.NoError(t, g.ConfirmBoard("p2", "board-p2"))
	g.TakeEvents()
	return g
}

func TestGameRepository_AddAndFind(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	repo := persistence.NewGormGameRepository(db, clock)

	g := runningGame(t, "GAME0001", clock)
	shot, err := g.FireShot("p1", game.NewCoordinate(0, 0))
	require.NoError(t, err)

	// Act - Add
	err = repo.Add(context.Background(), g)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, g.Version())

	// Act - FindByCode
	found, err := repo.FindByCode(context.Background(), "GAME0001")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, g.GameCode(), found.GameCode())
	assert.Equal(t, game.StatusRunning, found.Status())
	assert.Equal(t, g.CurrentTurnPlayerID(), found.CurrentTurnPlayerID())
	assert.Equal(t, 1, found.Version())

	players := found.Players()
	require.Len(t, players, 2)
	assert.Equal(t, "alice", players[0].Username)
	assert.Equal(t, "bob", players[1].Username)

	boards := found.Boards()
	require.Len(t, boards, 2)
	for i, b := range boards {
		assert.True(t, b.Locked())
		assert.Equal(t, g.Boards()[i].ID(), b.ID())
		assert.Equal(t, g.Boards()[i].OwnerID(), b.OwnerID())
		assert.Equal(t, g.Boards()[i].Placements(), b.Placements())
	}

	shots := found.Shots()
	require.Len(t, shots, 1)
	assert.Equal(t, shot, shots[0])
}

func TestGameRepository_SavePersistsMutations(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	repo := persistence.NewGormGameRepository(db, clock)

	g := runningGame(t, "GAME0002", clock)
	require.NoError(t, repo.Add(context.Background(), g))

	shot, err := g.FireShot("p1", game.NewCoordinate(3, 4))
	require.NoError(t, err)

	// Act
	err = repo.Save(context.Background(), g)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, g.Version())

	found, err := repo.FindByCode(context.Background(), "GAME0002")
	require.NoError(t, err)
	assert.Equal(t, 2, found.Version())
	assert.Equal(t, g.Status(), found.Status())
	assert.Equal(t, g.CurrentTurnPlayerID(), found.CurrentTurnPlayerID())

	shots := found.Shots()
	require.Len(t, shots, 1)
	assert.Equal(t, shot, shots[0])
}

func TestGameRepository_SaveVersionConflict(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	repo := persistence.NewGormGameRepository(db, clock)

	g := runningGame(t, "GAME0003", clock)
	require.NoError(t, repo.Add(context.Background(), g))

	first, err := repo.FindByCode(context.Background(), "GAME0003")
	require.NoError(t, err)
	second, err := repo.FindByCode(context.Background(), "GAME0003")
	require.NoError(t, err)

	require.NoError(t, first.Pause("p1"))
	require.NoError(t, repo.Save(context.Background(), first))

	// Act - save a copy that never saw the first write
	require.NoError(t, second.Pause("p1"))
	err = repo.Save(context.Background(), second)

	// Assert
	var conflict *shared.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, 2, first.Version())
	assert.Equal(t, 1, second.Version())
}

func TestGameRepository_NotFound(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormGameRepository(db, nil)

	// Act
	_, err := repo.FindByCode(context.Background(), "NOPE1234")

	// Assert
	var notFound *shared.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
