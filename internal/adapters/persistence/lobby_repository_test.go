package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mertbeyaz/battleship-go/internal/adapters/persistence"
	"github.com/mertbeyaz/battleship-go/internal/domain/lobby"
	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
	"github.com/mertbeyaz/battleship-go/test/helpers"
)

func TestLobbyRepository_AddAndFind(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormLobbyRepository(db)
	clock := shared.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	l, err := lobby.NewLobby("LOBBY001", "GAME0001", clock)
	require.NoError(t, err)

	// Act - Add
	err = repo.Add(context.Background(), l)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, l.Version())

	// Act - FindByCode
	found, err := repo.FindByCode(context.Background(), "LOBBY001")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "LOBBY001", found.LobbyCode())
	assert.Equal(t, "GAME0001", found.GameCode())
	assert.Equal(t, lobby.StatusWaiting, found.Status())
	assert.True(t, found.IsOpen())
	assert.Equal(t, 1, found.Version())
}

func TestLobbyRepository_FindOldestWaiting(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormLobbyRepository(db)
	clock := shared.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	oldest, err := lobby.NewLobby("LOBBY001", "GAME0001", clock)
	require.NoError(t, err)
	clock.Advance(time.Minute)
	newer, err := lobby.NewLobby("LOBBY002", "GAME0002", clock)
	require.NoError(t, err)

	require.NoError(t, repo.Add(context.Background(), oldest))
	require.NoError(t, repo.Add(context.Background(), newer))

	// Act
	found, err := repo.FindOldestWaiting(context.Background())

	// Assert
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "LOBBY001", found.LobbyCode())
}

func TestLobbyRepository_FindOldestWaitingSkipsFull(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormLobbyRepository(db)
	clock := shared.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	oldest, err := lobby.NewLobby("LOBBY001", "GAME0001", clock)
	require.NoError(t, err)
	clock.Advance(time.Minute)
	newer, err := lobby.NewLobby("LOBBY002", "GAME0002", clock)
	require.NoError(t, err)

	require.NoError(t, repo.Add(context.Background(), oldest))
	require.NoError(t, repo.Add(context.Background(), newer))

	require.NoError(t, oldest.Fill())
	require.NoError(t, repo.Save(context.Background(), oldest))

	// Act
	found, err := repo.FindOldestWaiting(context.Background())

	// Assert
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "LOBBY002", found.LobbyCode())
}

func TestLobbyRepository_FindOldestWaitingEmpty(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormLobbyRepository(db)

	// Act
	found, err := repo.FindOldestWaiting(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestLobbyRepository_SaveVersionConflict(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormLobbyRepository(db)
	clock := shared.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	l, err := lobby.NewLobby("LOBBY001", "GAME0001", clock)
	require.NoError(t, err)
	require.NoError(t, repo.Add(context.Background(), l))

	first, err := repo.FindByCode(context.Background(), "LOBBY001")
	require.NoError(t, err)
	second, err := repo.FindByCode(context.Background(), "LOBBY001")
	require.NoError(t, err)

	require.NoError(t, first.Fill())
	require.NoError(t, repo.Save(context.Background(), first))

	// Act - save a copy that never saw the first write
	require.NoError(t, second.Fill())
	err = repo.Save(context.Background(), second)

	// Assert
	var conflict *shared.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, 2, first.Version())
}

func TestLobbyRepository_NotFound(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormLobbyRepository(db)

	// Act
	_, err := repo.FindByCode(context.Background(), "NOPE1234")

	// Assert
	var notFound *shared.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
