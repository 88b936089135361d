package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mertbeyaz/battleship-go/internal/adapters/persistence"
	"github.com/mertbeyaz/battleship-go/internal/domain/session"
	"github.com/mertbeyaz/battleship-go/test/helpers"
)

func TestChatRepository_AppendAndFind(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormChatRepository(db)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	first, err := session.NewChatMessage("GAME0001", "p1", "alice", "good luck", now)
	require.NoError(t, err)
	second, err := session.NewChatMessage("GAME0001", "p2", "bob", "you too", now.Add(time.Second))
	require.NoError(t, err)

	// Act - Append
	require.NoError(t, repo.Append(context.Background(), first))
	require.NoError(t, repo.Append(context.Background(), second))

	// Assert - ids assigned in insertion order
	assert.Greater(t, first.ID, 0)
	assert.Greater(t, second.ID, first.ID)

	// Act - FindByGame
	messages, err := repo.FindByGame(context.Background(), "GAME0001")

	// Assert
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "alice", messages[0].SenderName)
	assert.Equal(t, "good luck", messages[0].Text)
	assert.Equal(t, "bob", messages[1].SenderName)
	assert.Equal(t, "you too", messages[1].Text)
	assert.True(t, messages[0].CreatedAt.Equal(now))
}

func TestChatRepository_FindByGameScopedToGame(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormChatRepository(db)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mine, err := session.NewChatMessage("GAME0001", "p1", "alice", "hello", now)
	require.NoError(t, err)
	other, err := session.NewChatMessage("GAME0002", "p3", "carol", "elsewhere", now)
	require.NoError(t, err)

	require.NoError(t, repo.Append(context.Background(), mine))
	require.NoError(t, repo.Append(context.Background(), other))

	// Act
	messages, err := repo.FindByGame(context.Background(), "GAME0001")

	// Assert
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "hello", messages[0].Text)
}

func TestChatRepository_FindByGameEmpty(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormChatRepository(db)

	// Act
	messages, err := repo.FindByGame(context.Background(), "GAME0001")

	// Assert
	require.NoError(t, err)
	assert.Empty(t, messages)
}
