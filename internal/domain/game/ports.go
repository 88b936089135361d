package game

import (
	"context"
)

// GameRepository defines persistence operations for games
type GameRepository interface {
	// Add inserts a newly created game
	Add(ctx context.Context, game *Game) error

	// Save persists a mutated game using its version stamp.
	// Fails with Conflict when another writer got there first.
	Save(ctx context.Context, game *Game) error

	// FindByCode retrieves a game by its public code.
	// Fails with NotFound for unknown codes.
	FindByCode(ctx context.Context, gameCode string) (*Game, error)
}

// EventPublisher broadcasts committed game events to subscribers.
// Implementations must not block the caller; delivery to slow
// consumers may be dropped.
type EventPublisher interface {
	// PublishGameEvent fans an event out to the game's topic
	PublishGameEvent(event Event)

	// PublishLobbyEvent fans an event out to a lobby's topic
	PublishLobbyEvent(lobbyCode string, event Event)
}
