package lobby

import (
	"context"
)

// LobbyRepository defines persistence operations for lobbies
type LobbyRepository interface {
	// Add inserts a newly created lobby
	Add(ctx context.Context, lobby *Lobby) error

	// Save persists a mutated lobby using its version stamp.
	// Fails with Conflict when another writer got there first.
	Save(ctx context.Context, lobby *Lobby) error

	// FindByCode retrieves a lobby by its public code.
	// Fails with NotFound for unknown codes.
	FindByCode(ctx context.Context, lobbyCode string) (*Lobby, error)

	// FindOldestWaiting returns the oldest lobby still waiting for a
	// second player, or nil when every lobby is full.
	FindOldestWaiting(ctx context.Context) (*Lobby, error)
}
