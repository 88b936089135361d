package session

import (
	"context"
	"time"
)

// ResumeTokenRepository defines persistence operations for resume tokens
type ResumeTokenRepository interface {
	// Add inserts a freshly minted token
	Add(ctx context.Context, token *GameResumeToken) error

	// FindByToken retrieves a token by its value.
	// Fails with NotFound for unknown tokens.
	FindByToken(ctx context.Context, token string) (*GameResumeToken, error)

	// FindByGameAndPlayer retrieves the token for a (game, player) pair,
	// or nil when none was minted yet.
	FindByGameAndPlayer(ctx context.Context, gameCode, playerID string) (*GameResumeToken, error)

	// Save persists token mutations (last-used stamps)
	Save(ctx context.Context, token *GameResumeToken) error
}

// ConnectionRepository defines persistence operations for player connections
type ConnectionRepository interface {
	// Upsert creates or replaces the row for (game, player)
	Upsert(ctx context.Context, conn *PlayerConnection) error

	// FindByGameAndPlayer retrieves the row for a (game, player) pair.
	// Fails with NotFound when the player never subscribed.
	FindByGameAndPlayer(ctx context.Context, gameCode, playerID string) (*PlayerConnection, error)

	// FindBySession retrieves the row carrying the given transport session,
	// or nil when the session is unknown.
	FindBySession(ctx context.Context, sessionID string) (*PlayerConnection, error)

	// FindByGame retrieves all connection rows of a game
	FindByGame(ctx context.Context, gameCode string) ([]*PlayerConnection, error)

	// FindStale retrieves rows last seen before the cutoff
	FindStale(ctx context.Context, cutoff time.Time) ([]*PlayerConnection, error)

	// Delete removes the row for (game, player)
	Delete(ctx context.Context, gameCode, playerID string) error
}

// ChatRepository defines persistence operations for the chat log
type ChatRepository interface {
	// Append records a message at the end of the game's log
	Append(ctx context.Context, message *ChatMessage) error

	// FindByGame retrieves a game's log in insertion order
	FindByGame(ctx context.Context, gameCode string) ([]*ChatMessage, error)
}
