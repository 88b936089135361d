package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GameResumeToken lets a player re-enter their game after losing the
// browser session. The token is an unguessable UUID string; one token
// exists per (game, player) for the lifetime of the game.
type GameResumeToken struct {
	Token      string
	GameCode   string
	PlayerID   string
	LastUsedAt *time.Time
}

// NewGameResumeToken mints a fresh token for the pair.
func NewGameResumeToken(gameCode, playerID string) (*GameResumeToken, error) {
	if gameCode == "" {
		return nil, fmt.Errorf("game code cannot be empty")
	}
	if playerID == "" {
		return nil, fmt.Errorf("player ID cannot be empty")
	}
	return &GameResumeToken{
		Token:    uuid.New().String(),
		GameCode: gameCode,
		PlayerID: playerID,
	}, nil
}

// Touch records a successful resolve.
func (t *GameResumeToken) Touch(at time.Time) {
	t.LastUsedAt = &at
}
