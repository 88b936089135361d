package session

import (
	"context"
	"fmt"

	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
)

// TokenRegistry mints and resolves resume tokens. Minting is
// idempotent per (game, player); a player re-joining the same game
// always gets the token minted at join time.
type TokenRegistry struct {
	tokens ResumeTokenRepository
	clock  shared.Clock
}

// NewTokenRegistry creates a registry over the given store.
// The clock parameter is optional - if nil, defaults to RealClock for production use
func NewTokenRegistry(tokens ResumeTokenRepository, clock shared.Clock) *TokenRegistry {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &TokenRegistry{tokens: tokens, clock: clock}
}

// MintFor returns the pair's token, creating it on first call.
func (r *TokenRegistry) MintFor(ctx context.Context, gameCode, playerID string) (*GameResumeToken, error) {
	existing, err := r.tokens.FindByGameAndPlayer(ctx, gameCode, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up resume token: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	token, err := NewGameResumeToken(gameCode, playerID)
	if err != nil {
		return nil, err
	}
	if err := r.tokens.Add(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to persist resume token: %w", err)
	}
	return token, nil
}

// Resolve maps a token back to its (game, player) pair and stamps the
// use. Fails with NotFound for unknown tokens.
func (r *TokenRegistry) Resolve(ctx context.Context, tokenValue string) (*GameResumeToken, error) {
	if tokenValue == "" {
		return nil, shared.NewNotFoundError("resume token", tokenValue)
	}

	token, err := r.tokens.FindByToken(ctx, tokenValue)
	if err != nil {
		return nil, err
	}

	token.Touch(r.clock.Now())
	if err := r.tokens.Save(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to stamp resume token: %w", err)
	}
	return token, nil
}
