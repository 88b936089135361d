package commands

import (
	"context"
	"fmt"

	"github.com/mertbeyaz/battleship-go/internal/application/common"
	"github.com/mertbeyaz/battleship-go/internal/application/dtos"
	"github.com/mertbeyaz/battleship-go/internal/domain/game"
	"github.com/mertbeyaz/battleship-go/internal/domain/session"
)

// ResumeGameCommand represents a resume attempt carrying the token
// minted at join time
type ResumeGameCommand struct {
	Token string
}

// ResumeGameResponse carries the caller's snapshot and whether the
// handshake completed, i.e. the game is running again.
type ResumeGameResponse struct {
	Snapshot          dtos.SnapshotView
	HandshakeComplete bool
}

// ResumeGameHandler handles the ResumeGame command
type ResumeGameHandler struct {
	games       game.GameRepository
	tokens      *session.TokenRegistry
	connections session.ConnectionRepository
	publisher   game.EventPublisher
	locks       *common.GameLockRegistry
}

// NewResumeGameHandler creates a new ResumeGameHandler
func NewResumeGameHandler(
	games game.GameRepository,
	tokens *session.TokenRegistry,
	connections session.ConnectionRepository,
	publisher game.EventPublisher,
	locks *common.GameLockRegistry,
) *ResumeGameHandler {
	return &ResumeGameHandler{
		games:       games,
		tokens:      tokens,
		connections: connections,
		publisher:   publisher,
		locks:       locks,
	}
}

// Handle executes the ResumeGame command
func (h *ResumeGameHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ResumeGameCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ResumeGameCommand")
	}

	token, err := h.tokens.Resolve(ctx, cmd.Token)
	if err != nil {
		return nil, err
	}

	unlock := h.locks.Lock(token.GameCode)
	defer unlock()

	g, err := h.games.FindByCode(ctx, token.GameCode)
	if err != nil {
		return nil, err
	}

	complete, err := g.RequestResume(token.PlayerID, h.bothConnected(ctx, g))
	if err != nil {
		return nil, err
	}

	// The handshake only moved state when it emitted something.
	events := g.TakeEvents()
	if len(events) > 0 {
		if err := h.games.Save(ctx, g); err != nil {
			return nil, err
		}
		for _, event := range events {
			h.publisher.PublishGameEvent(event)
		}
	}

	snapshot, err := g.SnapshotFor(token.PlayerID)
	if err != nil {
		return nil, err
	}

	config := g.Config()
	return &ResumeGameResponse{
		Snapshot:          dtos.SnapshotToView(snapshot, config.BoardWidth, config.BoardHeight),
		HandshakeComplete: complete,
	}, nil
}

// bothConnected reports whether both participants hold a live
// subscription. Any lookup failure counts as not connected; the
// handshake then stays pending until the next attempt.
func (h *ResumeGameHandler) bothConnected(ctx context.Context, g *game.Game) bool {
	players := g.Players()
	if len(players) < 2 {
		return false
	}
	for _, p := range players {
		conn, err := h.connections.FindByGameAndPlayer(ctx, g.GameCode(), p.ID)
		if err != nil || !conn.Connected {
			return false
		}
	}
	return true
}
