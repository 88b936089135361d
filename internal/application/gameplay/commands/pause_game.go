package commands

import (
	"context"
	"fmt"

	"github.com/mertbeyaz/battleship-go/internal/application/common"
	"github.com/mertbeyaz/battleship-go/internal/application/dtos"
	"github.com/mertbeyaz/battleship-go/internal/domain/game"
)

// PauseGameCommand represents a command to suspend a running game
type PauseGameCommand struct {
	GameCode string
	PlayerID string
}

// PauseGameResponse represents the result of pausing a game
type PauseGameResponse struct {
	Game dtos.GameView
}

// PauseGameHandler handles the PauseGame command
type PauseGameHandler struct {
	games     game.GameRepository
	publisher game.EventPublisher
	locks     *common.GameLockRegistry
}

// NewPauseGameHandler creates a new PauseGameHandler
func NewPauseGameHandler(
	games game.GameRepository,
	publisher game.EventPublisher,
	locks *common.GameLockRegistry,
) *PauseGameHandler {
	return &PauseGameHandler{
		games:     games,
		publisher: publisher,
		locks:     locks,
	}
}

// Handle executes the PauseGame command
func (h *PauseGameHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*PauseGameCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *PauseGameCommand")
	}

	unlock := h.locks.Lock(cmd.GameCode)
	defer unlock()

	g, err := h.games.FindByCode(ctx, cmd.GameCode)
	if err != nil {
		return nil, err
	}

	if err := g.Pause(cmd.PlayerID); err != nil {
		return nil, err
	}

	if err := h.games.Save(ctx, g); err != nil {
		return nil, err
	}

	for _, event := range g.TakeEvents() {
		h.publisher.PublishGameEvent(event)
	}

	return &PauseGameResponse{Game: dtos.GameToView(g)}, nil
}
