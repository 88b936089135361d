package commands

import (
	"context"
	"fmt"

	"github.com/mertbeyaz/battleship-go/internal/application/common"
	"github.com/mertbeyaz/battleship-go/internal/application/dtos"
	"github.com/mertbeyaz/battleship-go/internal/domain/game"
)

// ConfirmBoardCommand represents a command to lock a player's board
type ConfirmBoardCommand struct {
	GameCode string
	PlayerID string
	BoardID  string
}

// ConfirmBoardResponse represents the result of confirming a board
type ConfirmBoardResponse struct {
	Game dtos.GameView
}

// ConfirmBoardHandler handles the ConfirmBoard command
type ConfirmBoardHandler struct {
	games     game.GameRepository
	publisher game.EventPublisher
	locks     *common.GameLockRegistry
}

// NewConfirmBoardHandler creates a new ConfirmBoardHandler
func NewConfirmBoardHandler(
	games game.GameRepository,
	publisher game.EventPublisher,
	locks *common.GameLockRegistry,
) *ConfirmBoardHandler {
	return &ConfirmBoardHandler{
		games:     games,
		publisher: publisher,
		locks:     locks,
	}
}

// Handle executes the ConfirmBoard command
func (h *ConfirmBoardHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ConfirmBoardCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ConfirmBoardCommand")
	}

	unlock := h.locks.Lock(cmd.GameCode)
	defer unlock()

	g, err := h.games.FindByCode(ctx, cmd.GameCode)
	if err != nil {
		return nil, err
	}

	if err := g.ConfirmBoard(cmd.PlayerID, cmd.BoardID); err != nil {
		return nil, err
	}

	if err := h.games.Save(ctx, g); err != nil {
		return nil, err
	}

	for _, event := range g.TakeEvents() {
		h.publisher.PublishGameEvent(event)
	}

	return &ConfirmBoardResponse{Game: dtos.GameToView(g)}, nil
}
