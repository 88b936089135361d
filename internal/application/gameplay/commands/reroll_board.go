package commands

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/mertbeyaz/battleship-go/internal/application/common"
	"github.com/mertbeyaz/battleship-go/internal/application/dtos"
	"github.com/mertbeyaz/battleship-go/internal/domain/game"
	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
)

// RerollBoardCommand represents a command to re-randomize an unlocked board
type RerollBoardCommand struct {
	GameCode string
	PlayerID string
	BoardID  string
}

// RerollBoardResponse carries the owner's re-placed board
type RerollBoardResponse struct {
	Board dtos.BoardView
}

// RerollBoardHandler handles the RerollBoard command
type RerollBoardHandler struct {
	games     game.GameRepository
	publisher game.EventPublisher
	locks     *common.GameLockRegistry
	clock     shared.Clock
}

// NewRerollBoardHandler creates a new RerollBoardHandler
func NewRerollBoardHandler(
	games game.GameRepository,
	publisher game.EventPublisher,
	locks *common.GameLockRegistry,
	clock shared.Clock,
) *RerollBoardHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &RerollBoardHandler{
		games:     games,
		publisher: publisher,
		locks:     locks,
		clock:     clock,
	}
}

// Handle executes the RerollBoard command
func (h *RerollBoardHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RerollBoardCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RerollBoardCommand")
	}

	unlock := h.locks.Lock(cmd.GameCode)
	defer unlock()

	g, err := h.games.FindByCode(ctx, cmd.GameCode)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(h.clock.Now().UnixNano()))
	board, err := g.RerollBoard(cmd.PlayerID, cmd.BoardID, rng)
	if err != nil {
		return nil, err
	}

	if err := h.games.Save(ctx, g); err != nil {
		return nil, err
	}

	for _, event := range g.TakeEvents() {
		h.publisher.PublishGameEvent(event)
	}

	return &RerollBoardResponse{Board: dtos.BoardToView(board)}, nil
}
