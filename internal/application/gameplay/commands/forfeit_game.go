package commands

import (
	"context"
	"fmt"

	"github.com/mertbeyaz/battleship-go/internal/adapters/metrics"
	"github.com/mertbeyaz/battleship-go/internal/application/common"
	"github.com/mertbeyaz/battleship-go/internal/application/dtos"
	"github.com/mertbeyaz/battleship-go/internal/domain/game"
	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
)

// ForfeitGameCommand represents a command to concede a game
type ForfeitGameCommand struct {
	GameCode string
	PlayerID string
}

// ForfeitGameResponse represents the result of forfeiting
type ForfeitGameResponse struct {
	Game dtos.GameView
}

// ForfeitGameHandler handles the ForfeitGame command
type ForfeitGameHandler struct {
	games     game.GameRepository
	publisher game.EventPublisher
	locks     *common.GameLockRegistry
	clock     shared.Clock
}

// NewForfeitGameHandler creates a new ForfeitGameHandler
func NewForfeitGameHandler(
	games game.GameRepository,
	publisher game.EventPublisher,
	locks *common.GameLockRegistry,
	clock shared.Clock,
) *ForfeitGameHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &ForfeitGameHandler{
		games:     games,
		publisher: publisher,
		locks:     locks,
		clock:     clock,
	}
}

// Handle executes the ForfeitGame command
func (h *ForfeitGameHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ForfeitGameCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ForfeitGameCommand")
	}

	unlock := h.locks.Lock(cmd.GameCode)
	defer unlock()

	g, err := h.games.FindByCode(ctx, cmd.GameCode)
	if err != nil {
		return nil, err
	}

	if err := g.Forfeit(cmd.PlayerID); err != nil {
		return nil, err
	}

	if err := h.games.Save(ctx, g); err != nil {
		return nil, err
	}

	for _, event := range g.TakeEvents() {
		h.publisher.PublishGameEvent(event)
	}

	metrics.RecordGameFinished("forfeit", h.clock.Now().Sub(g.CreatedAt()).Seconds())

	return &ForfeitGameResponse{Game: dtos.GameToView(g)}, nil
}
