package queries

import (
	"context"
	"fmt"

	"github.com/mertbeyaz/battleship-go/internal/application/common"
	"github.com/mertbeyaz/battleship-go/internal/application/dtos"
	"github.com/mertbeyaz/battleship-go/internal/domain/game"
)

// GetGameQuery represents a query for a game's public state
type GetGameQuery struct {
	GameCode string
}

// GetGameResponse carries the public view: players, lock flags, turn
// holder, winner. Never placements.
type GetGameResponse struct {
	Game dtos.GameView
}

// GetGameHandler handles the GetGame query
type GetGameHandler struct {
	games game.GameRepository
}

// NewGetGameHandler creates a new GetGameHandler
func NewGetGameHandler(games game.GameRepository) *GetGameHandler {
	return &GetGameHandler{games: games}
}

// Handle executes the GetGame query
func (h *GetGameHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetGameQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetGameQuery")
	}

	g, err := h.games.FindByCode(ctx, query.GameCode)
	if err != nil {
		return nil, err
	}

	return &GetGameResponse{Game: dtos.GameToView(g)}, nil
}
