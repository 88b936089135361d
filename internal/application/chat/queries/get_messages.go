package queries

import (
	"context"
	"fmt"

	"github.com/mertbeyaz/battleship-go/internal/application/common"
	"github.com/mertbeyaz/battleship-go/internal/application/dtos"
	"github.com/mertbeyaz/battleship-go/internal/domain/game"
	"github.com/mertbeyaz/battleship-go/internal/domain/session"
)

// GetMessagesQuery represents a query for a game's chat log
type GetMessagesQuery struct {
	GameCode string
}

// GetMessagesResponse carries the log in insertion order
type GetMessagesResponse struct {
	Messages []dtos.ChatMessageView
}

// GetMessagesHandler handles the GetMessages query
type GetMessagesHandler struct {
	games game.GameRepository
	chat  session.ChatRepository
}

// NewGetMessagesHandler creates a new GetMessagesHandler
func NewGetMessagesHandler(games game.GameRepository, chat session.ChatRepository) *GetMessagesHandler {
	return &GetMessagesHandler{games: games, chat: chat}
}

// Handle executes the GetMessages query
func (h *GetMessagesHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetMessagesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetMessagesQuery")
	}

	// Unknown game codes fail here rather than returning an empty log.
	if _, err := h.games.FindByCode(ctx, query.GameCode); err != nil {
		return nil, err
	}

	messages, err := h.chat.FindByGame(ctx, query.GameCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat log: %w", err)
	}

	return &GetMessagesResponse{Messages: dtos.ChatToViews(messages)}, nil
}
