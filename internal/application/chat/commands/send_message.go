package commands

import (
	"context"
	"fmt"
	"html"

	"github.com/mertbeyaz/battleship-go/internal/application/common"
	"github.com/mertbeyaz/battleship-go/internal/application/dtos"
	"github.com/mertbeyaz/battleship-go/internal/domain/game"
	"github.com/mertbeyaz/battleship-go/internal/domain/session"
	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
)

// SendMessageCommand represents a chat line sent into a game
type SendMessageCommand struct {
	GameCode string
	PlayerID string
	Text     string
}

// SendMessageResponse carries the stored message
type SendMessageResponse struct {
	Message dtos.ChatMessageView
}

// SendMessageHandler handles the SendMessage command. Messages are
// HTML-escaped before the length cap so nothing stored can render as
// markup.
type SendMessageHandler struct {
	games     game.GameRepository
	chat      session.ChatRepository
	publisher game.EventPublisher
	clock     shared.Clock
}

// NewSendMessageHandler creates a new SendMessageHandler
func NewSendMessageHandler(
	games game.GameRepository,
	chat session.ChatRepository,
	publisher game.EventPublisher,
	clock shared.Clock,
) *SendMessageHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &SendMessageHandler{
		games:     games,
		chat:      chat,
		publisher: publisher,
		clock:     clock,
	}
}

// Handle executes the SendMessage command
func (h *SendMessageHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*SendMessageCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SendMessageCommand")
	}

	g, err := h.games.FindByCode(ctx, cmd.GameCode)
	if err != nil {
		return nil, err
	}

	sender, ok := g.PlayerByID(cmd.PlayerID)
	if !ok {
		return nil, shared.NewForbiddenError(
			fmt.Sprintf("player %s is not part of game %s", cmd.PlayerID, cmd.GameCode), cmd.PlayerID)
	}

	message, err := session.NewChatMessage(
		cmd.GameCode, sender.ID, sender.Username, html.EscapeString(cmd.Text), h.clock.Now())
	if err != nil {
		return nil, shared.NewBadRequestError(err.Error())
	}

	if err := h.chat.Append(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to store chat message: %w", err)
	}

	h.publisher.PublishGameEvent(game.Event{
		Type:       game.EventChatMessage,
		GameCode:   g.GameCode(),
		GameStatus: g.Status(),
		Timestamp:  message.CreatedAt,
		Payload: game.ChatMessagePayload{
			PlayerID:   message.SenderID,
			PlayerName: message.SenderName,
			Text:       message.Text,
			CreatedAt:  message.CreatedAt,
		},
	})

	return &SendMessageResponse{Message: dtos.ChatMessageView{
		PlayerID:   message.SenderID,
		PlayerName: message.SenderName,
		Text:       message.Text,
		CreatedAt:  message.CreatedAt,
	}}, nil
}
