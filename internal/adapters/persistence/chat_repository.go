package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mertbeyaz/battleship-go/internal/domain/session"
)

// GormChatRepository implements session.ChatRepository using GORM
type GormChatRepository struct {
	db *gorm.DB
}

// NewGormChatRepository creates a new GORM chat repository
func NewGormChatRepository(db *gorm.DB) *GormChatRepository {
	return &GormChatRepository{db: db}
}

// Append records a message at the end of the game's log
func (r *GormChatRepository) Append(ctx context.Context, message *session.ChatMessage) error {
	model := &ChatMessageModel{
		GameCode:   message.GameCode,
		SenderID:   message.SenderID,
		SenderName: message.SenderName,
		Text:       message.Text,
		CreatedAt:  message.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to append chat message to game %s: %w", message.GameCode, err)
	}

	message.ID = model.ID
	return nil
}

// FindByGame retrieves a game's log in insertion order
func (r *GormChatRepository) FindByGame(ctx context.Context, gameCode string) ([]*session.ChatMessage, error) {
	var models []ChatMessageModel
	result := r.db.WithContext(ctx).
		Where("game_code = ?", gameCode).
		Order("id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load chat log of game %s: %w", gameCode, result.Error)
	}

	messages := make([]*session.ChatMessage, 0, len(models))
	for i := range models {
		model := &models[i]
		messages = append(messages, &session.ChatMessage{
			ID:         model.ID,
			GameCode:   model.GameCode,
			SenderID:   model.SenderID,
			SenderName: model.SenderName,
			Text:       model.Text,
			CreatedAt:  model.CreatedAt,
		})
	}
	return messages, nil
}
