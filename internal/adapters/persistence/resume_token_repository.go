package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mertbeyaz/battleship-go/internal/domain/session"
	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
)

// GormResumeTokenRepository implements session.ResumeTokenRepository using GORM
type GormResumeTokenRepository struct {
	db *gorm.DB
}

// NewGormResumeTokenRepository creates a new GORM resume token repository
func NewGormResumeTokenRepository(db *gorm.DB) *GormResumeTokenRepository {
	return &GormResumeTokenRepository{db: db}
}

// Add inserts a freshly minted token
func (r *GormResumeTokenRepository) Add(ctx context.Context, token *session.GameResumeToken) error {
	model := r.tokenToModel(token)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to add resume token for %s/%s: %w", token.GameCode, token.PlayerID, err)
	}
	return nil
}

// FindByToken retrieves a token by its value
func (r *GormResumeTokenRepository) FindByToken(ctx context.Context, tokenValue string) (*session.GameResumeToken, error) {
	var model GameResumeTokenModel
	result := r.db.WithContext(ctx).Where("token = ?", tokenValue).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError("resume token", tokenValue)
		}
		return nil, fmt.Errorf("failed to find resume token: %w", result.Error)
	}

	return r.modelToToken(&model), nil
}

// FindByGameAndPlayer retrieves the token for a (game, player) pair,
// or nil when none was minted yet
func (r *GormResumeTokenRepository) FindByGameAndPlayer(ctx context.Context, gameCode, playerID string) (*session.GameResumeToken, error) {
	var model GameResumeTokenModel
	result := r.db.WithContext(ctx).
		Where("game_code = ? AND player_id = ?", gameCode, playerID).
		First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find resume token for %s/%s: %w", gameCode, playerID, result.Error)
	}

	return r.modelToToken(&model), nil
}

// Save persists token mutations
func (r *GormResumeTokenRepository) Save(ctx context.Context, token *session.GameResumeToken) error {
	result := r.db.WithContext(ctx).Model(&GameResumeTokenModel{}).
		Where("token = ?", token.Token).
		Update("last_used_at", token.LastUsedAt)
	if result.Error != nil {
		return fmt.Errorf("failed to save resume token: %w", result.Error)
	}
	return nil
}

func (r *GormResumeTokenRepository) tokenToModel(token *session.GameResumeToken) *GameResumeTokenModel {
	return &GameResumeTokenModel{
		Token:      token.Token,
		GameCode:   token.GameCode,
		PlayerID:   token.PlayerID,
		LastUsedAt: token.LastUsedAt,
	}
}

func (r *GormResumeTokenRepository) modelToToken(model *GameResumeTokenModel) *session.GameResumeToken {
	return &session.GameResumeToken{
		Token:      model.Token,
		GameCode:   model.GameCode,
		PlayerID:   model.PlayerID,
		LastUsedAt: model.LastUsedAt,
	}
}
