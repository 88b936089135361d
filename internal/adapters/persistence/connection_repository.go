package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mertbeyaz/battleship-go/internal/domain/session"
	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
)

// GormConnectionRepository implements session.ConnectionRepository using GORM
type GormConnectionRepository struct {
	db *gorm.DB
}

// NewGormConnectionRepository creates a new GORM connection repository
func NewGormConnectionRepository(db *gorm.DB) *GormConnectionRepository {
	return &GormConnectionRepository{db: db}
}

// Upsert creates or replaces the row for (game, player)
func (r *GormConnectionRepository) Upsert(ctx context.Context, conn *session.PlayerConnection) error {
	model := r.connectionToModel(conn)

	// On conflict with (game_code, player_id), refresh the live fields
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "game_code"}, {Name: "player_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"session_id", "connected", "last_seen"}),
		}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert connection %s/%s: %w", conn.GameCode, conn.PlayerID, err)
	}
	return nil
}

// FindByGameAndPlayer retrieves the row for a (game, player) pair
func (r *GormConnectionRepository) FindByGameAndPlayer(ctx context.Context, gameCode, playerID string) (*session.PlayerConnection, error) {
	var model PlayerConnectionModel
	result := r.db.WithContext(ctx).
		Where("game_code = ? AND player_id = ?", gameCode, playerID).
		First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError("connection", fmt.Sprintf("%s/%s", gameCode, playerID))
		}
		return nil, fmt.Errorf("failed to find connection %s/%s: %w", gameCode, playerID, result.Error)
	}

	return r.modelToConnection(&model), nil
}

// FindBySession retrieves the row carrying the given transport session,
// or nil when the session is unknown
func (r *GormConnectionRepository) FindBySession(ctx context.Context, sessionID string) (*session.PlayerConnection, error) {
	var model PlayerConnectionModel
	result := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find connection by session %s: %w", sessionID, result.Error)
	}

	return r.modelToConnection(&model), nil
}

// FindByGame retrieves all connection rows of a game
func (r *GormConnectionRepository) FindByGame(ctx context.Context, gameCode string) ([]*session.PlayerConnection, error) {
	var models []PlayerConnectionModel
	result := r.db.WithContext(ctx).
		Where("game_code = ?", gameCode).
		Order("player_id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list connections of game %s: %w", gameCode, result.Error)
	}

	connections := make([]*session.PlayerConnection, 0, len(models))
	for i := range models {
		connections = append(connections, r.modelToConnection(&models[i]))
	}
	return connections, nil
}

// FindStale retrieves rows last seen before the cutoff
func (r *GormConnectionRepository) FindStale(ctx context.Context, cutoff time.Time) ([]*session.PlayerConnection, error) {
	var models []PlayerConnectionModel
	result := r.db.WithContext(ctx).Where("last_seen < ?", cutoff).Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to scan stale connections: %w", result.Error)
	}

	connections := make([]*session.PlayerConnection, 0, len(models))
	for i := range models {
		connections = append(connections, r.modelToConnection(&models[i]))
	}
	return connections, nil
}

// Delete removes the row for (game, player)
func (r *GormConnectionRepository) Delete(ctx context.Context, gameCode, playerID string) error {
	result := r.db.WithContext(ctx).
		Where("game_code = ? AND player_id = ?", gameCode, playerID).
		Delete(&PlayerConnectionModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete connection %s/%s: %w", gameCode, playerID, result.Error)
	}
	return nil
}

func (r *GormConnectionRepository) connectionToModel(conn *session.PlayerConnection) *PlayerConnectionModel {
	return &PlayerConnectionModel{
		GameCode:  conn.GameCode,
		PlayerID:  conn.PlayerID,
		SessionID: conn.SessionID,
		Connected: conn.Connected,
		LastSeen:  conn.LastSeen,
	}
}

func (r *GormConnectionRepository) modelToConnection(model *PlayerConnectionModel) *session.PlayerConnection {
	return &session.PlayerConnection{
		GameCode:  model.GameCode,
		PlayerID:  model.PlayerID,
		SessionID: model.SessionID,
		Connected: model.Connected,
		LastSeen:  model.LastSeen,
	}
}
