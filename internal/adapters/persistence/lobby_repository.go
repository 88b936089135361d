package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mertbeyaz/battleship-go/internal/domain/lobby"
	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
)

// GormLobbyRepository implements lobby.LobbyRepository using GORM
type GormLobbyRepository struct {
	db *gorm.DB
}

// NewGormLobbyRepository creates a new GORM lobby repository
func NewGormLobbyRepository(db *gorm.DB) *GormLobbyRepository {
	return &GormLobbyRepository{db: db}
}

// Add inserts a newly created lobby at version 1
func (r *GormLobbyRepository) Add(ctx context.Context, l *lobby.Lobby) error {
	model := r.lobbyToModel(l)
	model.Version = 1

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to add lobby %s: %w", l.LobbyCode(), err)
	}

	l.SetVersion(1)
	return nil
}

// Save persists a mutated lobby, guarded by its version stamp
func (r *GormLobbyRepository) Save(ctx context.Context, l *lobby.Lobby) error {
	newVersion := l.Version() + 1

	result := r.db.WithContext(ctx).Model(&LobbyModel{}).
		Where("lobby_code = ? AND version = ?", l.LobbyCode(), l.Version()).
		Updates(map[string]interface{}{
			"status":  string(l.Status()),
			"version": newVersion,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to save lobby %s: %w", l.LobbyCode(), result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewConflictError(
			fmt.Sprintf("lobby %s was modified concurrently at version %d", l.LobbyCode(), l.Version()))
	}

	l.SetVersion(newVersion)
	return nil
}

// FindByCode retrieves a lobby by its public code
func (r *GormLobbyRepository) FindByCode(ctx context.Context, lobbyCode string) (*lobby.Lobby, error) {
	var model LobbyModel
	result := r.db.WithContext(ctx).Where("lobby_code = ?", lobbyCode).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError("lobby", lobbyCode)
		}
		return nil, fmt.Errorf("failed to find lobby %s: %w", lobbyCode, result.Error)
	}

	return r.modelToLobby(&model), nil
}

// FindOldestWaiting returns the oldest lobby still waiting for a
// second player, or nil when every lobby is full. Ties on created_at
// break by lobby code so the scan order is stable.
func (r *GormLobbyRepository) FindOldestWaiting(ctx context.Context) (*lobby.Lobby, error) {
	var model LobbyModel
	result := r.db.WithContext(ctx).
		Where("status = ?", string(lobby.StatusWaiting)).
		Order("created_at ASC, lobby_code ASC").
		First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan waiting lobbies: %w", result.Error)
	}

	return r.modelToLobby(&model), nil
}

func (r *GormLobbyRepository) lobbyToModel(l *lobby.Lobby) *LobbyModel {
	return &LobbyModel{
		LobbyCode: l.LobbyCode(),
		Status:    string(l.Status()),
		GameCode:  l.GameCode(),
		CreatedAt: l.CreatedAt(),
		Version:   l.Version(),
	}
}

func (r *GormLobbyRepository) modelToLobby(model *LobbyModel) *lobby.Lobby {
	return lobby.RestoreLobby(
		model.LobbyCode,
		lobby.Status(model.Status),
		model.GameCode,
		model.CreatedAt,
		model.Version,
	)
}
