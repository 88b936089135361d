package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/mertbeyaz/battleship-go/internal/domain/game"
	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
)

// GormGameRepository implements game.GameRepository using GORM
type GormGameRepository struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewGormGameRepository creates a new GORM game repository.
// The clock parameter is optional - if nil, defaults to RealClock for production use
func NewGormGameRepository(db *gorm.DB, clock shared.Clock) *GormGameRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormGameRepository{db: db, clock: clock}
}

// Add inserts a newly created game at version 1
func (r *GormGameRepository) Add(ctx context.Context, g *game.Game) error {
	model, err := r.gameToModel(g)
	if err != nil {
		return fmt.Errorf("failed to convert game to model: %w", err)
	}
	model.Version = 1

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to add game %s: %w", g.GameCode(), err)
	}

	g.SetVersion(1)
	return nil
}

// Save persists a mutated game, guarded by its version stamp. A stale
// stamp means another writer got there first and surfaces as Conflict.
func (r *GormGameRepository) Save(ctx context.Context, g *game.Game) error {
	model, err := r.gameToModel(g)
	if err != nil {
		return fmt.Errorf("failed to convert game to model: %w", err)
	}
	newVersion := g.Version() + 1

	result := r.db.WithContext(ctx).Model(&GameModel{}).
		Where("game_code = ? AND version = ?", g.GameCode(), g.Version()).
		Updates(map[string]interface{}{
			"status":                 model.Status,
			"players_json":           model.PlayersJSON,
			"boards_json":            model.BoardsJSON,
			"shots_json":             model.ShotsJSON,
			"current_turn_player_id": model.CurrentTurnPlayerID,
			"resume_ready_player_id": model.ResumeReadyPlayerID,
			"winner_player_id":       model.WinnerPlayerID,
			"version":                newVersion,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to save game %s: %w", g.GameCode(), result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewConflictError(
			fmt.Sprintf("game %s was modified concurrently at version %d", g.GameCode(), g.Version()))
	}

	g.SetVersion(newVersion)
	return nil
}

// FindByCode retrieves a game by its public code
func (r *GormGameRepository) FindByCode(ctx context.Context, gameCode string) (*game.Game, error) {
	var model GameModel
	result := r.db.WithContext(ctx).Where("game_code = ?", gameCode).First(&model)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError("game", gameCode)
		}
		return nil, fmt.Errorf("failed to find game %s: %w", gameCode, result.Error)
	}

	return r.modelToGame(&model)
}

// gameToModel converts the aggregate to its database row
func (r *GormGameRepository) gameToModel(g *game.Game) (*GameModel, error) {
	config := g.Config()
	configJSON, err := json.Marshal(configRecord{
		BoardWidth:  config.BoardWidth,
		BoardHeight: config.BoardHeight,
		ShipMargin:  config.ShipMargin,
		Fleet:       config.Fleet,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	players := g.Players()
	playerRecords := make([]playerRecord, 0, len(players))
	for _, p := range players {
		playerRecords = append(playerRecords, playerRecord{ID: p.ID, Username: p.Username})
	}
	playersJSON, err := json.Marshal(playerRecords)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal players: %w", err)
	}

	boards := g.Boards()
	boardRecords := make([]boardRecord, 0, len(boards))
	for _, b := range boards {
		placements := b.Placements()
		placementRecords := make([]placementRecord, 0, len(placements))
		for _, p := range placements {
			placementRecords = append(placementRecords, placementRecord{
				Ship:        string(p.Ship),
				X:           p.Start.X,
				Y:           p.Start.Y,
				Orientation: string(p.Orientation),
			})
		}
		boardRecords = append(boardRecords, boardRecord{
			ID:         b.ID(),
			OwnerID:    b.OwnerID(),
			Width:      b.Width(),
			Height:     b.Height(),
			Locked:     b.Locked(),
			Placements: placementRecords,
		})
	}
	boardsJSON, err := json.Marshal(boardRecords)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal boards: %w", err)
	}

	shots := g.Shots()
	shotRecords := make([]shotRecord, 0, len(shots))
	for _, s := range shots {
		shotRecords = append(shotRecords, shotRecord{
			X:             s.Coordinate.X,
			Y:             s.Coordinate.Y,
			Result:        string(s.Result),
			ShooterID:     s.ShooterID,
			TargetBoardID: s.TargetBoardID,
			Sequence:      s.Sequence,
		})
	}
	shotsJSON, err := json.Marshal(shotRecords)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal shots: %w", err)
	}

	return &GameModel{
		GameCode:            g.GameCode(),
		Status:              string(g.Status()),
		ConfigJSON:          string(configJSON),
		PlayersJSON:         string(playersJSON),
		BoardsJSON:          string(boardsJSON),
		ShotsJSON:           string(shotsJSON),
		CurrentTurnPlayerID: g.CurrentTurnPlayerID(),
		ResumeReadyPlayerID: g.ResumeReadyPlayerID(),
		WinnerPlayerID:      g.WinnerPlayerID(),
		Version:             g.Version(),
		CreatedAt:           g.CreatedAt(),
	}, nil
}

// modelToGame rebuilds the aggregate from its database row
func (r *GormGameRepository) modelToGame(model *GameModel) (*game.Game, error) {
	var configRec configRecord
	if err := json.Unmarshal([]byte(model.ConfigJSON), &configRec); err != nil {
		return nil, fmt.Errorf("invalid config in game %s: %w", model.GameCode, err)
	}

	var playerRecords []playerRecord
	if err := json.Unmarshal([]byte(model.PlayersJSON), &playerRecords); err != nil {
		return nil, fmt.Errorf("invalid players in game %s: %w", model.GameCode, err)
	}
	players := make([]game.Player, 0, len(playerRecords))
	for _, rec := range playerRecords {
		players = append(players, game.NewPlayer(rec.ID, rec.Username))
	}

	var boardRecords []boardRecord
	if err := json.Unmarshal([]byte(model.BoardsJSON), &boardRecords); err != nil {
		return nil, fmt.Errorf("invalid boards in game %s: %w", model.GameCode, err)
	}
	boards := make([]*game.Board, 0, len(boardRecords))
	for _, rec := range boardRecords {
		placements := make([]game.ShipPlacement, 0, len(rec.Placements))
		for _, p := range rec.Placements {
			placements = append(placements, game.NewShipPlacement(
				game.ShipType(p.Ship),
				game.Coordinate{X: p.X, Y: p.Y},
				game.Orientation(p.Orientation),
			))
		}
		boards = append(boards, game.RestoreBoard(
			rec.ID, rec.OwnerID, rec.Width, rec.Height, placements, rec.Locked))
	}

	var shotRecords []shotRecord
	if err := json.Unmarshal([]byte(model.ShotsJSON), &shotRecords); err != nil {
		return nil, fmt.Errorf("invalid shots in game %s: %w", model.GameCode, err)
	}
	shots := make([]game.Shot, 0, len(shotRecords))
	for _, rec := range shotRecords {
		shots = append(shots, game.Shot{
			Coordinate:    game.Coordinate{X: rec.X, Y: rec.Y},
			Result:        game.ShotResult(rec.Result),
			ShooterID:     rec.ShooterID,
			TargetBoardID: rec.TargetBoardID,
			Sequence:      rec.Sequence,
		})
	}

	return game.RestoreGame(game.GameState{
		GameCode: model.GameCode,
		Status:   game.Status(model.Status),
		Config: game.Configuration{
			BoardWidth:  configRec.BoardWidth,
			BoardHeight: configRec.BoardHeight,
			ShipMargin:  configRec.ShipMargin,
			Fleet:       configRec.Fleet,
		},
		Players:             players,
		Boards:              boards,
		Shots:               shots,
		CurrentTurnPlayerID: model.CurrentTurnPlayerID,
		ResumeReadyPlayerID: model.ResumeReadyPlayerID,
		WinnerPlayerID:      model.WinnerPlayerID,
		Version:             model.Version,
		CreatedAt:           model.CreatedAt,
	}, r.clock), nil
}
