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

// FireShotCommand represents a command to fire at the opponent's board
type FireShotCommand struct {
	GameCode  string
	ShooterID string
	X         int
	Y         int
}

// FireShotResponse carries the resolved shot
type FireShotResponse struct {
	Shot dtos.ShotResultView
}

// FireShotHandler handles the FireShot command
type FireShotHandler struct {
	games     game.GameRepository
	publisher game.EventPublisher
	locks     *common.GameLockRegistry
	clock     shared.Clock
}

// NewFireShotHandler creates a new FireShotHandler
func NewFireShotHandler(
	games game.GameRepository,
	publisher game.EventPublisher,
	locks *common.GameLockRegistry,
	clock shared.Clock,
) *FireShotHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &FireShotHandler{
		games:     games,
		publisher: publisher,
		locks:     locks,
		clock:     clock,
	}
}

// Handle executes the FireShot command
func (h *FireShotHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*FireShotCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *FireShotCommand")
	}

	unlock := h.locks.Lock(cmd.GameCode)
	defer unlock()

	g, err := h.games.FindByCode(ctx, cmd.GameCode)
	if err != nil {
		return nil, err
	}

	shot, err := g.FireShot(cmd.ShooterID, game.Coordinate{X: cmd.X, Y: cmd.Y})
	if err != nil {
		return nil, err
	}

	// ALREADY_SHOT changes nothing, so there is nothing to save or
	// broadcast.
	if shot.Result != game.ShotResultAlreadyShot {
		if err := h.games.Save(ctx, g); err != nil {
			return nil, err
		}
		for _, event := range g.TakeEvents() {
			h.publisher.PublishGameEvent(event)
		}
	}

	metrics.RecordShotResolved(string(shot.Result))
	if g.Status() == game.StatusFinished {
		metrics.RecordGameFinished("victory", h.clock.Now().Sub(g.CreatedAt()).Seconds())
	}

	return &FireShotResponse{Shot: dtos.ShotResultView{
		X:                   shot.Coordinate.X,
		Y:                   shot.Coordinate.Y,
		Result:              string(shot.Result),
		Hit:                 shot.Result == game.ShotResultHit || shot.Result == game.ShotResultSunk,
		ShipSunk:            shot.Result == game.ShotResultSunk,
		GameStatus:          string(g.Status()),
		CurrentTurnPlayerID: g.CurrentTurnPlayerID(),
		WinnerPlayerID:      g.WinnerPlayerID(),
	}}, nil
}
