package steps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/mertbeyaz/battleship-go/internal/adapters/persistence"
	gameplay "github.com/mertbeyaz/battleship-go/internal/application/gameplay/commands"
	matchmaking "github.com/mertbeyaz/battleship-go/internal/application/matchmaking/commands"
	"github.com/mertbeyaz/battleship-go/internal/application/common"
	"github.com/mertbeyaz/battleship-go/internal/application/dtos"
	"github.com/mertbeyaz/battleship-go/internal/domain/game"
	"github.com/mertbeyaz/battleship-go/internal/domain/session"
	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
	"github.com/mertbeyaz/battleship-go/test/helpers"
)

type gameplayContext struct {
	games     *persistence.GormGameRepository
	lobbies   *persistence.GormLobbyRepository
	tokens    *session.TokenRegistry
	publisher *helpers.MockEventPublisher
	locks     *common.GameLockRegistry
	clock     *shared.MockClock

	autoJoin *matchmaking.AutoJoinHandler
	confirm  *gameplay.ConfirmBoardHandler
	reroll   *gameplay.RerollBoardHandler
	fire     *gameplay.FireShotHandler
	pause    *gameplay.PauseGameHandler
	forfeit  *gameplay.ForfeitGameHandler

	gameCode  string
	seats     map[string]dtos.LobbyView
	lastShot  *dtos.ShotResultView
	lastCoord game.Coordinate
	lastErr   error
}

func (gc *gameplayContext) reset() {
	if err := helpers.TruncateAllTables(); err != nil {
		panic(fmt.Errorf("failed to truncate tables: %w", err))
	}

	gc.clock = shared.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	gc.games = persistence.NewGormGameRepository(helpers.SharedTestDB, gc.clock)
	gc.lobbies = persistence.NewGormLobbyRepository(helpers.SharedTestDB)
	gc.tokens = session.NewTokenRegistry(persistence.NewGormResumeTokenRepository(helpers.SharedTestDB), gc.clock)
	gc.publisher = helpers.NewMockEventPublisher()
	gc.locks = common.NewGameLockRegistry()

	gc.autoJoin = matchmaking.NewAutoJoinHandler(
		gc.games, gc.lobbies, gc.tokens, gc.publisher, gc.locks, game.DefaultConfiguration(), gc.clock)
	gc.confirm = gameplay.NewConfirmBoardHandler(gc.games, gc.publisher, gc.locks)
	gc.reroll = gameplay.NewRerollBoardHandler(gc.games, gc.publisher, gc.locks, gc.clock)
	gc.fire = gameplay.NewFireShotHandler(gc.games, gc.publisher, gc.locks, gc.clock)
	gc.pause = gameplay.NewPauseGameHandler(gc.games, gc.publisher, gc.locks)
	gc.forfeit = gameplay.NewForfeitGameHandler(gc.games, gc.publisher, gc.locks, gc.clock)

	gc.gameCode = ""
	gc.seats = make(map[string]dtos.LobbyView)
	gc.lastShot = nil
	gc.lastCoord = game.Coordinate{}
	gc.lastErr = nil
}

// seat helpers

func (gc *gameplayContext) seatOf(username string) (dtos.LobbyView, error) {
	seat, ok := gc.seats[username]
	if !ok {
		return dtos.LobbyView{}, fmt.Errorf("player %s is not seated in this scenario", username)
	}
	return seat, nil
}

func (gc *gameplayContext) loadGame() (*game.Game, error) {
	if gc.gameCode == "" {
		return nil, fmt.Errorf("no game set up in this scenario")
	}
	return gc.games.FindByCode(context.Background(), gc.gameCode)
}

func (gc *gameplayContext) joinAs(username string) error {
	gc.clock.Advance(time.Second)
	response, err := gc.autoJoin.Handle(context.Background(), &matchmaking.AutoJoinCommand{Username: username})
	if err != nil {
		return err
	}
	seat := response.(*matchmaking.AutoJoinResponse).Lobby
	gc.seats[username] = seat
	gc.gameCode = seat.GameCode
	return nil
}

func (gc *gameplayContext) confirmAs(username string) error {
	seat, err := gc.seatOf(username)
	if err != nil {
		return err
	}
	_, err = gc.confirm.Handle(context.Background(), &gameplay.ConfirmBoardCommand{
		GameCode: gc.gameCode,
		PlayerID: seat.PlayerID,
		BoardID:  seat.BoardID,
	})
	gc.lastErr = err
	return nil
}

// defenderBoard returns the opponent's board for the given shooter.
func (gc *gameplayContext) defenderBoard(shooter string) (*game.Game, *game.Board, error) {
	seat, err := gc.seatOf(shooter)
	if err != nil {
		return nil, nil, err
	}
	g, err := gc.loadGame()
	if err != nil {
		return nil, nil, err
	}
	defender, ok := g.Opponent(seat.PlayerID)
	if !ok {
		return nil, nil, fmt.Errorf("game %s has no opponent for %s", gc.gameCode, shooter)
	}
	board, ok := g.BoardOf(defender.ID)
	if !ok {
		return nil, nil, fmt.Errorf("defender %s has no board", defender.ID)
	}
	return g, board, nil
}

// shotAt reports whether the board already took a shot at the cell.
func shotAt(g *game.Game, boardID string, c game.Coordinate) bool {
	for _, s := range g.Shots() {
		if s.TargetBoardID == boardID && s.Coordinate == c {
			return true
		}
	}
	return false
}

// hitCellFor picks an untouched cell covered by an enemy ship.
func (gc *gameplayContext) hitCellFor(shooter string) (game.Coordinate, error) {
	g, board, err := gc.defenderBoard(shooter)
	if err != nil {
		return game.Coordinate{}, err
	}
	for _, placement := range board.Placements() {
		for _, cell := range placement.Coordinates() {
			if !shotAt(g, board.ID(), cell) {
				return cell, nil
			}
		}
	}
	return game.Coordinate{}, fmt.Errorf("no untouched ship cells left on board %s", board.ID())
}

// missCellFor picks an untouched cell of open water.
func (gc *gameplayContext) missCellFor(shooter string) (game.Coordinate, error) {
	g, board, err := gc.defenderBoard(shooter)
	if err != nil {
		return game.Coordinate{}, err
	}
	for y := 0; y < board.Height(); y++ {
		for x := 0; x < board.Width(); x++ {
			cell := game.Coordinate{X: x, Y: y}
			if _, covered := board.PlacementAt(cell); covered {
				continue
			}
			if !shotAt(g, board.ID(), cell) {
				return cell, nil
			}
		}
	}
	return game.Coordinate{}, fmt.Errorf("no open water left on board %s", board.ID())
}

func (gc *gameplayContext) fireAs(shooter string, c game.Coordinate) error {
	seat, err := gc.seatOf(shooter)
	if err != nil {
		return err
	}
	response, err := gc.fire.Handle(context.Background(), &gameplay.FireShotCommand{
		GameCode:  gc.gameCode,
		ShooterID: seat.PlayerID,
		X:         c.X,
		Y:         c.Y,
	})
	gc.lastErr = err
	gc.lastCoord = c
	if err == nil {
		shot := response.(*gameplay.FireShotResponse).Shot
		gc.lastShot = &shot
	} else {
		gc.lastShot = nil
	}
	return nil
}

// Given steps

func (gc *gameplayContext) aGameBetweenInSetup(first, second string) error {
	if err := gc.joinAs(first); err != nil {
		return err
	}
	return gc.joinAs(second)
}

func (gc *gameplayContext) aRunningGameBetween(first, second string) error {
	if err := gc.aGameBetweenInSetup(first, second); err != nil {
		return err
	}
	if err := gc.confirmAs(first); err != nil {
		return err
	}
	if gc.lastErr != nil {
		return gc.lastErr
	}
	if err := gc.confirmAs(second); err != nil {
		return err
	}
	return gc.lastErr
}

func (gc *gameplayContext) aWaitingGameWithOnly(first string) error {
	return gc.joinAs(first)
}

func (gc *gameplayContext) aPausedGameBetween(first, second string) error {
	if err := gc.aRunningGameBetween(first, second); err != nil {
		return err
	}
	seat, err := gc.seatOf(first)
	if err != nil {
		return err
	}
	_, err = gc.pause.Handle(context.Background(), &gameplay.PauseGameCommand{
		GameCode: gc.gameCode,
		PlayerID: seat.PlayerID,
	})
	return err
}

func (gc *gameplayContext) hasConfirmedTheirBoard(username string) error {
	if err := gc.confirmAs(username); err != nil {
		return err
	}
	return gc.lastErr
}

// When steps

func (gc *gameplayContext) confirmsTheirBoard(username string) error {
	return gc.confirmAs(username)
}

func (gc *gameplayContext) rerollsTheirBoard(username string) error {
	seat, err := gc.seatOf(username)
	if err != nil {
		return err
	}
	gc.clock.Advance(time.Second)
	_, err = gc.reroll.Handle(context.Background(), &gameplay.RerollBoardCommand{
		GameCode: gc.gameCode,
		PlayerID: seat.PlayerID,
		BoardID:  seat.BoardID,
	})
	gc.lastErr = err
	return nil
}

func (gc *gameplayContext) triesToConfirmTheBoardOf(actor, owner string) error {
	actorSeat, err := gc.seatOf(actor)
	if err != nil {
		return err
	}
	ownerSeat, err := gc.seatOf(owner)
	if err != nil {
		return err
	}
	_, err = gc.confirm.Handle(context.Background(), &gameplay.ConfirmBoardCommand{
		GameCode: gc.gameCode,
		PlayerID: actorSeat.PlayerID,
		BoardID:  ownerSeat.BoardID,
	})
	gc.lastErr = err
	return nil
}

func (gc *gameplayContext) firesAtAnEnemyShip(shooter string) error {
	cell, err := gc.hitCellFor(shooter)
	if err != nil {
		return err
	}
	return gc.fireAs(shooter, cell)
}

func (gc *gameplayContext) firesAtOpenWater(shooter string) error {
	cell, err := gc.missCellFor(shooter)
	if err != nil {
		return err
	}
	return gc.fireAs(shooter, cell)
}

func (gc *gameplayContext) repeatsTheirLastShot(shooter string) error {
	return gc.fireAs(shooter, gc.lastCoord)
}

func (gc *gameplayContext) firesOutsideTheBoard(shooter string) error {
	return gc.fireAs(shooter, game.Coordinate{X: 99, Y: 99})
}

func (gc *gameplayContext) sinksTheEntireEnemyFleet(shooter string) error {
	_, board, err := gc.defenderBoard(shooter)
	if err != nil {
		return err
	}
	// Hits never flip the turn, so one player can clear the board.
	for _, placement := range board.Placements() {
		for _, cell := range placement.Coordinates() {
			if err := gc.fireAs(shooter, cell); err != nil {
				return err
			}
			if gc.lastErr != nil {
				return fmt.Errorf("shot at %s failed: %w", cell, gc.lastErr)
			}
		}
	}
	return nil
}

func (gc *gameplayContext) pausesTheGame(username string) error {
	seat, err := gc.seatOf(username)
	if err != nil {
		return err
	}
	_, err = gc.pause.Handle(context.Background(), &gameplay.PauseGameCommand{
		GameCode: gc.gameCode,
		PlayerID: seat.PlayerID,
	})
	gc.lastErr = err
	return nil
}

func (gc *gameplayContext) forfeitsTheGame(username string) error {
	seat, err := gc.seatOf(username)
	if err != nil {
		return err
	}
	_, err = gc.forfeit.Handle(context.Background(), &gameplay.ForfeitGameCommand{
		GameCode: gc.gameCode,
		PlayerID: seat.PlayerID,
	})
	gc.lastErr = err
	return nil
}

func (gc *gameplayContext) anOutsiderTriesToPauseTheGame() error {
	_, err := gc.pause.Handle(context.Background(), &gameplay.PauseGameCommand{
		GameCode: gc.gameCode,
		PlayerID: "intruder",
	})
	gc.lastErr = err
	return nil
}

// Then steps

func (gc *gameplayContext) theGameStatusShouldBe(expected string) error {
	g, err := gc.loadGame()
	if err != nil {
		return err
	}
	if string(g.Status()) != expected {
		return fmt.Errorf("expected game status %s, got %s", expected, g.Status())
	}
	return nil
}

func (gc *gameplayContext) theShotShouldBeReportedAs(expected string) error {
	if gc.lastErr != nil {
		return fmt.Errorf("expected a resolved shot, got error: %v", gc.lastErr)
	}
	if gc.lastShot == nil {
		return fmt.Errorf("no shot was resolved")
	}
	if gc.lastShot.Result != expected {
		return fmt.Errorf("expected shot result %s, got %s", expected, gc.lastShot.Result)
	}
	return nil
}

func (gc *gameplayContext) theTurnShouldBelongTo(username string) error {
	seat, err := gc.seatOf(username)
	if err != nil {
		return err
	}
	g, err := gc.loadGame()
	if err != nil {
		return err
	}
	if g.CurrentTurnPlayerID() != seat.PlayerID {
		return fmt.Errorf("expected the turn to belong to %s (%s), got %s",
			username, seat.PlayerID, g.CurrentTurnPlayerID())
	}
	return nil
}

func (gc *gameplayContext) theWinnerShouldBe(username string) error {
	seat, err := gc.seatOf(username)
	if err != nil {
		return err
	}
	g, err := gc.loadGame()
	if err != nil {
		return err
	}
	if g.WinnerPlayerID() != seat.PlayerID {
		return fmt.Errorf("expected winner %s (%s), got %q", username, seat.PlayerID, g.WinnerPlayerID())
	}
	return nil
}

func (gc *gameplayContext) aGameEventShouldBePublished(eventType string) error {
	if !gc.publisher.HasEventOfType(game.EventType(eventType)) {
		return fmt.Errorf("expected a %s event, recorded %d game events", eventType, len(gc.publisher.GameEvents()))
	}
	return nil
}

func (gc *gameplayContext) noGameEventShouldBePublished(eventType string) error {
	if gc.publisher.HasEventOfType(game.EventType(eventType)) {
		return fmt.Errorf("expected no %s event, but one was published", eventType)
	}
	return nil
}

func (gc *gameplayContext) theShotHistoryShouldHoldEntries(count int) error {
	g, err := gc.loadGame()
	if err != nil {
		return err
	}
	if len(g.Shots()) != count {
		return fmt.Errorf("expected %d recorded shots, got %d", count, len(g.Shots()))
	}
	return nil
}

func (gc *gameplayContext) theOperationShouldBeRejectedAsOutOfTurn() error {
	if gc.lastErr == nil {
		return fmt.Errorf("expected an out of turn rejection, but the operation succeeded")
	}
	var outOfTurn *shared.OutOfTurnError
	if !errors.As(gc.lastErr, &outOfTurn) {
		return fmt.Errorf("expected an out of turn error, got %v", gc.lastErr)
	}
	return nil
}

func (gc *gameplayContext) theOperationShouldBeRejectedAsForbidden() error {
	if gc.lastErr == nil {
		return fmt.Errorf("expected a forbidden rejection, but the operation succeeded")
	}
	var forbidden *shared.ForbiddenError
	if !errors.As(gc.lastErr, &forbidden) {
		return fmt.Errorf("expected a forbidden error, got %v", gc.lastErr)
	}
	return nil
}

func (gc *gameplayContext) theOperationShouldBeRejectedAsAnIllegalState() error {
	if gc.lastErr == nil {
		return fmt.Errorf("expected an illegal state rejection, but the operation succeeded")
	}
	var illegal *shared.IllegalStateError
	if !errors.As(gc.lastErr, &illegal) {
		return fmt.Errorf("expected an illegal state error, got %v", gc.lastErr)
	}
	return nil
}

func (gc *gameplayContext) theOperationShouldBeRejectedAsABadRequest() error {
	if gc.lastErr == nil {
		return fmt.Errorf("expected a bad request rejection, but the operation succeeded")
	}
	var badRequest *shared.BadRequestError
	if !errors.As(gc.lastErr, &badRequest) {
		return fmt.Errorf("expected a bad request error, got %v", gc.lastErr)
	}
	return nil
}

// InitializeGameplayScenario registers board setup, firing, pause and
// forfeit steps
func InitializeGameplayScenario(sc *godog.ScenarioContext) {
	gc := &gameplayContext{}

	sc.Before(func(ctx context.Context, scenario *godog.Scenario) (context.Context, error) {
		gc.reset()
		return ctx, nil
	})

	// Given steps
	sc.Step(`^a game between "([^"]*)" and "([^"]*)" in setup$`, gc.aGameBetweenInSetup)
	sc.Step(`^a running game between "([^"]*)" and "([^"]*)"$`, gc.aRunningGameBetween)
	sc.Step(`^a waiting game holding only "([^"]*)"$`, gc.aWaitingGameWithOnly)
	sc.Step(`^a paused game between "([^"]*)" and "([^"]*)"$`, gc.aPausedGameBetween)
	sc.Step(`^"([^"]*)" has confirmed their board$`, gc.hasConfirmedTheirBoard)

	// When steps
	sc.Step(`^"([^"]*)" confirms their board$`, gc.confirmsTheirBoard)
	sc.Step(`^"([^"]*)" confirms their board again$`, gc.confirmsTheirBoard)
	sc.Step(`^"([^"]*)" rerolls their board$`, gc.rerollsTheirBoard)
	sc.Step(`^"([^"]*)" tries to confirm the board of "([^"]*)"$`, gc.triesToConfirmTheBoardOf)
	sc.Step(`^"([^"]*)" fires at an enemy ship$`, gc.firesAtAnEnemyShip)
	sc.Step(`^"([^"]*)" fires at open water$`, gc.firesAtOpenWater)
	sc.Step(`^"([^"]*)" repeats their last shot$`, gc.repeatsTheirLastShot)
	sc.Step(`^"([^"]*)" fires outside the board$`, gc.firesOutsideTheBoard)
	sc.Step(`^"([^"]*)" sinks the entire enemy fleet$`, gc.sinksTheEntireEnemyFleet)
	sc.Step(`^"([^"]*)" pauses the game$`, gc.pausesTheGame)
	sc.Step(`^"([^"]*)" forfeits the game$`, gc.forfeitsTheGame)
	sc.Step(`^an outsider tries to pause the game$`, gc.anOutsiderTriesToPauseTheGame)

	// Then steps
	sc.Step(`^the game status should be "([^"]*)"$`, gc.theGameStatusShouldBe)
	sc.Step(`^the shot should be reported as "([^"]*)"$`, gc.theShotShouldBeReportedAs)
	sc.Step(`^the turn should belong to "([^"]*)"$`, gc.theTurnShouldBelongTo)
	sc.Step(`^the turn should remain with "([^"]*)"$`, gc.theTurnShouldBelongTo)
	sc.Step(`^the winner should be "([^"]*)"$`, gc.theWinnerShouldBe)
	sc.Step(`^a game event "([^"]*)" should be published$`, gc.aGameEventShouldBePublished)
	sc.Step(`^no game event "([^"]*)" should be published$`, gc.noGameEventShouldBePublished)
	sc.Step(`^the shot history should hold (\d+) entries$`, gc.theShotHistoryShouldHoldEntries)
	sc.Step(`^the operation should be rejected as out of turn$`, gc.theOperationShouldBeRejectedAsOutOfTurn)
	sc.Step(`^the operation should be rejected as forbidden$`, gc.theOperationShouldBeRejectedAsForbidden)
	sc.Step(`^the operation should be rejected as an illegal state$`, gc.theOperationShouldBeRejectedAsAnIllegalState)
	sc.Step(`^the operation should be rejected as a bad request$`, gc.theOperationShouldBeRejectedAsABadRequest)
}
