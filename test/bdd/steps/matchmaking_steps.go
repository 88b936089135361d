package steps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/mertbeyaz/battleship-go/internal/adapters/persistence"
	matchmaking "github.com/mertbeyaz/battleship-go/internal/application/matchmaking/commands"
	"github.com/mertbeyaz/battleship-go/internal/application/common"
	"github.com/mertbeyaz/battleship-go/internal/application/dtos"
	"github.com/mertbeyaz/battleship-go/internal/domain/game"
	"github.com/mertbeyaz/battleship-go/internal/domain/session"
	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
	"github.com/mertbeyaz/battleship-go/test/helpers"
)

type matchmakingContext struct {
	games     *persistence.GormGameRepository
	lobbies   *persistence.GormLobbyRepository
	tokens    *session.TokenRegistry
	publisher *helpers.MockEventPublisher
	clock     *shared.MockClock
	handler   *matchmaking.AutoJoinHandler

	// Seats by username, in join order
	seats   map[string]dtos.LobbyView
	joinErr error
}

func (mc *matchmakingContext) reset() {
	if err := helpers.TruncateAllTables(); err != nil {
		panic(fmt.Errorf("failed to truncate tables: %w", err))
	}

	mc.clock = shared.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	mc.games = persistence.NewGormGameRepository(helpers.SharedTestDB, mc.clock)
	mc.lobbies = persistence.NewGormLobbyRepository(helpers.SharedTestDB)
	mc.tokens = session.NewTokenRegistry(persistence.NewGormResumeTokenRepository(helpers.SharedTestDB), mc.clock)
	mc.publisher = helpers.NewMockEventPublisher()
	mc.handler = matchmaking.NewAutoJoinHandler(
		mc.games,
		mc.lobbies,
		mc.tokens,
		mc.publisher,
		common.NewGameLockRegistry(),
		game.DefaultConfiguration(),
		mc.clock,
	)
	mc.seats = make(map[string]dtos.LobbyView)
	mc.joinErr = nil
}

// Given steps

func (mc *matchmakingContext) noOpenLobbiesExist() error {
	open, err := mc.lobbies.FindOldestWaiting(context.Background())
	if err != nil {
		return err
	}
	if open != nil {
		return fmt.Errorf("expected no open lobbies, found %s", open.LobbyCode())
	}
	return nil
}

// When steps

func (mc *matchmakingContext) playerAutoJoins(username string) error {
	// Distinct clock instants keep the auto-placement seeds apart.
	mc.clock.Advance(time.Second)

	response, err := mc.handler.Handle(context.Background(), &matchmaking.AutoJoinCommand{Username: username})
	mc.joinErr = err
	if err != nil {
		return nil
	}
	mc.seats[username] = response.(*matchmaking.AutoJoinResponse).Lobby
	return nil
}

func (mc *matchmakingContext) aPlayerAutoJoinsWithABlankUsername() error {
	return mc.playerAutoJoins("   ")
}

// Then steps

func (mc *matchmakingContext) seatOf(username string) (dtos.LobbyView, error) {
	seat, ok := mc.seats[username]
	if !ok {
		return dtos.LobbyView{}, fmt.Errorf("player %s never joined", username)
	}
	return seat, nil
}

func (mc *matchmakingContext) theGameReportedToShouldBe(username, expectedStatus string) error {
	seat, err := mc.seatOf(username)
	if err != nil {
		return err
	}
	if seat.GameStatus != expectedStatus {
		return fmt.Errorf("expected game status %s, got %s", expectedStatus, seat.GameStatus)
	}
	return nil
}

func (mc *matchmakingContext) aWaitingLobbyShouldBeCreated() error {
	open, err := mc.lobbies.FindOldestWaiting(context.Background())
	if err != nil {
		return err
	}
	if open == nil {
		return fmt.Errorf("expected an open lobby, found none")
	}
	return nil
}

func (mc *matchmakingContext) playersShouldShareAGame(first, second string) error {
	a, err := mc.seatOf(first)
	if err != nil {
		return err
	}
	b, err := mc.seatOf(second)
	if err != nil {
		return err
	}
	if a.GameCode != b.GameCode {
		return fmt.Errorf("expected one game, got %s and %s", a.GameCode, b.GameCode)
	}
	return nil
}

func (mc *matchmakingContext) playersShouldBeInDifferentGames(first, second string) error {
	a, err := mc.seatOf(first)
	if err != nil {
		return err
	}
	b, err := mc.seatOf(second)
	if err != nil {
		return err
	}
	if a.GameCode == b.GameCode {
		return fmt.Errorf("expected separate games, both got %s", a.GameCode)
	}
	return nil
}

func (mc *matchmakingContext) theLobbyOfShouldBeMarkedFull(username string) error {
	seat, err := mc.seatOf(username)
	if err != nil {
		return err
	}
	reloaded, err := mc.lobbies.FindByCode(context.Background(), seat.LobbyCode)
	if err != nil {
		return fmt.Errorf("failed to reload lobby: %w", err)
	}
	if reloaded.IsOpen() {
		return fmt.Errorf("expected lobby %s to be full", seat.LobbyCode)
	}
	return nil
}

func (mc *matchmakingContext) aLobbyFullEventShouldBeAnnounced() error {
	events := mc.publisher.LobbyEvents()
	if len(events) == 0 {
		return fmt.Errorf("expected a lobby event, got none")
	}
	last := events[len(events)-1]
	if last.Event.Type != game.EventLobbyFull {
		return fmt.Errorf("expected %s, got %s", game.EventLobbyFull, last.Event.Type)
	}
	return nil
}

func (mc *matchmakingContext) bothBoardsShouldHoldAutoPlacedShips(count int) error {
	var anySeat dtos.LobbyView
	for _, seat := range mc.seats {
		anySeat = seat
		break
	}

	g, err := mc.games.FindByCode(context.Background(), anySeat.GameCode)
	if err != nil {
		return fmt.Errorf("failed to reload game: %w", err)
	}
	boards := g.Boards()
	if len(boards) != 2 {
		return fmt.Errorf("expected 2 boards, got %d", len(boards))
	}
	for _, b := range boards {
		if placed := len(b.Placements()); placed != count {
			return fmt.Errorf("expected %d ships on board %s, got %d", count, b.ID(), placed)
		}
	}
	return nil
}

func (mc *matchmakingContext) eachSeatedPlayerShouldHoldADistinctResumeToken() error {
	seen := make(map[string]string)
	for username, seat := range mc.seats {
		if seat.ResumeToken == "" {
			return fmt.Errorf("player %s holds no resume token", username)
		}
		if other, dup := seen[seat.ResumeToken]; dup {
			return fmt.Errorf("players %s and %s share a token", username, other)
		}
		seen[seat.ResumeToken] = username
	}
	return nil
}

func (mc *matchmakingContext) theJoinShouldFailAsABadRequest() error {
	if mc.joinErr == nil {
		return fmt.Errorf("expected the join to fail, but it succeeded")
	}
	var badRequest *shared.BadRequestError
	if !errors.As(mc.joinErr, &badRequest) {
		return fmt.Errorf("expected a bad request error, got %v", mc.joinErr)
	}
	return nil
}

// InitializeMatchmakingScenario registers the auto-join steps
func InitializeMatchmakingScenario(sc *godog.ScenarioContext) {
	mc := &matchmakingContext{}

	sc.Before(func(ctx context.Context, scenario *godog.Scenario) (context.Context, error) {
		mc.reset()
		return ctx, nil
	})

	// Given steps
	sc.Step(`^no open lobbies exist$`, mc.noOpenLobbiesExist)
	sc.Step(`^"([^"]*)" has auto-joined$`, mc.playerAutoJoins)

	// When steps
	sc.Step(`^"([^"]*)" auto-joins$`, mc.playerAutoJoins)
	sc.Step(`^a player auto-joins with a blank username$`, mc.aPlayerAutoJoinsWithABlankUsername)

	// Then steps
	sc.Step(`^a waiting lobby should be created$`, mc.aWaitingLobbyShouldBeCreated)
	sc.Step(`^the game reported to "([^"]*)" should be "([^"]*)"$`, mc.theGameReportedToShouldBe)
	sc.Step(`^"([^"]*)" and "([^"]*)" should share a game$`, mc.playersShouldShareAGame)
	sc.Step(`^"([^"]*)" and "([^"]*)" should be in different games$`, mc.playersShouldBeInDifferentGames)
	sc.Step(`^the lobby of "([^"]*)" should be marked full$`, mc.theLobbyOfShouldBeMarkedFull)
	sc.Step(`^a lobby full event should be announced$`, mc.aLobbyFullEventShouldBeAnnounced)
	sc.Step(`^both boards should hold (\d+) auto-placed ships$`, mc.bothBoardsShouldHoldAutoPlacedShips)
	sc.Step(`^each seated player should hold a distinct resume token$`, mc.eachSeatedPlayerShouldHoldADistinctResumeToken)
	sc.Step(`^the join should fail as a bad request$`, mc.theJoinShouldFailAsABadRequest)
}
