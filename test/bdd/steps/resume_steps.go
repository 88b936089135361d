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
	sessioncmds "github.com/mertbeyaz/battleship-go/internal/application/session/commands"
	"github.com/mertbeyaz/battleship-go/internal/application/common"
	"github.com/mertbeyaz/battleship-go/internal/application/dtos"
	"github.com/mertbeyaz/battleship-go/internal/domain/game"
	"github.com/mertbeyaz/battleship-go/internal/domain/session"
	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
	"github.com/mertbeyaz/battleship-go/test/helpers"
)

type resumeContext struct {
	games       *persistence.GormGameRepository
	lobbies     *persistence.GormLobbyRepository
	tokens      *session.TokenRegistry
	connections *persistence.GormConnectionRepository
	publisher   *helpers.MockEventPublisher
	locks       *common.GameLockRegistry
	clock       *shared.MockClock

	autoJoin *matchmaking.AutoJoinHandler
	confirm  *gameplay.ConfirmBoardHandler
	pause    *gameplay.PauseGameHandler
	resume   *sessioncmds.ResumeGameHandler

	gameCode   string
	seats      map[string]dtos.LobbyView
	lastResume *sessioncmds.ResumeGameResponse
	lastViewer string
	lastErr    error
}

func (rc *resumeContext) reset() {
	if err := helpers.TruncateAllTables(); err != nil {
		panic(fmt.Errorf("failed to truncate tables: %w", err))
	}

	rc.clock = shared.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	rc.games = persistence.NewGormGameRepository(helpers.SharedTestDB, rc.clock)
	rc.lobbies = persistence.NewGormLobbyRepository(helpers.SharedTestDB)
	rc.tokens = session.NewTokenRegistry(persistence.NewGormResumeTokenRepository(helpers.SharedTestDB), rc.clock)
	rc.connections = persistence.NewGormConnectionRepository(helpers.SharedTestDB)
	rc.publisher = helpers.NewMockEventPublisher()
	rc.locks = common.NewGameLockRegistry()

	rc.autoJoin = matchmaking.NewAutoJoinHandler(
		rc.games, rc.lobbies, rc.tokens, rc.publisher, rc.locks, game.DefaultConfiguration(), rc.clock)
	rc.confirm = gameplay.NewConfirmBoardHandler(rc.games, rc.publisher, rc.locks)
	rc.pause = gameplay.NewPauseGameHandler(rc.games, rc.publisher, rc.locks)
	rc.resume = sessioncmds.NewResumeGameHandler(rc.games, rc.tokens, rc.connections, rc.publisher, rc.locks)

	rc.gameCode = ""
	rc.seats = make(map[string]dtos.LobbyView)
	rc.lastResume = nil
	rc.lastViewer = ""
	rc.lastErr = nil
}

func (rc *resumeContext) seatOf(username string) (dtos.LobbyView, error) {
	seat, ok := rc.seats[username]
	if !ok {
		return dtos.LobbyView{}, fmt.Errorf("player %s is not seated in this scenario", username)
	}
	return seat, nil
}

func (rc *resumeContext) joinAs(username string) error {
	rc.clock.Advance(time.Second)
	response, err := rc.autoJoin.Handle(context.Background(), &matchmaking.AutoJoinCommand{Username: username})
	if err != nil {
		return err
	}
	seat := response.(*matchmaking.AutoJoinResponse).Lobby
	rc.seats[username] = seat
	rc.gameCode = seat.GameCode
	return nil
}

func (rc *resumeContext) presentToken(username string) error {
	seat, err := rc.seatOf(username)
	if err != nil {
		return err
	}
	response, err := rc.resume.Handle(context.Background(), &sessioncmds.ResumeGameCommand{Token: seat.ResumeToken})
	rc.lastErr = err
	rc.lastViewer = username
	if err == nil {
		rc.lastResume = response.(*sessioncmds.ResumeGameResponse)
	} else {
		rc.lastResume = nil
	}
	return nil
}

// Given steps

func (rc *resumeContext) aPausedMatchWhereFaces(first, second string) error {
	if err := rc.joinAs(first); err != nil {
		return err
	}
	if err := rc.joinAs(second); err != nil {
		return err
	}
	for _, username := range []string{first, second} {
		seat, err := rc.seatOf(username)
		if err != nil {
			return err
		}
		if _, err := rc.confirm.Handle(context.Background(), &gameplay.ConfirmBoardCommand{
			GameCode: rc.gameCode,
			PlayerID: seat.PlayerID,
			BoardID:  seat.BoardID,
		}); err != nil {
			return err
		}
	}
	firstSeat, err := rc.seatOf(first)
	if err != nil {
		return err
	}
	_, err = rc.pause.Handle(context.Background(), &gameplay.PauseGameCommand{
		GameCode: rc.gameCode,
		PlayerID: firstSeat.PlayerID,
	})
	return err
}

func (rc *resumeContext) aWaitingMatchHoldingOnly(username string) error {
	return rc.joinAs(username)
}

func (rc *resumeContext) aLiveMatchWhereFaces(first, second string) error {
	if err := rc.joinAs(first); err != nil {
		return err
	}
	if err := rc.joinAs(second); err != nil {
		return err
	}
	for _, username := range []string{first, second} {
		seat, err := rc.seatOf(username)
		if err != nil {
			return err
		}
		if _, err := rc.confirm.Handle(context.Background(), &gameplay.ConfirmBoardCommand{
			GameCode: rc.gameCode,
			PlayerID: seat.PlayerID,
			BoardID:  seat.BoardID,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (rc *resumeContext) bothParticipantsHoldLiveSubscriptions() error {
	for username, seat := range rc.seats {
		conn := session.NewPlayerConnection(rc.gameCode, seat.PlayerID, "sess-"+username, rc.clock.Now())
		if err := rc.connections.Upsert(context.Background(), conn); err != nil {
			return fmt.Errorf("failed to record connection for %s: %w", username, err)
		}
	}
	return nil
}

func (rc *resumeContext) holdsNoLiveSubscription(username string) error {
	seat, err := rc.seatOf(username)
	if err != nil {
		return err
	}
	conn := session.NewPlayerConnection(rc.gameCode, seat.PlayerID, "sess-"+username, rc.clock.Now())
	conn.MarkDisconnected(rc.clock.Now())
	return rc.connections.Upsert(context.Background(), conn)
}

func (rc *resumeContext) hasAlreadyRequestedAResume(username string) error {
	if err := rc.presentToken(username); err != nil {
		return err
	}
	return rc.lastErr
}

// When steps

func (rc *resumeContext) presentsTheirResumeToken(username string) error {
	return rc.presentToken(username)
}

func (rc *resumeContext) aResumeIsAttemptedWithToken(token string) error {
	response, err := rc.resume.Handle(context.Background(), &sessioncmds.ResumeGameCommand{Token: token})
	rc.lastErr = err
	if err == nil {
		rc.lastResume = response.(*sessioncmds.ResumeGameResponse)
	} else {
		rc.lastResume = nil
	}
	return nil
}

// Then steps

func (rc *resumeContext) theResumeHandshakeShouldBeComplete() error {
	if rc.lastErr != nil {
		return fmt.Errorf("expected a completed handshake, got error: %v", rc.lastErr)
	}
	if rc.lastResume == nil {
		return fmt.Errorf("no resume response recorded")
	}
	if !rc.lastResume.HandshakeComplete {
		return fmt.Errorf("expected the handshake to be complete")
	}
	return nil
}

func (rc *resumeContext) theResumeHandshakeShouldStillBePending() error {
	if rc.lastErr != nil {
		return fmt.Errorf("expected a pending handshake, got error: %v", rc.lastErr)
	}
	if rc.lastResume == nil {
		return fmt.Errorf("no resume response recorded")
	}
	if rc.lastResume.HandshakeComplete {
		return fmt.Errorf("expected the handshake to still be pending")
	}
	return nil
}

func (rc *resumeContext) theMatchShouldBe(expected string) error {
	g, err := rc.games.FindByCode(context.Background(), rc.gameCode)
	if err != nil {
		return err
	}
	if string(g.Status()) != expected {
		return fmt.Errorf("expected match status %s, got %s", expected, g.Status())
	}
	return nil
}

func (rc *resumeContext) aResumeEventShouldBeBroadcast(eventType string) error {
	if !rc.publisher.HasEventOfType(game.EventType(eventType)) {
		return fmt.Errorf("expected a %s event to be broadcast", eventType)
	}
	return nil
}

func (rc *resumeContext) exactlyEventsShouldBeBroadcast(count int, eventType string) error {
	recorded := len(rc.publisher.EventsOfType(game.EventType(eventType)))
	if recorded != count {
		return fmt.Errorf("expected exactly %d %s events, got %d", count, eventType, recorded)
	}
	return nil
}

func (rc *resumeContext) theResumeShouldFailAsNotFound() error {
	if rc.lastErr == nil {
		return fmt.Errorf("expected the resume to fail, but it succeeded")
	}
	var notFound *shared.NotFoundError
	if !errors.As(rc.lastErr, &notFound) {
		return fmt.Errorf("expected a not found error, got %v", rc.lastErr)
	}
	return nil
}

func (rc *resumeContext) theResumeShouldBeRejectedAsAnIllegalState() error {
	if rc.lastErr == nil {
		return fmt.Errorf("expected the resume to be rejected, but it succeeded")
	}
	var illegal *shared.IllegalStateError
	if !errors.As(rc.lastErr, &illegal) {
		return fmt.Errorf("expected an illegal state error, got %v", rc.lastErr)
	}
	return nil
}

func (rc *resumeContext) theSnapshotShouldCarryTheViewersOwnFleet() error {
	if rc.lastResume == nil {
		return fmt.Errorf("no resume response recorded")
	}
	seat, err := rc.seatOf(rc.lastViewer)
	if err != nil {
		return err
	}
	snapshot := rc.lastResume.Snapshot
	if snapshot.PlayerID != seat.PlayerID {
		return fmt.Errorf("expected snapshot for %s, got player %s", rc.lastViewer, snapshot.PlayerID)
	}
	if snapshot.OwnBoard.OwnerID != seat.PlayerID {
		return fmt.Errorf("snapshot board belongs to %s, not the viewer", snapshot.OwnBoard.OwnerID)
	}
	if len(snapshot.OwnBoard.Placements) == 0 {
		return fmt.Errorf("expected the viewer's placements in the snapshot")
	}
	return nil
}

func (rc *resumeContext) theSnapshotShouldMarkTheOpponentBoardAsLocked() error {
	if rc.lastResume == nil {
		return fmt.Errorf("no resume response recorded")
	}
	if !rc.lastResume.Snapshot.OpponentBoardLocked {
		return fmt.Errorf("expected the opponent board to be reported locked")
	}
	return nil
}

// InitializeResumeScenario registers the resume handshake steps
func InitializeResumeScenario(sc *godog.ScenarioContext) {
	rc := &resumeContext{}

	sc.Before(func(ctx context.Context, scenario *godog.Scenario) (context.Context, error) {
		rc.reset()
		return ctx, nil
	})

	// Given steps
	sc.Step(`^a paused match where "([^"]*)" faces "([^"]*)"$`, rc.aPausedMatchWhereFaces)
	sc.Step(`^a live match where "([^"]*)" faces "([^"]*)"$`, rc.aLiveMatchWhereFaces)
	sc.Step(`^a waiting match holding only "([^"]*)"$`, rc.aWaitingMatchHoldingOnly)
	sc.Step(`^both participants hold live subscriptions$`, rc.bothParticipantsHoldLiveSubscriptions)
	sc.Step(`^"([^"]*)" holds no live subscription$`, rc.holdsNoLiveSubscription)
	sc.Step(`^"([^"]*)" has already requested a resume$`, rc.hasAlreadyRequestedAResume)

	// When steps
	sc.Step(`^"([^"]*)" presents their resume token$`, rc.presentsTheirResumeToken)
	sc.Step(`^"([^"]*)" presents their resume token again$`, rc.presentsTheirResumeToken)
	sc.Step(`^a resume is attempted with token "([^"]*)"$`, rc.aResumeIsAttemptedWithToken)

	// Then steps
	sc.Step(`^the resume handshake should be complete$`, rc.theResumeHandshakeShouldBeComplete)
	sc.Step(`^the resume handshake should still be pending$`, rc.theResumeHandshakeShouldStillBePending)
	sc.Step(`^the match should be "([^"]*)"$`, rc.theMatchShouldBe)
	sc.Step(`^a resume event "([^"]*)" should be broadcast$`, rc.aResumeEventShouldBeBroadcast)
	sc.Step(`^exactly (\d+) "([^"]*)" events should be broadcast$`, rc.exactlyEventsShouldBeBroadcast)
	sc.Step(`^the resume should fail as not found$`, rc.theResumeShouldFailAsNotFound)
	sc.Step(`^the resume should be rejected as an illegal state$`, rc.theResumeShouldBeRejectedAsAnIllegalState)
	sc.Step(`^the snapshot should carry the viewer's own fleet$`, rc.theSnapshotShouldCarryTheViewersOwnFleet)
	sc.Step(`^the snapshot should mark the opponent board as locked$`, rc.theSnapshotShouldMarkTheOpponentBoardAsLocked)
}
