package steps

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/mertbeyaz/battleship-go/internal/adapters/persistence"
	chatcmds "github.com/mertbeyaz/battleship-go/internal/application/chat/commands"
	chatqueries "github.com/mertbeyaz/battleship-go/internal/application/chat/queries"
	matchmaking "github.com/mertbeyaz/battleship-go/internal/application/matchmaking/commands"
	"github.com/mertbeyaz/battleship-go/internal/application/common"
	"github.com/mertbeyaz/battleship-go/internal/application/dtos"
	"github.com/mertbeyaz/battleship-go/internal/domain/game"
	"github.com/mertbeyaz/battleship-go/internal/domain/session"
	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
	"github.com/mertbeyaz/battleship-go/test/helpers"
)

type chatContext struct {
	games     *persistence.GormGameRepository
	lobbies   *persistence.GormLobbyRepository
	tokens    *session.TokenRegistry
	chat      *persistence.GormChatRepository
	publisher *helpers.MockEventPublisher
	clock     *shared.MockClock

	autoJoin *matchmaking.AutoJoinHandler
	send     *chatcmds.SendMessageHandler
	fetch    *chatqueries.GetMessagesHandler

	gameCode string
	seats    map[string]dtos.LobbyView
	log      []dtos.ChatMessageView
	lastErr  error
}

func (cc *chatContext) reset() {
	if err := helpers.TruncateAllTables(); err != nil {
		panic(fmt.Errorf("failed to truncate tables: %w", err))
	}

	cc.clock = shared.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	cc.games = persistence.NewGormGameRepository(helpers.SharedTestDB, cc.clock)
	cc.lobbies = persistence.NewGormLobbyRepository(helpers.SharedTestDB)
	cc.tokens = session.NewTokenRegistry(persistence.NewGormResumeTokenRepository(helpers.SharedTestDB), cc.clock)
	cc.chat = persistence.NewGormChatRepository(helpers.SharedTestDB)
	cc.publisher = helpers.NewMockEventPublisher()

	cc.autoJoin = matchmaking.NewAutoJoinHandler(
		cc.games, cc.lobbies, cc.tokens, cc.publisher, common.NewGameLockRegistry(),
		game.DefaultConfiguration(), cc.clock)
	cc.send = chatcmds.NewSendMessageHandler(cc.games, cc.chat, cc.publisher, cc.clock)
	cc.fetch = chatqueries.NewGetMessagesHandler(cc.games, cc.chat)

	cc.gameCode = ""
	cc.seats = make(map[string]dtos.LobbyView)
	cc.log = nil
	cc.lastErr = nil
}

func (cc *chatContext) seatOf(username string) (dtos.LobbyView, error) {
	seat, ok := cc.seats[username]
	if !ok {
		return dtos.LobbyView{}, fmt.Errorf("player %s is not seated in this scenario", username)
	}
	return seat, nil
}

func (cc *chatContext) sendAs(playerID, text string) error {
	// Each message gets its own timestamp so ordering is observable.
	cc.clock.Advance(time.Second)
	_, err := cc.send.Handle(context.Background(), &chatcmds.SendMessageCommand{
		GameCode: cc.gameCode,
		PlayerID: playerID,
		Text:     text,
	})
	cc.lastErr = err
	return nil
}

// Given steps

func (cc *chatContext) arePlayingAMatch(first, second string) error {
	for _, username := range []string{first, second} {
		cc.clock.Advance(time.Second)
		response, err := cc.autoJoin.Handle(context.Background(), &matchmaking.AutoJoinCommand{Username: username})
		if err != nil {
			return err
		}
		seat := response.(*matchmaking.AutoJoinResponse).Lobby
		cc.seats[username] = seat
		cc.gameCode = seat.GameCode
	}
	return nil
}

func (cc *chatContext) hasSentTheChatMessage(username, text string) error {
	seat, err := cc.seatOf(username)
	if err != nil {
		return err
	}
	if err := cc.sendAs(seat.PlayerID, text); err != nil {
		return err
	}
	return cc.lastErr
}

// When steps

func (cc *chatContext) sendsTheChatMessage(username, text string) error {
	seat, err := cc.seatOf(username)
	if err != nil {
		return err
	}
	return cc.sendAs(seat.PlayerID, text)
}

func (cc *chatContext) sendsAChatMessageOfCharacters(username string, length int) error {
	seat, err := cc.seatOf(username)
	if err != nil {
		return err
	}
	return cc.sendAs(seat.PlayerID, strings.Repeat("a", length))
}

func (cc *chatContext) anOutsiderSendsTheChatMessage(text string) error {
	return cc.sendAs("intruder", text)
}

func (cc *chatContext) theChatLogIsFetched() error {
	response, err := cc.fetch.Handle(context.Background(), &chatqueries.GetMessagesQuery{GameCode: cc.gameCode})
	cc.lastErr = err
	if err == nil {
		cc.log = response.(*chatqueries.GetMessagesResponse).Messages
	} else {
		cc.log = nil
	}
	return nil
}

func (cc *chatContext) theChatLogOfAnUnknownGameIsFetched() error {
	_, err := cc.fetch.Handle(context.Background(), &chatqueries.GetMessagesQuery{GameCode: "NOPE1234"})
	cc.lastErr = err
	return nil
}

// Then steps

func (cc *chatContext) theChatLogShouldHoldMessages(count int) error {
	if len(cc.log) != count {
		return fmt.Errorf("expected %d messages in the log, got %d", count, len(cc.log))
	}
	return nil
}

func (cc *chatContext) messageShouldBeFrom(index int, text, username string) error {
	if index < 1 || index > len(cc.log) {
		return fmt.Errorf("message %d out of range, log holds %d", index, len(cc.log))
	}
	seat, err := cc.seatOf(username)
	if err != nil {
		return err
	}
	message := cc.log[index-1]
	if message.Text != text {
		return fmt.Errorf("expected message %d to be %q, got %q", index, text, message.Text)
	}
	if message.PlayerID != seat.PlayerID {
		return fmt.Errorf("expected message %d from %s, got sender %s", index, username, message.PlayerID)
	}
	return nil
}

func (cc *chatContext) theStoredTextShouldBe(expected string) error {
	messages, err := cc.chat.FindByGame(context.Background(), cc.gameCode)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		return fmt.Errorf("no messages stored")
	}
	stored := messages[len(messages)-1].Text
	if stored != expected {
		return fmt.Errorf("expected stored text %q, got %q", expected, stored)
	}
	return nil
}

func (cc *chatContext) theStoredTextShouldBeCharactersLong(length int) error {
	messages, err := cc.chat.FindByGame(context.Background(), cc.gameCode)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		return fmt.Errorf("no messages stored")
	}
	stored := messages[len(messages)-1].Text
	if len(stored) != length {
		return fmt.Errorf("expected %d stored characters, got %d", length, len(stored))
	}
	return nil
}

func (cc *chatContext) aChatEventShouldBeBroadcast() error {
	if !cc.publisher.HasEventOfType(game.EventChatMessage) {
		return fmt.Errorf("expected a %s event to be broadcast", game.EventChatMessage)
	}
	return nil
}

func (cc *chatContext) theChatMessageShouldBeRejectedAsForbidden() error {
	if cc.lastErr == nil {
		return fmt.Errorf("expected the message to be rejected, but it was accepted")
	}
	var forbidden *shared.ForbiddenError
	if !errors.As(cc.lastErr, &forbidden) {
		return fmt.Errorf("expected a forbidden error, got %v", cc.lastErr)
	}
	return nil
}

func (cc *chatContext) theChatMessageShouldBeRejectedAsABadRequest() error {
	if cc.lastErr == nil {
		return fmt.Errorf("expected the message to be rejected, but it was accepted")
	}
	var badRequest *shared.BadRequestError
	if !errors.As(cc.lastErr, &badRequest) {
		return fmt.Errorf("expected a bad request error, got %v", cc.lastErr)
	}
	return nil
}

func (cc *chatContext) theFetchShouldFailAsNotFound() error {
	if cc.lastErr == nil {
		return fmt.Errorf("expected the fetch to fail, but it succeeded")
	}
	var notFound *shared.NotFoundError
	if !errors.As(cc.lastErr, &notFound) {
		return fmt.Errorf("expected a not found error, got %v", cc.lastErr)
	}
	return nil
}

// InitializeChatScenario registers the in-game chat steps
func InitializeChatScenario(sc *godog.ScenarioContext) {
	cc := &chatContext{}

	sc.Before(func(ctx context.Context, scenario *godog.Scenario) (context.Context, error) {
		cc.reset()
		return ctx, nil
	})

	// Given steps
	sc.Step(`^"([^"]*)" and "([^"]*)" are playing a match$`, cc.arePlayingAMatch)
	sc.Step(`^"([^"]*)" has sent the chat message "([^"]*)"$`, cc.hasSentTheChatMessage)

	// When steps
	sc.Step(`^"([^"]*)" sends the chat message "([^"]*)"$`, cc.sendsTheChatMessage)
	sc.Step(`^"([^"]*)" sends a chat message of (\d+) characters$`, cc.sendsAChatMessageOfCharacters)
	sc.Step(`^an outsider sends the chat message "([^"]*)"$`, cc.anOutsiderSendsTheChatMessage)
	sc.Step(`^the chat log is fetched$`, cc.theChatLogIsFetched)
	sc.Step(`^the chat log of an unknown game is fetched$`, cc.theChatLogOfAnUnknownGameIsFetched)

	// Then steps
	sc.Step(`^the chat log should hold (\d+) messages?$`, cc.theChatLogShouldHoldMessages)
	sc.Step(`^message (\d+) should be "([^"]*)" from "([^"]*)"$`, cc.messageShouldBeFrom)
	sc.Step(`^the stored text should be "([^"]*)"$`, cc.theStoredTextShouldBe)
	sc.Step(`^the stored text should be (\d+) characters long$`, cc.theStoredTextShouldBeCharactersLong)
	sc.Step(`^a chat event should be broadcast$`, cc.aChatEventShouldBeBroadcast)
	sc.Step(`^the chat message should be rejected as forbidden$`, cc.theChatMessageShouldBeRejectedAsForbidden)
	sc.Step(`^the chat message should be rejected as a bad request$`, cc.theChatMessageShouldBeRejectedAsABadRequest)
	sc.Step(`^the fetch should fail as not found$`, cc.theFetchShouldFailAsNotFound)
}
