package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mertbeyaz/battleship-go/internal/adapters/persistence"
	"github.com/mertbeyaz/battleship-go/internal/application/common"
	"github.com/mertbeyaz/battleship-go/internal/application/dtos"
	"github.com/mertbeyaz/battleship-go/internal/application/matchmaking/commands"
	"github.com/mertbeyaz/battleship-go/internal/domain/game"
	"github.com/mertbeyaz/battleship-go/internal/domain/lobby"
	"github.com/mertbeyaz/battleship-go/internal/domain/session"
	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
	"github.com/mertbeyaz/battleship-go/test/helpers"
)

type autoJoinFixture struct {
	clock     *shared.MockClock
	games     *persistence.GormGameRepository
	lobbies   *persistence.GormLobbyRepository
	tokens    *session.TokenRegistry
	publisher *helpers.MockEventPublisher
	locks     *common.GameLockRegistry
	handler   *commands.AutoJoinHandler
}

func newAutoJoinFixture(t *testing.T) *autoJoinFixture {
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	fix := &autoJoinFixture{
		clock:     clock,
		games:     persistence.NewGormGameRepository(db, clock),
		lobbies:   persistence.NewGormLobbyRepository(db),
		tokens:    session.NewTokenRegistry(persistence.NewGormResumeTokenRepository(db), clock),
		publisher: helpers.NewMockEventPublisher(),
		locks:     common.NewGameLockRegistry(),
	}
	fix.handler = commands.NewAutoJoinHandler(
		fix.games, fix.lobbies, fix.tokens, fix.publisher, fix.locks,
		game.DefaultConfiguration(), clock)
	return fix
}

// join seats a player through the handler. The clock advances so each
// join gets its own placement seed.
func (f *autoJoinFixture) join(t *testing.T, username string) dtos.LobbyView {
	t.Helper()

	f.clock.Advance(time.Second)
	response, err := f.handler.Handle(context.Background(), &commands.AutoJoinCommand{Username: username})
	require.NoError(t, err)

	view, ok := response.(*commands.AutoJoinResponse)
	require.True(t, ok)
	return view.Lobby
}

// conflictingGames wraps a real game store and fails the next N saves
// with a version conflict.
type conflictingGames struct {
	game.GameRepository
	conflicts int
}

func (s *conflictingGames) Save(ctx context.Context, g *game.Game) error {
	if s.conflicts > 0 {
		s.conflicts--
		return shared.NewConflictError("game saved concurrently")
	}
	return s.GameRepository.Save(ctx, g)
}

func TestAutoJoinHandler_FirstPlayerOpensLobby(t *testing.T) {
	// Arrange
	fix := newAutoJoinFixture(t)

	// Act
	seat := fix.join(t, "alice")

	// Assert
	assert.Equal(t, string(lobby.StatusWaiting), seat.LobbyStatus)
	assert.Equal(t, string(game.StatusWaiting), seat.GameStatus)
	assert.Equal(t, "alice", seat.Username)
	assert.NotEmpty(t, seat.PlayerID)
	assert.NotEmpty(t, seat.BoardID)
	assert.NotEmpty(t, seat.ResumeToken)

	g, err := fix.games.FindByCode(context.Background(), seat.GameCode)
	require.NoError(t, err)
	assert.Len(t, g.Players(), 1)
	assert.Empty(t, fix.publisher.LobbyEvents())
}

func TestAutoJoinHandler_SecondPlayerFillsOldestLobby(t *testing.T) {
	// Arrange
	fix := newAutoJoinFixture(t)
	first := fix.join(t, "alice")

	// Act
	second := fix.join(t, "bob")

	// Assert - both seats share one game and one lobby
	assert.Equal(t, first.GameCode, second.GameCode)
	assert.Equal(t, first.LobbyCode, second.LobbyCode)
	assert.Equal(t, string(lobby.StatusFull), second.LobbyStatus)
	assert.Equal(t, string(game.StatusSetup), second.GameStatus)
	assert.NotEqual(t, first.PlayerID, second.PlayerID)
	assert.NotEqual(t, first.ResumeToken, second.ResumeToken)

	g, err := fix.games.FindByCode(context.Background(), second.GameCode)
	require.NoError(t, err)
	require.Len(t, g.Players(), 2)
	for _, board := range g.Boards() {
		assert.Len(t, board.Placements(), 6)
	}

	events := fix.publisher.LobbyEvents()
	require.Len(t, events, 1)
	assert.Equal(t, first.LobbyCode, events[0].LobbyCode)
	assert.Equal(t, game.EventLobbyFull, events[0].Event.Type)
}

func TestAutoJoinHandler_ThirdPlayerOpensFreshLobby(t *testing.T) {
	// Arrange
	fix := newAutoJoinFixture(t)
	first := fix.join(t, "alice")
	fix.join(t, "bob")

	// Act
	third := fix.join(t, "carol")

	// Assert
	assert.NotEqual(t, first.GameCode, third.GameCode)
	assert.NotEqual(t, first.LobbyCode, third.LobbyCode)
	assert.Equal(t, string(lobby.StatusWaiting), third.LobbyStatus)
}

func TestAutoJoinHandler_BlankUsernameRejected(t *testing.T) {
	// Arrange
	fix := newAutoJoinFixture(t)

	// Act
	_, err := fix.handler.Handle(context.Background(), &commands.AutoJoinCommand{Username: "   "})

	// Assert
	var badRequest *shared.BadRequestError
	assert.ErrorAs(t, err, &badRequest)
}

func TestAutoJoinHandler_RetriesAfterVersionConflict(t *testing.T) {
	// Arrange - alice waits; bob's first save attempt loses a race
	fix := newAutoJoinFixture(t)
	first := fix.join(t, "alice")

	flaky := &conflictingGames{GameRepository: fix.games, conflicts: 1}
	handler := commands.NewAutoJoinHandler(
		flaky, fix.lobbies, fix.tokens, fix.publisher, fix.locks,
		game.DefaultConfiguration(), fix.clock)

	// Act
	response, err := handler.Handle(context.Background(), &commands.AutoJoinCommand{Username: "bob"})

	// Assert - the retry pairs bob anyway
	require.NoError(t, err)
	seat := response.(*commands.AutoJoinResponse).Lobby
	assert.Equal(t, first.GameCode, seat.GameCode)

	g, err := fix.games.FindByCode(context.Background(), seat.GameCode)
	require.NoError(t, err)
	assert.Len(t, g.Players(), 2)
}

func TestAutoJoinHandler_GivesUpAfterRepeatedConflicts(t *testing.T) {
	// Arrange
	fix := newAutoJoinFixture(t)
	fix.join(t, "alice")

	flaky := &conflictingGames{GameRepository: fix.games, conflicts: 3}
	handler := commands.NewAutoJoinHandler(
		flaky, fix.lobbies, fix.tokens, fix.publisher, fix.locks,
		game.DefaultConfiguration(), fix.clock)

	// Act
	_, err := handler.Handle(context.Background(), &commands.AutoJoinCommand{Username: "bob"})

	// Assert
	var conflict *shared.ConflictError
	assert.ErrorAs(t, err, &conflict)
}
