package game_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mertbeyaz/battleship-go/internal/domain/game"
	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
)

var testStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newWaitingGame(t *testing.T) *game.Game {
	t.Helper()
	g, err := game.NewGame("GAME1234", game.DefaultConfiguration(), shared.NewMockClock(testStart))
	require.NoError(t, err)
	return g
}

// newSetupGame joins Ray then Max, leaving the game in SETUP with both
// boards auto-placed.
func newSetupGame(t *testing.T) *game.Game {
	t.Helper()
	g := newWaitingGame(t)
	rng := rand.New(rand.NewSource(42))

	_, err := g.Join(game.NewPlayer("ray-id", "Ray"), "board-ray", rng)
	require.NoError(t, err)
	_, err = g.Join(game.NewPlayer("max-id", "Max"), "board-max", rng)
	require.NoError(t, err)

	return g
}

// newRunningGame restores a RUNNING game with hand-crafted boards so
// shots land on known cells. Max's carrier sits at (0,0)-(0,4)
// vertical with a destroyer at (5,0)-(6,0); Ray holds the turn.
func newRunningGame(t *testing.T) *game.Game {
	t.Helper()

	rayBoard, err := game.NewBoard("board-ray", "ray-id", 10, 10)
	require.NoError(t, err)
	require.NoError(t, rayBoard.Place(game.ShipTypeDestroyer, game.Coordinate{X: 9, Y: 8}, game.OrientationVertical))
	rayBoard.Lock()

	maxBoard, err := game.NewBoard("board-max", "max-id", 10, 10)
	require.NoError(t, err)
	require.NoError(t, maxBoard.Place(game.ShipTypeCarrier, game.Coordinate{X: 0, Y: 0}, game.OrientationVertical))
	require.NoError(t, maxBoard.Place(game.ShipTypeDestroyer, game.Coordinate{X: 5, Y: 0}, game.OrientationHorizontal))
	maxBoard.Lock()

	return game.RestoreGame(game.GameState{
		GameCode: "GAME1234",
		Status:   game.StatusRunning,
		Config:   game.DefaultConfiguration(),
		Players: []game.Player{
			game.NewPlayer("ray-id", "Ray"),
			game.NewPlayer("max-id", "Max"),
		},
		Boards:              []*game.Board{rayBoard, maxBoard},
		CurrentTurnPlayerID: "ray-id",
		CreatedAt:           testStart,
	}, shared.NewMockClock(testStart))
}

func eventTypes(events []game.Event) []game.EventType {
	types := make([]game.EventType, 0, len(events))
	for _, e := range events {
		types = append(types, e.Type)
	}
	return types
}

func TestGame_JoinFlow(t *testing.T) {
	// Arrange
	g := newWaitingGame(t)
	rng := rand.New(rand.NewSource(7))

	// Act - first join
	board1, err := g.Join(game.NewPlayer("ray-id", "Ray"), "board-ray", rng)

	// Assert - still waiting, board empty
	require.NoError(t, err)
	assert.Equal(t, game.StatusWaiting, g.Status())
	assert.Empty(t, board1.Placements())

	// Act - second join
	board2, err := g.Join(game.NewPlayer("max-id", "Max"), "board-max", rng)

	// Assert - setup with both boards auto-placed
	require.NoError(t, err)
	assert.Equal(t, game.StatusSetup, g.Status())
	assert.Len(t, board1.Placements(), 8)
	assert.Len(t, board2.Placements(), 8)
	assert.False(t, board1.Locked())
	assert.False(t, board2.Locked())

	// Act - third join
	_, err = g.Join(game.NewPlayer("eve-id", "Eve"), "board-eve", rng)

	// Assert
	var illegal *shared.IllegalStateError
	require.ErrorAs(t, err, &illegal)
}

func TestGame_ConfirmBothBoards_StartsGame(t *testing.T) {
	g := newSetupGame(t)

	require.NoError(t, g.ConfirmBoard("ray-id", "board-ray"))
	assert.Equal(t, game.StatusSetup, g.Status())
	assert.Equal(t, []game.EventType{game.EventBoardConfirmed}, eventTypes(g.TakeEvents()))

	require.NoError(t, g.ConfirmBoard("max-id", "board-max"))

	assert.Equal(t, game.StatusRunning, g.Status())
	// First joiner opens the game.
	assert.Equal(t, "ray-id", g.CurrentTurnPlayerID())
	assert.Equal(t, []game.EventType{game.EventBoardConfirmed, game.EventGameStarted}, eventTypes(g.TakeEvents()))
}

func TestGame_ConfirmBoard_Guards(t *testing.T) {
	t.Parallel()

	t.Run("stranger is forbidden", func(t *testing.T) {
		t.Parallel()
		g := newSetupGame(t)

		err := g.ConfirmBoard("eve-id", "board-ray")

		var forbidden *shared.ForbiddenError
		require.ErrorAs(t, err, &forbidden)
	})

	t.Run("other players board is forbidden", func(t *testing.T) {
		t.Parallel()
		g := newSetupGame(t)

		err := g.ConfirmBoard("ray-id", "board-max")

		var forbidden *shared.ForbiddenError
		require.ErrorAs(t, err, &forbidden)
	})

	t.Run("unknown board is not found", func(t *testing.T) {
		t.Parallel()
		g := newSetupGame(t)

		err := g.ConfirmBoard("ray-id", "board-nope")

		var notFound *shared.NotFoundError
		require.ErrorAs(t, err, &notFound)
	})

	t.Run("double confirm is illegal", func(t *testing.T) {
		t.Parallel()
		g := newSetupGame(t)
		require.NoError(t, g.ConfirmBoard("ray-id", "board-ray"))

		err := g.ConfirmBoard("ray-id", "board-ray")

		var illegal *shared.IllegalStateError
		require.ErrorAs(t, err, &illegal)
	})

	t.Run("confirm while waiting is illegal", func(t *testing.T) {
		t.Parallel()
		g := newWaitingGame(t)
		rng := rand.New(rand.NewSource(7))
		_, err := g.Join(game.NewPlayer("ray-id", "Ray"), "board-ray", rng)
		require.NoError(t, err)

		err = g.ConfirmBoard("ray-id", "board-ray")

		var illegal *shared.IllegalStateError
		require.ErrorAs(t, err, &illegal)
	})
}

func TestGame_RerollBoard(t *testing.T) {
	g := newSetupGame(t)
	board, ok := g.BoardByID("board-ray")
	require.True(t, ok)
	before := board.Placements()

	rerolled, err := g.RerollBoard("ray-id", "board-ray", rand.New(rand.NewSource(99)))

	require.NoError(t, err)
	assert.Len(t, rerolled.Placements(), 8)
	assert.NotEqual(t, before, rerolled.Placements())
	assert.Equal(t, []game.EventType{game.EventBoardRerolled}, eventTypes(g.TakeEvents()))
}

func TestGame_RerollBoard_LockedIsIllegal(t *testing.T) {
	g := newSetupGame(t)
	require.NoError(t, g.ConfirmBoard("ray-id", "board-ray"))

	_, err := g.RerollBoard("ray-id", "board-ray", rand.New(rand.NewSource(99)))

	var illegal *shared.IllegalStateError
	require.ErrorAs(t, err, &illegal)
}

func TestGame_FireShot_Sequence(t *testing.T) {
	g := newRunningGame(t)

	// Ray walks down the carrier: four hits then a sink.
	for y := 0; y < 4; y++ {
		shot, err := g.FireShot("ray-id", game.Coordinate{X: 0, Y: y})
		require.NoError(t, err)
		assert.Equal(t, game.ShotResultHit, shot.Result)
		assert.Equal(t, "ray-id", g.CurrentTurnPlayerID(), "turn must stay with shooter after HIT")
	}

	shot, err := g.FireShot("ray-id", game.Coordinate{X: 0, Y: 4})
	require.NoError(t, err)
	assert.Equal(t, game.ShotResultSunk, shot.Result)
	assert.Equal(t, "ray-id", g.CurrentTurnPlayerID())
	assert.Equal(t, game.StatusRunning, g.Status(), "destroyer still afloat")

	// A miss hands the turn to Max.
	shot, err = g.FireShot("ray-id", game.Coordinate{X: 5, Y: 5})
	require.NoError(t, err)
	assert.Equal(t, game.ShotResultMiss, shot.Result)
	assert.Equal(t, "max-id", g.CurrentTurnPlayerID())

	events := g.TakeEvents()
	counts := map[game.EventType]int{}
	for _, e := range events {
		counts[e.Type]++
	}
	assert.Equal(t, 6, counts[game.EventShotFired])
	assert.Equal(t, 1, counts[game.EventTurnChanged])
	assert.Len(t, g.Shots(), 6)
}

func TestGame_FireShot_AlreadyShot(t *testing.T) {
	g := newRunningGame(t)

	first, err := g.FireShot("ray-id", game.Coordinate{X: 0, Y: 0})
	require.NoError(t, err)
	require.Equal(t, game.ShotResultHit, first.Result)
	g.TakeEvents()

	second, err := g.FireShot("ray-id", game.Coordinate{X: 0, Y: 0})

	require.NoError(t, err)
	assert.Equal(t, game.ShotResultAlreadyShot, second.Result)
	assert.Len(t, g.Shots(), 1, "duplicate must not be recorded")
	assert.Equal(t, "ray-id", g.CurrentTurnPlayerID())
	assert.Empty(t, g.TakeEvents(), "already-shot changes nothing, so no events")
}

func TestGame_FireShot_Guards(t *testing.T) {
	t.Parallel()

	t.Run("out of turn", func(t *testing.T) {
		t.Parallel()
		g := newRunningGame(t)

		_, err := g.FireShot("max-id", game.Coordinate{X: 0, Y: 0})

		var outOfTurn *shared.OutOfTurnError
		require.ErrorAs(t, err, &outOfTurn)
	})

	t.Run("out of bounds", func(t *testing.T) {
		t.Parallel()
		g := newRunningGame(t)

		_, err := g.FireShot("ray-id", game.Coordinate{X: 10, Y: 0})

		var badRequest *shared.BadRequestError
		require.ErrorAs(t, err, &badRequest)
	})

	t.Run("stranger", func(t *testing.T) {
		t.Parallel()
		g := newRunningGame(t)

		_, err := g.FireShot("eve-id", game.Coordinate{X: 0, Y: 0})

		var forbidden *shared.ForbiddenError
		require.ErrorAs(t, err, &forbidden)
	})

	t.Run("paused game", func(t *testing.T) {
		t.Parallel()
		g := newRunningGame(t)
		require.NoError(t, g.Pause("ray-id"))

		_, err := g.FireShot("ray-id", game.Coordinate{X: 0, Y: 0})

		var illegal *shared.IllegalStateError
		require.ErrorAs(t, err, &illegal)
	})
}

func TestGame_FireShot_WinFinishesGame(t *testing.T) {
	g := newRunningGame(t)

	// Sink the carrier.
	for y := 0; y <= 4; y++ {
		_, err := g.FireShot("ray-id", game.Coordinate{X: 0, Y: y})
		require.NoError(t, err)
	}
	// Sink the destroyer.
	_, err := g.FireShot("ray-id", game.Coordinate{X: 5, Y: 0})
	require.NoError(t, err)
	_, err = g.FireShot("ray-id", game.Coordinate{X: 6, Y: 0})
	require.NoError(t, err)

	assert.Equal(t, game.StatusFinished, g.Status())
	assert.Equal(t, "ray-id", g.WinnerPlayerID())

	types := eventTypes(g.TakeEvents())
	assert.Equal(t, game.EventGameFinished, types[len(types)-1])

	_, err = g.FireShot("max-id", game.Coordinate{X: 9, Y: 8})
	var illegal *shared.IllegalStateError
	require.ErrorAs(t, err, &illegal)
}

func TestGame_PauseAndResumeHandshake(t *testing.T) {
	g := newRunningGame(t)
	require.NoError(t, g.Pause("max-id"))
	assert.Equal(t, game.StatusPaused, g.Status())
	assert.Equal(t, []game.EventType{game.EventGamePaused}, eventTypes(g.TakeEvents()))

	// First request marks the requester ready.
	complete, err := g.RequestResume("ray-id", true)
	require.NoError(t, err)
	assert.False(t, complete)
	assert.Equal(t, game.StatusPaused, g.Status())
	assert.Equal(t, []game.EventType{game.EventGameResumePending}, eventTypes(g.TakeEvents()))

	// Repeat by the same player is a no-op.
	complete, err = g.RequestResume("ray-id", true)
	require.NoError(t, err)
	assert.False(t, complete)
	assert.Empty(t, g.TakeEvents())

	// Partner completes the handshake; the turn survives the pause.
	complete, err = g.RequestResume("max-id", true)
	require.NoError(t, err)
	assert.True(t, complete)
	assert.Equal(t, game.StatusRunning, g.Status())
	assert.Equal(t, "ray-id", g.CurrentTurnPlayerID())
	assert.Equal(t, []game.EventType{game.EventGameResumed}, eventTypes(g.TakeEvents()))
}

func TestGame_RequestResume_RequiresBothConnected(t *testing.T) {
	g := newRunningGame(t)
	require.NoError(t, g.Pause("ray-id"))

	_, err := g.RequestResume("ray-id", true)
	require.NoError(t, err)

	complete, err := g.RequestResume("max-id", false)

	require.NoError(t, err)
	assert.False(t, complete)
	assert.Equal(t, game.StatusPaused, g.Status())
}

func TestGame_RequestResume_WaitingIsNoop(t *testing.T) {
	g := newWaitingGame(t)
	rng := rand.New(rand.NewSource(7))
	_, err := g.Join(game.NewPlayer("ray-id", "Ray"), "board-ray", rng)
	require.NoError(t, err)

	complete, err := g.RequestResume("ray-id", false)

	require.NoError(t, err)
	assert.False(t, complete)
	assert.Equal(t, game.StatusWaiting, g.Status())
	assert.Empty(t, g.TakeEvents())
}

func TestGame_RequestResume_RunningIsIllegal(t *testing.T) {
	g := newRunningGame(t)

	_, err := g.RequestResume("ray-id", true)

	var illegal *shared.IllegalStateError
	require.ErrorAs(t, err, &illegal)
}

func TestGame_Forfeit(t *testing.T) {
	g := newRunningGame(t)

	require.NoError(t, g.Forfeit("ray-id"))

	assert.Equal(t, game.StatusFinished, g.Status())
	assert.Equal(t, "max-id", g.WinnerPlayerID())
	assert.Equal(t, []game.EventType{game.EventGameForfeited, game.EventGameFinished}, eventTypes(g.TakeEvents()))
}

func TestGame_Forfeit_AllowedWhilePaused(t *testing.T) {
	g := newRunningGame(t)
	require.NoError(t, g.Pause("ray-id"))

	require.NoError(t, g.Forfeit("max-id"))

	assert.Equal(t, game.StatusFinished, g.Status())
	assert.Equal(t, "ray-id", g.WinnerPlayerID())
}

func TestGame_Forfeit_FinishedIsIllegal(t *testing.T) {
	g := newRunningGame(t)
	require.NoError(t, g.Forfeit("ray-id"))

	err := g.Forfeit("max-id")

	var illegal *shared.IllegalStateError
	require.ErrorAs(t, err, &illegal)
}

func TestGame_Pause_ClearsResumeMarker(t *testing.T) {
	g := newRunningGame(t)
	require.NoError(t, g.Pause("ray-id"))
	_, err := g.RequestResume("ray-id", true)
	require.NoError(t, err)
	require.Equal(t, "ray-id", g.ResumeReadyPlayerID())

	// Complete the handshake, then pause again.
	_, err = g.RequestResume("max-id", true)
	require.NoError(t, err)
	require.NoError(t, g.Pause("max-id"))

	assert.Empty(t, g.ResumeReadyPlayerID())
}
