package game_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mertbeyaz/battleship-go/internal/domain/game"
	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
)

func TestGame_SnapshotFor(t *testing.T) {
	g := newRunningGame(t)

	// Ray hits Max's carrier, Max misses back.
	_, err := g.FireShot("ray-id", game.Coordinate{X: 0, Y: 0})
	require.NoError(t, err)
	_, err = g.FireShot("ray-id", game.Coordinate{X: 9, Y: 9})
	require.NoError(t, err)
	_, err = g.FireShot("max-id", game.Coordinate{X: 3, Y: 3})
	require.NoError(t, err)

	snapshot, err := g.SnapshotFor("ray-id")
	require.NoError(t, err)

	assert.Equal(t, "GAME1234", snapshot.GameCode)
	assert.Equal(t, "Ray", snapshot.Username)
	assert.Equal(t, "Max", snapshot.OpponentName)
	assert.Equal(t, "board-ray", snapshot.OwnBoardID)
	assert.True(t, snapshot.OwnBoardLocked)
	assert.True(t, snapshot.OpponentBoardLocked)
	assert.True(t, snapshot.YourTurn, "Max missed, so the turn is back with Ray")
	assert.Len(t, snapshot.OwnPlacements, 1, "own placements are visible")
	assert.Len(t, snapshot.YourShots, 2)
	assert.Len(t, snapshot.ShotsAgainstYou, 1)
}

func TestGame_SnapshotFor_NeverLeaksOpponentPlacements(t *testing.T) {
	g := newRunningGame(t)

	snapshot, err := g.SnapshotFor("ray-id")
	require.NoError(t, err)

	// Ray's snapshot must only ever contain Ray's own placements.
	for _, p := range snapshot.OwnPlacements {
		assert.True(t, p.Covers(game.Coordinate{X: 9, Y: 8}) || p.Covers(game.Coordinate{X: 9, Y: 9}),
			"unexpected placement %+v in own-board view", p)
	}
	assert.Len(t, snapshot.OwnPlacements, 1)
}

func TestGame_SnapshotFor_StrangerIsForbidden(t *testing.T) {
	g := newRunningGame(t)

	_, err := g.SnapshotFor("eve-id")

	var forbidden *shared.ForbiddenError
	require.ErrorAs(t, err, &forbidden)
}
