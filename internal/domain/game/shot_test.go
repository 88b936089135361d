package game_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mertbeyaz/battleship-go/internal/domain/game"
)

// targetBoard is a 10x10 board with a destroyer at (2,2)-(3,2).
func targetBoard(t *testing.T) *game.Board {
	t.Helper()
	board, err := game.NewBoard("target", "defender", 10, 10)
	require.NoError(t, err)
	require.NoError(t, board.Place(game.ShipTypeDestroyer, game.Coordinate{X: 2, Y: 2}, game.OrientationHorizontal))
	return board
}

func shotAt(x, y int) game.Shot {
	return game.Shot{Coordinate: game.Coordinate{X: x, Y: y}, ShooterID: "attacker", TargetBoardID: "target"}
}

func TestResolveShot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		history []game.Shot
		coord   game.Coordinate
		want    game.ShotResult
	}{
		{
			name:  "open water misses",
			coord: game.Coordinate{X: 0, Y: 0},
			want:  game.ShotResultMiss,
		},
		{
			name:  "first cell of destroyer hits",
			coord: game.Coordinate{X: 2, Y: 2},
			want:  game.ShotResultHit,
		},
		{
			name:    "second cell sinks the destroyer",
			history: []game.Shot{shotAt(2, 2)},
			coord:   game.Coordinate{X: 3, Y: 2},
			want:    game.ShotResultSunk,
		},
		{
			name:    "repeated coordinate already shot",
			history: []game.Shot{shotAt(2, 2)},
			coord:   game.Coordinate{X: 2, Y: 2},
			want:    game.ShotResultAlreadyShot,
		},
		{
			name:    "repeated miss already shot",
			history: []game.Shot{shotAt(0, 0)},
			coord:   game.Coordinate{X: 0, Y: 0},
			want:    game.ShotResultAlreadyShot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			board := targetBoard(t)

			assert.Equal(t, tt.want, game.ResolveShot(board, tt.history, tt.coord))
		})
	}
}

func TestIsFleetSunk(t *testing.T) {
	t.Parallel()

	board := targetBoard(t)

	assert.False(t, game.IsFleetSunk(board, nil))
	assert.False(t, game.IsFleetSunk(board, []game.Shot{shotAt(2, 2)}))
	assert.True(t, game.IsFleetSunk(board, []game.Shot{shotAt(2, 2), shotAt(3, 2)}))
}

func TestIsFleetSunk_EmptyBoardIsNotSunk(t *testing.T) {
	board, err := game.NewBoard("empty", "defender", 10, 10)
	require.NoError(t, err)

	assert.False(t, game.IsFleetSunk(board, []game.Shot{shotAt(0, 0)}))
}
