package lobby_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mertbeyaz/battleship-go/internal/domain/lobby"
	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
)

func TestLobby_Fill(t *testing.T) {
	clock := shared.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	l, err := lobby.NewLobby("LOBBY123", "GAME1234", clock)
	require.NoError(t, err)
	require.True(t, l.IsOpen())

	require.NoError(t, l.Fill())

	assert.Equal(t, lobby.StatusFull, l.Status())
	assert.False(t, l.IsOpen())

	err = l.Fill()
	var illegal *shared.IllegalStateError
	require.ErrorAs(t, err, &illegal)
}

func TestNewLobby_RequiresCodes(t *testing.T) {
	_, err := lobby.NewLobby("", "GAME1234", nil)
	assert.Error(t, err)

	_, err = lobby.NewLobby("LOBBY123", "", nil)
	assert.Error(t, err)
}
