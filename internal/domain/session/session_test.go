package session_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mertbeyaz/battleship-go/internal/domain/session"
)

func TestNewGameResumeToken(t *testing.T) {
	token, err := session.NewGameResumeToken("GAME1234", "ray-id")
	require.NoError(t, err)

	// UUID v4 string form: 36 characters including hyphens.
	assert.Len(t, token.Token, 36)
	assert.Equal(t, "GAME1234", token.GameCode)
	assert.Equal(t, "ray-id", token.PlayerID)
	assert.Nil(t, token.LastUsedAt)

	other, err := session.NewGameResumeToken("GAME1234", "ray-id")
	require.NoError(t, err)
	assert.NotEqual(t, token.Token, other.Token)
}

func TestPlayerConnection_Lifecycle(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	conn := session.NewPlayerConnection("GAME1234", "ray-id", "sess-1", start)
	require.True(t, conn.Connected)

	conn.MarkDisconnected(start.Add(5 * time.Minute))
	assert.False(t, conn.Connected)
	assert.Equal(t, "sess-1", conn.SessionID)

	conn.MarkConnected("sess-2", start.Add(6*time.Minute))
	assert.True(t, conn.Connected)
	assert.Equal(t, "sess-2", conn.SessionID)

	assert.False(t, conn.StaleSince(start))
	assert.True(t, conn.StaleSince(start.Add(time.Hour)))
}

func TestNewChatMessage(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	msg, err := session.NewChatMessage("GAME1234", "ray-id", "Ray", "  good luck  ", now)
	require.NoError(t, err)
	assert.Equal(t, "good luck", msg.Text)

	_, err = session.NewChatMessage("GAME1234", "ray-id", "Ray", "   ", now)
	assert.Error(t, err)

	long, err := session.NewChatMessage("GAME1234", "ray-id", "Ray", strings.Repeat("a", 600), now)
	require.NoError(t, err)
	assert.Len(t, long.Text, session.MaxChatMessageLength)
}
