package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGameTopicRoundTrip(t *testing.T) {
	code, ok := parseGameTopic(GameTopic("ABCD1234"))

	assert.True(t, ok)
	assert.Equal(t, "ABCD1234", code)
}

func TestLobbyTopicRoundTrip(t *testing.T) {
	code, ok := parseLobbyTopic(LobbyTopic("WXYZ5678"))

	assert.True(t, ok)
	assert.Equal(t, "WXYZ5678", code)
}

func TestParseGameTopicRejectsForeignTopics(t *testing.T) {
	topics := []string{
		"",
		"ABCD1234",
		"/topic/games/",
		"/topic/games/ABCD1234/extra",
		"/topic/lobbies/ABCD1234/events",
	}
	for _, topic := range topics {
		_, ok := parseGameTopic(topic)
		assert.False(t, ok, topic)
	}
}

func TestParseLobbyTopicRejectsForeignTopics(t *testing.T) {
	topics := []string{
		"",
		"WXYZ5678/events",
		"/topic/lobbies/",
		"/topic/lobbies/WXYZ5678",
		"/topic/lobbies/WXYZ5678/extra",
		"/topic/games/ABCD1234",
	}
	for _, topic := range topics {
		_, ok := parseLobbyTopic(topic)
		assert.False(t, ok, topic)
	}
}
