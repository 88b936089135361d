package ws

import "strings"

// Frame types
const (
	FrameSubscribe = "SUBSCRIBE"
	FrameChat      = "CHAT"
	FrameError     = "ERROR"
)

// clientFrame is the union of every field a client may send. Type
// decides which fields matter.
type clientFrame struct {
	Type     string `json:"type"`
	Topic    string `json:"topic,omitempty"`
	GameCode string `json:"gameCode,omitempty"`
	PlayerID string `json:"playerId,omitempty"`
	Text     string `json:"text,omitempty"`
}

// errorFrame tells a client why its last frame was rejected. Game and
// lobby traffic uses the event envelope instead.
type errorFrame struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	gameTopicPrefix  = "/topic/games/"
	lobbyTopicPrefix = "/topic/lobbies/"
	lobbyTopicSuffix = "/events"
)

// GameTopic returns the broadcast topic for one game.
func GameTopic(gameCode string) string {
	return gameTopicPrefix + gameCode
}

// LobbyTopic returns the broadcast topic for one lobby.
func LobbyTopic(lobbyCode string) string {
	return lobbyTopicPrefix + lobbyCode + lobbyTopicSuffix
}

// parseGameTopic extracts the game code from a game topic.
func parseGameTopic(topic string) (string, bool) {
	code := strings.TrimPrefix(topic, gameTopicPrefix)
	if code == topic || code == "" || strings.Contains(code, "/") {
		return "", false
	}
	return code, true
}

// parseLobbyTopic extracts the lobby code from a lobby topic.
func parseLobbyTopic(topic string) (string, bool) {
	rest := strings.TrimPrefix(topic, lobbyTopicPrefix)
	if rest == topic {
		return "", false
	}
	code := strings.TrimSuffix(rest, lobbyTopicSuffix)
	if code == rest || code == "" || strings.Contains(code, "/") {
		return "", false
	}
	return code, true
}
