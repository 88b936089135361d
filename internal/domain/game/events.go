package game

import "time"

// EventType discriminates game event payloads.
type EventType string

const (
	EventBoardConfirmed     EventType = "BOARD_CONFIRMED"
	EventBoardRerolled      EventType = "BOARD_REROLLED"
	EventGameStarted        EventType = "GAME_STARTED"
	EventShotFired          EventType = "SHOT_FIRED"
	EventTurnChanged        EventType = "TURN_CHANGED"
	EventGameFinished       EventType = "GAME_FINISHED"
	EventGamePaused         EventType = "GAME_PAUSED"
	EventGameResumed        EventType = "GAME_RESUMED"
	EventGameResumePending  EventType = "GAME_RESUME_PENDING"
	EventGameForfeited      EventType = "GAME_FORFEITED"
	EventPlayerDisconnected EventType = "PLAYER_DISCONNECTED"
	EventPlayerReconnected  EventType = "PLAYER_RECONNECTED"
	EventLobbyFull          EventType = "LOBBY_FULL"
	EventChatMessage        EventType = "CHAT_MESSAGE"
)

// Event is the envelope broadcast to game and lobby topics. Payload
// holds exactly one of the typed payload structs below, discriminated
// by Type.
type Event struct {
	Type       EventType   `json:"type"`
	GameCode   string      `json:"gameCode"`
	GameStatus Status      `json:"gameStatus"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

type BoardConfirmedPayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

type BoardRerolledPayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

type GameStartedPayload struct {
	CurrentTurnPlayerID   string `json:"currentTurnPlayerId"`
	CurrentTurnPlayerName string `json:"currentTurnPlayerName"`
}

type ShotFiredPayload struct {
	AttackerID          string     `json:"attackerId"`
	AttackerName        string     `json:"attackerName"`
	DefenderID          string     `json:"defenderId"`
	DefenderName        string     `json:"defenderName"`
	X                   int        `json:"x"`
	Y                   int        `json:"y"`
	Result              ShotResult `json:"result"`
	Hit                 bool       `json:"hit"`
	ShipSunk            bool       `json:"shipSunk"`
	CurrentTurnPlayerID string     `json:"currentTurnPlayerId"`
}

type TurnChangedPayload struct {
	CurrentTurnPlayerID   string     `json:"currentTurnPlayerId"`
	CurrentTurnPlayerName string     `json:"currentTurnPlayerName"`
	LastShotResult        ShotResult `json:"lastShotResult"`
}

type GameFinishedPayload struct {
	WinnerPlayerID   string `json:"winnerPlayerId"`
	WinnerPlayerName string `json:"winnerPlayerName"`
}

type GamePausedPayload struct {
	PlayerID string `json:"playerId"`
}

type GameResumedPayload struct {
	PlayerID string `json:"playerId"`
}

type GameResumePendingPayload struct {
	PlayerID string `json:"playerId"`
}

type GameForfeitedPayload struct {
	PlayerID string `json:"playerId"`
}

type PlayerDisconnectedPayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

type PlayerReconnectedPayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

type LobbyFullPayload struct {
	LobbyCode string `json:"lobbyCode"`
	GameCode  string `json:"gameCode"`
}

type ChatMessagePayload struct {
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
}
