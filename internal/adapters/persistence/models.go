package persistence

import (
	"time"
)

// GameModel represents the games table. Players, boards and shots are
// stored as JSON text so one row carries the whole aggregate; the
// version column backs optimistic saves.
type GameModel struct {
	GameCode            string    `gorm:"column:game_code;primaryKey;not null"`
	Status              string    `gorm:"column:status;not null;index"`
	ConfigJSON          string    `gorm:"column:config_json;type:text;not null"`
	PlayersJSON         string    `gorm:"column:players_json;type:text;not null"`
	BoardsJSON          string    `gorm:"column:boards_json;type:text;not null"`
	ShotsJSON           string    `gorm:"column:shots_json;type:text;not null"`
	CurrentTurnPlayerID string    `gorm:"column:current_turn_player_id"`
	ResumeReadyPlayerID string    `gorm:"column:resume_ready_player_id"`
	WinnerPlayerID      string    `gorm:"column:winner_player_id"`
	Version             int       `gorm:"column:version;not null;default:0"`
	CreatedAt           time.Time `gorm:"column:created_at;not null"`
	UpdatedAt           time.Time `gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (GameModel) TableName() string {
	return "games"
}

// LobbyModel represents the lobbies table. The matchmaker scans it
// oldest-first for WAITING rows.
type LobbyModel struct {
	LobbyCode string    `gorm:"column:lobby_code;primaryKey;not null"`
	Status    string    `gorm:"column:status;not null;index:idx_lobbies_status_created"`
	GameCode  string    `gorm:"column:game_code;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null;index:idx_lobbies_status_created"`
	Version   int       `gorm:"column:version;not null;default:0"`
}

func (LobbyModel) TableName() string {
	return "lobbies"
}

// GameResumeTokenModel represents the game_resume_tokens table.
// One token per (game, player) for the lifetime of the game.
type GameResumeTokenModel struct {
	Token      string     `gorm:"column:token;primaryKey;not null"`
	GameCode   string     `gorm:"column:game_code;not null;uniqueIndex:idx_tokens_game_player"`
	PlayerID   string     `gorm:"column:player_id;not null;uniqueIndex:idx_tokens_game_player"`
	CreatedAt  time.Time  `gorm:"column:created_at;not null;autoCreateTime"`
	LastUsedAt *time.Time `gorm:"column:last_used_at"`
}

func (GameResumeTokenModel) TableName() string {
	return "game_resume_tokens"
}

// PlayerConnectionModel represents the player_connections table.
// Exactly one row per (game, player); last_seen drives the cleaner.
type PlayerConnectionModel struct {
	GameCode  string    `gorm:"column:game_code;primaryKey;not null"`
	PlayerID  string    `gorm:"column:player_id;primaryKey;not null"`
	SessionID string    `gorm:"column:session_id;not null;index"`
	Connected bool      `gorm:"column:connected;not null"`
	LastSeen  time.Time `gorm:"column:last_seen;not null;index"`
}

func (PlayerConnectionModel) TableName() string {
	return "player_connections"
}

// ChatMessageModel represents the chat_messages table. Append-only;
// insertion order is the display order.
type ChatMessageModel struct {
	ID         int       `gorm:"column:id;primaryKey;autoIncrement"`
	GameCode   string    `gorm:"column:game_code;not null;index"`
	SenderID   string    `gorm:"column:sender_id;not null"`
	SenderName string    `gorm:"column:sender_name;not null"`
	Text       string    `gorm:"column:text;type:text;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;not null"`
}

func (ChatMessageModel) TableName() string {
	return "chat_messages"
}

// playerRecord is the JSON shape stored in games.players_json.
type playerRecord struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// placementRecord is the JSON shape of one ship inside boards_json.
type placementRecord struct {
	Ship        string `json:"ship"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Orientation string `json:"orientation"`
}

// boardRecord is the JSON shape of one board inside boards_json.
type boardRecord struct {
	ID         string            `json:"id"`
	OwnerID    string            `json:"ownerId"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	Locked     bool              `json:"locked"`
	Placements []placementRecord `json:"placements"`
}

// shotRecord is the JSON shape of one shot inside shots_json.
type shotRecord struct {
	X             int    `json:"x"`
	Y             int    `json:"y"`
	Result        string `json:"result"`
	ShooterID     string `json:"shooterId"`
	TargetBoardID string `json:"targetBoardId"`
	Sequence      int    `json:"sequence"`
}

// configRecord is the JSON shape stored in games.config_json.
type configRecord struct {
	BoardWidth  int    `json:"boardWidth"`
	BoardHeight int    `json:"boardHeight"`
	ShipMargin  int    `json:"shipMargin"`
	Fleet       string `json:"fleet"`
}
