package lobby

import (
	"fmt"
	"time"

	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
)

// Status is the fill state of a lobby.
type Status string

const (
	StatusWaiting Status = "WAITING"
	StatusFull    Status = "FULL"
)

// Lobby pairs two players into one game. The matchmaker fills lobbies
// oldest-first; the version stamp backs optimistic saves.
type Lobby struct {
	lobbyCode string
	status    Status
	gameCode  string
	createdAt time.Time
	version   int
}

// NewLobby creates an open lobby bound to a freshly created game.
// The clock parameter is optional - if nil, defaults to RealClock for production use
func NewLobby(lobbyCode, gameCode string, clock shared.Clock) (*Lobby, error) {
	if lobbyCode == "" {
		return nil, fmt.Errorf("lobby code cannot be empty")
	}
	if gameCode == "" {
		return nil, fmt.Errorf("game code cannot be empty")
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}

	return &Lobby{
		lobbyCode: lobbyCode,
		status:    StatusWaiting,
		gameCode:  gameCode,
		createdAt: clock.Now(),
	}, nil
}

// RestoreLobby rebuilds a lobby from persisted state. Only
// repositories should call this.
func RestoreLobby(lobbyCode string, status Status, gameCode string, createdAt time.Time, version int) *Lobby {
	return &Lobby{
		lobbyCode: lobbyCode,
		status:    status,
		gameCode:  gameCode,
		createdAt: createdAt,
		version:   version,
	}
}

func (l *Lobby) LobbyCode() string    { return l.lobbyCode }
func (l *Lobby) Status() Status       { return l.status }
func (l *Lobby) GameCode() string     { return l.gameCode }
func (l *Lobby) CreatedAt() time.Time { return l.createdAt }
func (l *Lobby) Version() int         { return l.version }

// IsOpen reports whether the lobby still waits for a second player.
func (l *Lobby) IsOpen() bool {
	return l.status == StatusWaiting
}

// Fill marks the lobby full once the second player has joined.
func (l *Lobby) Fill() error {
	if l.status == StatusFull {
		return shared.NewIllegalStateError(
			fmt.Sprintf("lobby %s is already full", l.lobbyCode), string(l.status))
	}
	l.status = StatusFull
	return nil
}

// SetVersion records the version stamp after a save. Only repositories
// should call this.
func (l *Lobby) SetVersion(v int) {
	l.version = v
}
