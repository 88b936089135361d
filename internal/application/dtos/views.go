// Package dtos holds the serializable views returned by application
// handlers. Conversion from domain types lives here so transports
// never touch aggregates directly, and opponent placements never leak
// by construction: GameView carries board summaries only.
package dtos

import (
	"time"

	"github.com/mertbeyaz/battleship-go/internal/domain/game"
	"github.com/mertbeyaz/battleship-go/internal/domain/session"
)

// PlayerView identifies a participant.
type PlayerView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// PlacementView is one positioned ship, exposed only on the owner's
// own board.
type PlacementView struct {
	Ship        string `json:"ship"`
	Size        int    `json:"size"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Orientation string `json:"orientation"`
}

// BoardView is a full board including placements.
type BoardView struct {
	BoardID    string          `json:"boardId"`
	OwnerID    string          `json:"ownerId"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Locked     bool            `json:"locked"`
	Placements []PlacementView `json:"placements"`
}

// BoardSummaryView is a board without placements, safe for any viewer.
type BoardSummaryView struct {
	BoardID string `json:"boardId"`
	OwnerID string `json:"ownerId"`
	Locked  bool   `json:"locked"`
}

// ShotView is one recorded shot.
type ShotView struct {
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Result    string `json:"result"`
	ShooterID string `json:"shooterId"`
	Sequence  int    `json:"sequence"`
}

// GameView is the public state of a game: no placements for anyone.
type GameView struct {
	GameCode            string             `json:"gameCode"`
	Status              string             `json:"status"`
	Players             []PlayerView       `json:"players"`
	Boards              []BoardSummaryView `json:"boards"`
	CurrentTurnPlayerID string             `json:"currentTurnPlayerId,omitempty"`
	WinnerPlayerID      string             `json:"winnerPlayerId,omitempty"`
}

// LobbyView is returned from auto-join. ResumeToken is only ever
// handed to the player it was minted for.
type LobbyView struct {
	LobbyCode   string `json:"lobbyCode"`
	LobbyStatus string `json:"lobbyStatus"`
	GameCode    string `json:"gameCode"`
	GameStatus  string `json:"gameStatus"`
	PlayerID    string `json:"playerId"`
	Username    string `json:"username"`
	BoardID     string `json:"boardId"`
	ResumeToken string `json:"resumeToken"`
}

// ShotResultView is returned from firing a shot.
type ShotResultView struct {
	X                   int    `json:"x"`
	Y                   int    `json:"y"`
	Result              string `json:"result"`
	Hit                 bool   `json:"hit"`
	ShipSunk            bool   `json:"shipSunk"`
	GameStatus          string `json:"gameStatus"`
	CurrentTurnPlayerID string `json:"currentTurnPlayerId,omitempty"`
	WinnerPlayerID      string `json:"winnerPlayerId,omitempty"`
}

// SnapshotView is the per-player resume view: the viewer's own
// placements plus both lock flags, never the opponent's ships.
type SnapshotView struct {
	GameCode            string     `json:"gameCode"`
	Status              string     `json:"status"`
	PlayerID            string     `json:"playerId"`
	Username            string     `json:"username"`
	OpponentName        string     `json:"opponentName,omitempty"`
	OwnBoard            BoardView  `json:"ownBoard"`
	OpponentBoardLocked bool       `json:"opponentBoardLocked"`
	YourTurn            bool       `json:"yourTurn"`
	ShotsAgainstYou     []ShotView `json:"shotsAgainstYou"`
	YourShots           []ShotView `json:"yourShots"`
	WinnerPlayerID      string     `json:"winnerPlayerId,omitempty"`
}

// ChatMessageView is one chat line.
type ChatMessageView struct {
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
}

// GameToView converts a game aggregate to its public view.
func GameToView(g *game.Game) GameView {
	players := g.Players()
	playerViews := make([]PlayerView, 0, len(players))
	for _, p := range players {
		playerViews = append(playerViews, PlayerView{ID: p.ID, Username: p.Username})
	}

	boards := g.Boards()
	boardViews := make([]BoardSummaryView, 0, len(boards))
	for _, b := range boards {
		boardViews = append(boardViews, BoardSummaryView{
			BoardID: b.ID(),
			OwnerID: b.OwnerID(),
			Locked:  b.Locked(),
		})
	}

	return GameView{
		GameCode:            g.GameCode(),
		Status:              string(g.Status()),
		Players:             playerViews,
		Boards:              boardViews,
		CurrentTurnPlayerID: g.CurrentTurnPlayerID(),
		WinnerPlayerID:      g.WinnerPlayerID(),
	}
}

// BoardToView converts a board including its placements. Callers must
// only ever pass boards owned by the requesting player.
func BoardToView(b *game.Board) BoardView {
	placements := b.Placements()
	views := make([]PlacementView, 0, len(placements))
	for _, p := range placements {
		views = append(views, PlacementView{
			Ship:        string(p.Ship),
			Size:        p.Ship.Size(),
			X:           p.Start.X,
			Y:           p.Start.Y,
			Orientation: string(p.Orientation),
		})
	}
	return BoardView{
		BoardID:    b.ID(),
		OwnerID:    b.OwnerID(),
		Width:      b.Width(),
		Height:     b.Height(),
		Locked:     b.Locked(),
		Placements: views,
	}
}

// ShotsToViews converts a shot history.
func ShotsToViews(shots []game.Shot) []ShotView {
	views := make([]ShotView, 0, len(shots))
	for _, s := range shots {
		views = append(views, ShotView{
			X:         s.Coordinate.X,
			Y:         s.Coordinate.Y,
			Result:    string(s.Result),
			ShooterID: s.ShooterID,
			Sequence:  s.Sequence,
		})
	}
	return views
}

// SnapshotToView converts a per-player snapshot.
func SnapshotToView(s game.Snapshot, boardWidth, boardHeight int) SnapshotView {
	placements := make([]PlacementView, 0, len(s.OwnPlacements))
	for _, p := range s.OwnPlacements {
		placements = append(placements, PlacementView{
			Ship:        string(p.Ship),
			Size:        p.Ship.Size(),
			X:           p.Start.X,
			Y:           p.Start.Y,
			Orientation: string(p.Orientation),
		})
	}

	return SnapshotView{
		GameCode:     s.GameCode,
		Status:       string(s.Status),
		PlayerID:     s.PlayerID,
		Username:     s.Username,
		OpponentName: s.OpponentName,
		OwnBoard: BoardView{
			BoardID:    s.OwnBoardID,
			OwnerID:    s.PlayerID,
			Width:      boardWidth,
			Height:     boardHeight,
			Locked:     s.OwnBoardLocked,
			Placements: placements,
		},
		OpponentBoardLocked: s.OpponentBoardLocked,
		YourTurn:            s.YourTurn,
		ShotsAgainstYou:     ShotsToViews(s.ShotsAgainstYou),
		YourShots:           ShotsToViews(s.YourShots),
		WinnerPlayerID:      s.WinnerPlayerID,
	}
}

// ChatToViews converts a chat log.
func ChatToViews(messages []*session.ChatMessage) []ChatMessageView {
	views := make([]ChatMessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, ChatMessageView{
			PlayerID:   m.SenderID,
			PlayerName: m.SenderName,
			Text:       m.Text,
			CreatedAt:  m.CreatedAt,
		})
	}
	return views
}
