package game

import (
	"fmt"

	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
)

// Snapshot is one player's view of a game. It carries the viewer's own
// placements and both lock flags but never the opponent's placements.
type Snapshot struct {
	GameCode            string
	Status              Status
	PlayerID            string
	Username            string
	OpponentName        string
	OwnBoardID          string
	OwnPlacements       []ShipPlacement
	OwnBoardLocked      bool
	OpponentBoardLocked bool
	YourTurn            bool
	ShotsAgainstYou     []Shot
	YourShots           []Shot
	WinnerPlayerID      string
}

// SnapshotFor builds the per-player view. Fails with Forbidden for
// non-participants so a leaked game code alone reveals nothing.
func (g *Game) SnapshotFor(playerID string) (Snapshot, error) {
	player, ok := g.PlayerByID(playerID)
	if !ok {
		return Snapshot{}, shared.NewForbiddenError(
			fmt.Sprintf("player %s is not part of game %s", playerID, g.gameCode), playerID)
	}

	snapshot := Snapshot{
		GameCode:       g.gameCode,
		Status:         g.status,
		PlayerID:       player.ID,
		Username:       player.Username,
		YourTurn:       g.currentTurnPlayerID == playerID,
		WinnerPlayerID: g.winnerPlayerID,
	}

	if own, ok := g.BoardOf(playerID); ok {
		snapshot.OwnBoardID = own.ID()
		snapshot.OwnPlacements = own.Placements()
		snapshot.OwnBoardLocked = own.Locked()
		snapshot.ShotsAgainstYou = g.shotsOnBoard(own.ID())
	}

	if opponent, ok := g.Opponent(playerID); ok {
		snapshot.OpponentName = opponent.Username
		if theirs, ok := g.BoardOf(opponent.ID); ok {
			snapshot.OpponentBoardLocked = theirs.Locked()
			snapshot.YourShots = g.shotsOnBoard(theirs.ID())
		}
	}

	return snapshot, nil
}
