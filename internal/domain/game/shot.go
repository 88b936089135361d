package game

// ShotResult classifies the outcome of a resolved shot.
type ShotResult string

const (
	ShotResultMiss        ShotResult = "MISS"
	ShotResultHit         ShotResult = "HIT"
	ShotResultSunk        ShotResult = "SUNK"
	ShotResultAlreadyShot ShotResult = "ALREADY_SHOT"
)

// Shot is one resolved shot against a board. The history is
// append-only; ALREADY_SHOT results are returned to callers but never
// recorded.
type Shot struct {
	Coordinate    Coordinate
	Result        ShotResult
	ShooterID     string
	TargetBoardID string
	Sequence      int
}

// ResolveShot resolves a shot at c against the target board given the
// shot history already recorded for that board.
//
// A coordinate present in the history resolves to ALREADY_SHOT. A cell
// no placement covers is a MISS. A covered cell is SUNK when it
// completes its placement, HIT otherwise.
func ResolveShot(target *Board, history []Shot, c Coordinate) ShotResult {
	for _, s := range history {
		if s.Coordinate == c {
			return ShotResultAlreadyShot
		}
	}

	placement, ok := target.PlacementAt(c)
	if !ok {
		return ShotResultMiss
	}

	for _, cell := range placement.Coordinates() {
		if cell == c {
			continue
		}
		if !coordinateShot(history, cell) {
			return ShotResultHit
		}
	}
	return ShotResultSunk
}

// IsFleetSunk reports whether every placement on the board is fully
// covered by the recorded shot history.
func IsFleetSunk(target *Board, history []Shot) bool {
	placements := target.Placements()
	if len(placements) == 0 {
		return false
	}
	for _, p := range placements {
		for _, cell := range p.Coordinates() {
			if !coordinateShot(history, cell) {
				return false
			}
		}
	}
	return true
}

func coordinateShot(history []Shot, c Coordinate) bool {
	for _, s := range history {
		if s.Coordinate == c {
			return true
		}
	}
	return false
}
