package game

// Status is the lifecycle state of a game.
//
// WAITING → SETUP → READY → RUNNING → PAUSED → RUNNING ... → FINISHED
type Status string

const (
	// StatusWaiting indicates the first player is waiting for an opponent
	StatusWaiting Status = "WAITING"

	// StatusSetup indicates both players are placing and confirming boards
	StatusSetup Status = "SETUP"

	// StatusReady indicates both boards are locked, start pending
	StatusReady Status = "READY"

	// StatusRunning indicates the game is live and shots are accepted
	StatusRunning Status = "RUNNING"

	// StatusPaused indicates play is suspended until both players resume
	StatusPaused Status = "PAUSED"

	// StatusFinished indicates a winner has been decided
	StatusFinished Status = "FINISHED"
)

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == StatusFinished
}
