package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
)

// Game is the aggregate root for one match. All mutations go through
// its guarded methods; repositories persist it as a whole. State
// changes append events to an internal pending list that the caller
// drains after a successful save, so nothing is broadcast for a state
// the store never accepted.
type Game struct {
	gameCode            string
	status              Status
	config              Configuration
	players             []Player
	boards              []*Board
	shots               []Shot
	currentTurnPlayerID string
	resumeReadyPlayerID string
	winnerPlayerID      string
	version             int
	createdAt           time.Time
	clock               shared.Clock
	pending             []Event
}

// NewGame creates an empty game in WAITING state.
// The clock parameter is optional - if nil, defaults to RealClock for production use
func NewGame(gameCode string, config Configuration, clock shared.Clock) (*Game, error) {
	if gameCode == "" {
		return nil, fmt.Errorf("game code cannot be empty")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}

	return &Game{
		gameCode:  gameCode,
		status:    StatusWaiting,
		config:    config,
		createdAt: clock.Now(),
		clock:     clock,
	}, nil
}

// GameState carries persisted fields for reconstruction.
type GameState struct {
	GameCode            string
	Status              Status
	Config              Configuration
	Players             []Player
	Boards              []*Board
	Shots               []Shot
	CurrentTurnPlayerID string
	ResumeReadyPlayerID string
	WinnerPlayerID      string
	Version             int
	CreatedAt           time.Time
}

// RestoreGame rebuilds a game from persisted state without replaying
// transitions. Only repositories should call this.
func RestoreGame(state GameState, clock shared.Clock) *Game {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &Game{
		gameCode:            state.GameCode,
		status:              state.Status,
		config:              state.Config,
		players:             state.Players,
		boards:              state.Boards,
		shots:               state.Shots,
		currentTurnPlayerID: state.CurrentTurnPlayerID,
		resumeReadyPlayerID: state.ResumeReadyPlayerID,
		winnerPlayerID:      state.WinnerPlayerID,
		version:             state.Version,
		createdAt:           state.CreatedAt,
		clock:               clock,
	}
}

func (g *Game) GameCode() string            { return g.gameCode }
func (g *Game) Status() Status              { return g.status }
func (g *Game) Config() Configuration       { return g.config }
func (g *Game) CurrentTurnPlayerID() string { return g.currentTurnPlayerID }
func (g *Game) ResumeReadyPlayerID() string { return g.resumeReadyPlayerID }
func (g *Game) WinnerPlayerID() string      { return g.winnerPlayerID }
func (g *Game) Version() int                { return g.version }
func (g *Game) CreatedAt() time.Time        { return g.createdAt }

// Players returns the participants in join order.
func (g *Game) Players() []Player {
	out := make([]Player, len(g.players))
	copy(out, g.players)
	return out
}

// Boards returns the boards in join order.
func (g *Game) Boards() []*Board {
	out := make([]*Board, len(g.boards))
	copy(out, g.boards)
	return out
}

// Shots returns the recorded shot history in sequence order.
func (g *Game) Shots() []Shot {
	out := make([]Shot, len(g.shots))
	copy(out, g.shots)
	return out
}

// SetVersion records the version stamp after a save. Only repositories
// should call this.
func (g *Game) SetVersion(v int) {
	g.version = v
}

// TakeEvents drains and returns the pending events in emission order.
func (g *Game) TakeEvents() []Event {
	events := g.pending
	g.pending = nil
	return events
}

// PlayerByID returns the participant with the given id.
func (g *Game) PlayerByID(playerID string) (Player, bool) {
	for _, p := range g.players {
		if p.ID == playerID {
			return p, true
		}
	}
	return Player{}, false
}

// Opponent returns the other participant.
func (g *Game) Opponent(playerID string) (Player, bool) {
	for _, p := range g.players {
		if p.ID != playerID {
			return p, true
		}
	}
	return Player{}, false
}

// HasPlayer reports whether the id belongs to a participant.
func (g *Game) HasPlayer(playerID string) bool {
	_, ok := g.PlayerByID(playerID)
	return ok
}

// BoardOf returns the board owned by the given player.
func (g *Game) BoardOf(playerID string) (*Board, bool) {
	for _, b := range g.boards {
		if b.OwnerID() == playerID {
			return b, true
		}
	}
	return nil, false
}

// BoardByID returns the board with the given id.
func (g *Game) BoardByID(boardID string) (*Board, bool) {
	for _, b := range g.boards {
		if b.ID() == boardID {
			return b, true
		}
	}
	return nil, false
}

// Join adds a player with a fresh board. The second join auto-places
// both boards and moves the game to SETUP.
func (g *Game) Join(player Player, boardID string, rng *rand.Rand) (*Board, error) {
	if g.status != StatusWaiting {
		return nil, shared.NewIllegalStateError(
			fmt.Sprintf("game %s is not accepting players", g.gameCode), string(g.status))
	}
	if len(g.players) >= 2 {
		return nil, shared.NewIllegalStateError(
			fmt.Sprintf("game %s already has two players", g.gameCode), string(g.status))
	}

	board, err := NewBoard(boardID, player.ID, g.config.BoardWidth, g.config.BoardHeight)
	if err != nil {
		return nil, err
	}
	g.players = append(g.players, player)
	g.boards = append(g.boards, board)

	if len(g.players) == 2 {
		ships := g.config.Ships()
		for _, b := range g.boards {
			if err := b.AutoPlace(ships, rng); err != nil {
				return nil, err
			}
		}
		g.status = StatusSetup
	}

	return board, nil
}

// ConfirmBoard locks the acting player's board. When both boards are
// locked the game passes through READY and starts immediately.
func (g *Game) ConfirmBoard(playerID, boardID string) error {
	player, ok := g.PlayerByID(playerID)
	if !ok {
		return shared.NewForbiddenError(
			fmt.Sprintf("player %s is not part of game %s", playerID, g.gameCode), playerID)
	}
	if g.status != StatusSetup {
		return shared.NewIllegalStateError(
			fmt.Sprintf("cannot confirm a board while game %s is %s", g.gameCode, g.status), string(g.status))
	}

	board, ok := g.BoardByID(boardID)
	if !ok {
		return shared.NewNotFoundError("board", boardID)
	}
	if board.OwnerID() != playerID {
		return shared.NewForbiddenError(
			fmt.Sprintf("board %s does not belong to player %s", boardID, playerID), playerID)
	}
	if board.Locked() {
		return shared.NewIllegalStateError(
			fmt.Sprintf("board %s is already confirmed", boardID), string(g.status))
	}

	board.Lock()
	g.emit(EventBoardConfirmed, BoardConfirmedPayload{PlayerID: player.ID, PlayerName: player.Username})

	if g.allBoardsLocked() {
		g.status = StatusReady
		g.start()
	}
	return nil
}

// RerollBoard clears and re-places the acting player's board.
func (g *Game) RerollBoard(playerID, boardID string, rng *rand.Rand) (*Board, error) {
	player, ok := g.PlayerByID(playerID)
	if !ok {
		return nil, shared.NewForbiddenError(
			fmt.Sprintf("player %s is not part of game %s", playerID, g.gameCode), playerID)
	}
	if g.status != StatusSetup {
		return nil, shared.NewIllegalStateError(
			fmt.Sprintf("cannot reroll a board while game %s is %s", g.gameCode, g.status), string(g.status))
	}

	board, ok := g.BoardByID(boardID)
	if !ok {
		return nil, shared.NewNotFoundError("board", boardID)
	}
	if board.OwnerID() != playerID {
		return nil, shared.NewForbiddenError(
			fmt.Sprintf("board %s does not belong to player %s", boardID, playerID), playerID)
	}
	if board.Locked() {
		return nil, shared.NewIllegalStateError(
			fmt.Sprintf("board %s is already confirmed", boardID), string(g.status))
	}

	if err := board.AutoPlace(g.config.Ships(), rng); err != nil {
		return nil, err
	}
	g.emit(EventBoardRerolled, BoardRerolledPayload{PlayerID: player.ID, PlayerName: player.Username})
	return board, nil
}

// start moves READY to RUNNING. The first joiner takes the opening turn.
func (g *Game) start() {
	starter := g.players[0]
	g.status = StatusRunning
	g.currentTurnPlayerID = starter.ID
	g.emit(EventGameStarted, GameStartedPayload{
		CurrentTurnPlayerID:   starter.ID,
		CurrentTurnPlayerName: starter.Username,
	})
}

// FireShot resolves a shot by the current turn holder against the
// opponent's board. The turn flips only on MISS; ALREADY_SHOT is
// reported but never recorded and never moves the turn.
func (g *Game) FireShot(shooterID string, c Coordinate) (Shot, error) {
	shooter, ok := g.PlayerByID(shooterID)
	if !ok {
		return Shot{}, shared.NewForbiddenError(
			fmt.Sprintf("player %s is not part of game %s", shooterID, g.gameCode), shooterID)
	}
	if g.status != StatusRunning {
		return Shot{}, shared.NewIllegalStateError(
			fmt.Sprintf("game %s is not running", g.gameCode), string(g.status))
	}
	if g.currentTurnPlayerID != shooterID {
		return Shot{}, shared.NewOutOfTurnError(shooterID)
	}
	if !c.WithinBounds(g.config.BoardWidth, g.config.BoardHeight) {
		return Shot{}, shared.NewBadRequestError(
			fmt.Sprintf("coordinate %s is outside the %dx%d board", c, g.config.BoardWidth, g.config.BoardHeight))
	}

	defender, _ := g.Opponent(shooterID)
	target, ok := g.BoardOf(defender.ID)
	if !ok {
		return Shot{}, shared.NewNotFoundError("board", defender.ID)
	}

	history := g.shotsOnBoard(target.ID())
	result := ResolveShot(target, history, c)
	shot := Shot{
		Coordinate:    c,
		Result:        result,
		ShooterID:     shooterID,
		TargetBoardID: target.ID(),
		Sequence:      len(g.shots) + 1,
	}

	if result == ShotResultAlreadyShot {
		return shot, nil
	}

	g.shots = append(g.shots, shot)

	if result == ShotResultMiss {
		g.currentTurnPlayerID = defender.ID
	}

	g.emit(EventShotFired, ShotFiredPayload{
		AttackerID:          shooter.ID,
		AttackerName:        shooter.Username,
		DefenderID:          defender.ID,
		DefenderName:        defender.Username,
		X:                   c.X,
		Y:                   c.Y,
		Result:              result,
		Hit:                 result == ShotResultHit || result == ShotResultSunk,
		ShipSunk:            result == ShotResultSunk,
		CurrentTurnPlayerID: g.currentTurnPlayerID,
	})

	switch result {
	case ShotResultMiss:
		g.emit(EventTurnChanged, TurnChangedPayload{
			CurrentTurnPlayerID:   defender.ID,
			CurrentTurnPlayerName: defender.Username,
			LastShotResult:        result,
		})
	case ShotResultSunk:
		if IsFleetSunk(target, g.shotsOnBoard(target.ID())) {
			g.finish(shooter)
		}
	}

	return shot, nil
}

// Pause suspends a running game. Manual pauses and disconnect pauses
// share this transition.
func (g *Game) Pause(playerID string) error {
	if !g.HasPlayer(playerID) {
		return shared.NewForbiddenError(
			fmt.Sprintf("player %s is not part of game %s", playerID, g.gameCode), playerID)
	}
	if g.status != StatusRunning {
		return shared.NewIllegalStateError(
			fmt.Sprintf("cannot pause game %s while %s", g.gameCode, g.status), string(g.status))
	}

	g.status = StatusPaused
	g.resumeReadyPlayerID = ""
	g.emit(EventGamePaused, GamePausedPayload{PlayerID: playerID})
	return nil
}

// Forfeit ends the game in the opponent's favor. Allowed while the
// game is live or paused.
func (g *Game) Forfeit(playerID string) error {
	if !g.HasPlayer(playerID) {
		return shared.NewForbiddenError(
			fmt.Sprintf("player %s is not part of game %s", playerID, g.gameCode), playerID)
	}
	if g.status != StatusRunning && g.status != StatusPaused {
		return shared.NewIllegalStateError(
			fmt.Sprintf("cannot forfeit game %s while %s", g.gameCode, g.status), string(g.status))
	}

	winner, ok := g.Opponent(playerID)
	if !ok {
		return shared.NewIllegalStateError(
			fmt.Sprintf("game %s has no opponent to win by forfeit", g.gameCode), string(g.status))
	}

	g.emit(EventGameForfeited, GameForfeitedPayload{PlayerID: playerID})
	g.finish(winner)
	return nil
}

// RequestResume advances the two-phase resume handshake. It returns
// true once both players have requested a resume while connected.
//
// A WAITING game accepts the request as a no-op, so a browser refresh
// before the opponent arrives does not error. A repeat request by the
// same player before the partner responds changes nothing.
func (g *Game) RequestResume(playerID string, bothConnected bool) (bool, error) {
	if !g.HasPlayer(playerID) {
		return false, shared.NewForbiddenError(
			fmt.Sprintf("player %s is not part of game %s", playerID, g.gameCode), playerID)
	}

	switch g.status {
	case StatusWaiting:
		return false, nil
	case StatusPaused:
		// handled below
	default:
		return false, shared.NewIllegalStateError(
			fmt.Sprintf("cannot resume game %s while %s", g.gameCode, g.status), string(g.status))
	}

	switch {
	case g.resumeReadyPlayerID == playerID:
		return false, nil
	case g.resumeReadyPlayerID == "":
		g.resumeReadyPlayerID = playerID
		g.emit(EventGameResumePending, GameResumePendingPayload{PlayerID: playerID})
		return false, nil
	case bothConnected:
		g.resumeReadyPlayerID = ""
		g.status = StatusRunning
		g.emit(EventGameResumed, GameResumedPayload{PlayerID: playerID})
		return true, nil
	default:
		return false, nil
	}
}

func (g *Game) finish(winner Player) {
	g.status = StatusFinished
	g.winnerPlayerID = winner.ID
	g.emit(EventGameFinished, GameFinishedPayload{
		WinnerPlayerID:   winner.ID,
		WinnerPlayerName: winner.Username,
	})
}

func (g *Game) allBoardsLocked() bool {
	if len(g.boards) < 2 {
		return false
	}
	for _, b := range g.boards {
		if !b.Locked() {
			return false
		}
	}
	return true
}

func (g *Game) shotsOnBoard(boardID string) []Shot {
	var out []Shot
	for _, s := range g.shots {
		if s.TargetBoardID == boardID {
			out = append(out, s)
		}
	}
	return out
}

func (g *Game) emit(eventType EventType, payload interface{}) {
	g.pending = append(g.pending, Event{
		Type:       eventType,
		GameCode:   g.gameCode,
		GameStatus: g.status,
		Timestamp:  g.clock.Now(),
		Payload:    payload,
	})
}
