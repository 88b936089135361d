package commands

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/mertbeyaz/battleship-go/internal/adapters/metrics"
	"github.com/mertbeyaz/battleship-go/internal/application/common"
	"github.com/mertbeyaz/battleship-go/internal/application/dtos"
	"github.com/mertbeyaz/battleship-go/internal/domain/game"
	"github.com/mertbeyaz/battleship-go/internal/domain/lobby"
	"github.com/mertbeyaz/battleship-go/internal/domain/session"
	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
	"github.com/mertbeyaz/battleship-go/pkg/utils"
)

// autoJoinAttempts bounds the optimistic retry loop before the caller
// gets a Conflict.
const autoJoinAttempts = 3

// AutoJoinCommand represents a request to enter the matchmaking queue
type AutoJoinCommand struct {
	Username string
}

// AutoJoinResponse represents the result of entering the queue
type AutoJoinResponse struct {
	Lobby dtos.LobbyView
}

// AutoJoinHandler handles the AutoJoin command. It either seats the
// player in the oldest waiting lobby or opens a fresh one.
type AutoJoinHandler struct {
	games     game.GameRepository
	lobbies   lobby.LobbyRepository
	tokens    *session.TokenRegistry
	publisher game.EventPublisher
	locks     *common.GameLockRegistry
	config    game.Configuration
	clock     shared.Clock

	// mu serializes matchmaking so two concurrent joiners cannot both
	// claim the same open lobby.
	mu sync.Mutex
}

// NewAutoJoinHandler creates a new AutoJoinHandler
func NewAutoJoinHandler(
	games game.GameRepository,
	lobbies lobby.LobbyRepository,
	tokens *session.TokenRegistry,
	publisher game.EventPublisher,
	locks *common.GameLockRegistry,
	config game.Configuration,
	clock shared.Clock,
) *AutoJoinHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &AutoJoinHandler{
		games:     games,
		lobbies:   lobbies,
		tokens:    tokens,
		publisher: publisher,
		locks:     locks,
		config:    config,
		clock:     clock,
	}
}

// Handle executes the AutoJoin command
func (h *AutoJoinHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*AutoJoinCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *AutoJoinCommand")
	}

	username := strings.TrimSpace(cmd.Username)
	if username == "" {
		return nil, shared.NewBadRequestError("username is required")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for attempt := 0; attempt < autoJoinAttempts; attempt++ {
		response, err := h.matchOnce(ctx, username)
		if err == nil {
			return response, nil
		}
		var conflict *shared.ConflictError
		if !errors.As(err, &conflict) {
			return nil, err
		}
	}
	return nil, shared.NewConflictError(
		fmt.Sprintf("matchmaking did not settle after %d attempts", autoJoinAttempts))
}

// matchOnce runs one matchmaking pass against the current lobby queue.
func (h *AutoJoinHandler) matchOnce(ctx context.Context, username string) (*AutoJoinResponse, error) {
	open, err := h.lobbies.FindOldestWaiting(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for open lobbies: %w", err)
	}
	if open == nil {
		return h.openLobby(ctx, username)
	}
	return h.joinLobby(ctx, open, username)
}

// openLobby creates a fresh game and lobby with the caller seated as
// the first player.
func (h *AutoJoinHandler) openLobby(ctx context.Context, username string) (*AutoJoinResponse, error) {
	gameCode := utils.GenerateCode()
	lobbyCode := utils.GenerateCode()

	g, err := game.NewGame(gameCode, h.config, h.clock)
	if err != nil {
		return nil, err
	}

	player := game.NewPlayer(utils.GenerateID(), username)
	board, err := g.Join(player, utils.GenerateID(), h.rng())
	if err != nil {
		return nil, err
	}

	l, err := lobby.NewLobby(lobbyCode, gameCode, h.clock)
	if err != nil {
		return nil, err
	}

	if err := h.games.Add(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to persist game %s: %w", gameCode, err)
	}
	if err := h.lobbies.Add(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to persist lobby %s: %w", lobbyCode, err)
	}

	token, err := h.tokens.MintFor(ctx, gameCode, player.ID)
	if err != nil {
		return nil, err
	}

	metrics.RecordGameCreated()

	return &AutoJoinResponse{Lobby: h.lobbyView(l, g, player, board.ID(), token)}, nil
}

// joinLobby seats the caller as the second player of an open lobby.
// Optimistic save failures surface as Conflict and retry upstream.
func (h *AutoJoinHandler) joinLobby(ctx context.Context, open *lobby.Lobby, username string) (*AutoJoinResponse, error) {
	unlock := h.locks.Lock(open.GameCode())
	defer unlock()

	g, err := h.games.FindByCode(ctx, open.GameCode())
	if err != nil {
		return nil, err
	}

	player := game.NewPlayer(utils.GenerateID(), username)
	board, err := g.Join(player, utils.GenerateID(), h.rng())
	if err != nil {
		return nil, err
	}
	if err := open.Fill(); err != nil {
		return nil, err
	}

	if err := h.games.Save(ctx, g); err != nil {
		return nil, err
	}
	if err := h.lobbies.Save(ctx, open); err != nil {
		return nil, err
	}

	token, err := h.tokens.MintFor(ctx, g.GameCode(), player.ID)
	if err != nil {
		return nil, err
	}

	metrics.RecordMatchStarted()

	h.publisher.PublishLobbyEvent(open.LobbyCode(), game.Event{
		Type:       game.EventLobbyFull,
		GameCode:   g.GameCode(),
		GameStatus: g.Status(),
		Timestamp:  h.clock.Now(),
		Payload: game.LobbyFullPayload{
			LobbyCode: open.LobbyCode(),
			GameCode:  g.GameCode(),
		},
	})

	return &AutoJoinResponse{Lobby: h.lobbyView(open, g, player, board.ID(), token)}, nil
}

func (h *AutoJoinHandler) lobbyView(l *lobby.Lobby, g *game.Game, player game.Player, boardID string, token *session.GameResumeToken) dtos.LobbyView {
	return dtos.LobbyView{
		LobbyCode:   l.LobbyCode(),
		LobbyStatus: string(l.Status()),
		GameCode:    g.GameCode(),
		GameStatus:  string(g.Status()),
		PlayerID:    player.ID,
		Username:    player.Username,
		BoardID:     boardID,
		ResumeToken: token.Token,
	}
}

// rng seeds per call so auto-placement is reproducible under a mock
// clock.
func (h *AutoJoinHandler) rng() *rand.Rand {
	return rand.New(rand.NewSource(h.clock.Now().UnixNano()))
}
