package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mertbeyaz/battleship-go/internal/application/common"
	"github.com/mertbeyaz/battleship-go/internal/domain/game"
	"github.com/mertbeyaz/battleship-go/internal/domain/session"
	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
	"github.com/mertbeyaz/battleship-go/internal/infrastructure/scheduler"
)

// ConnectionTracker maintains the per-(game, player) connection rows
// behind the transport. A disconnect arms a grace timer; only when the
// player is still gone at fire time does the game pause.
type ConnectionTracker struct {
	games       game.GameRepository
	connections session.ConnectionRepository
	publisher   game.EventPublisher
	locks       *common.GameLockRegistry
	pool        *scheduler.Pool
	gracePeriod time.Duration
	clock       shared.Clock
	logger      *zap.SugaredLogger
}

// NewConnectionTracker creates a new ConnectionTracker
func NewConnectionTracker(
	games game.GameRepository,
	connections session.ConnectionRepository,
	publisher game.EventPublisher,
	locks *common.GameLockRegistry,
	pool *scheduler.Pool,
	gracePeriod time.Duration,
	clock shared.Clock,
	logger *zap.SugaredLogger,
) *ConnectionTracker {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &ConnectionTracker{
		games:       games,
		connections: connections,
		publisher:   publisher,
		locks:       locks,
		pool:        pool,
		gracePeriod: gracePeriod,
		clock:       clock,
		logger:      logger,
	}
}

// HandleSubscribe records a live subscription for (game, player). A
// player coming back from a disconnect announces PLAYER_RECONNECTED to
// the game topic.
func (t *ConnectionTracker) HandleSubscribe(ctx context.Context, gameCode, playerID, sessionID string) error {
	g, err := t.games.FindByCode(ctx, gameCode)
	if err != nil {
		return err
	}
	player, ok := g.PlayerByID(playerID)
	if !ok {
		return shared.NewForbiddenError(
			fmt.Sprintf("player %s is not part of game %s", playerID, gameCode), playerID)
	}

	now := t.clock.Now()

	existing, err := t.connections.FindByGameAndPlayer(ctx, gameCode, playerID)
	if err != nil {
		var notFound *shared.NotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to look up connection for %s/%s: %w", gameCode, playerID, err)
		}
		if err := t.connections.Upsert(ctx, session.NewPlayerConnection(gameCode, playerID, sessionID, now)); err != nil {
			return fmt.Errorf("failed to record connection for %s/%s: %w", gameCode, playerID, err)
		}
		return nil
	}

	wasConnected := existing.Connected
	existing.MarkConnected(sessionID, now)
	if err := t.connections.Upsert(ctx, existing); err != nil {
		return fmt.Errorf("failed to record connection for %s/%s: %w", gameCode, playerID, err)
	}

	if !wasConnected {
		t.publisher.PublishGameEvent(game.Event{
			Type:       game.EventPlayerReconnected,
			GameCode:   gameCode,
			GameStatus: g.Status(),
			Timestamp:  now,
			Payload: game.PlayerReconnectedPayload{
				PlayerID:   player.ID,
				PlayerName: player.Username,
			},
		})
	}
	return nil
}

// HandleDisconnect flips the row behind the dropped transport session
// and arms the grace timer. Unknown sessions are ignored; not every
// socket ever subscribed to a game.
func (t *ConnectionTracker) HandleDisconnect(ctx context.Context, sessionID string) error {
	conn, err := t.connections.FindBySession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to look up session %s: %w", sessionID, err)
	}
	if conn == nil {
		return nil
	}

	conn.MarkDisconnected(t.clock.Now())
	if err := t.connections.Upsert(ctx, conn); err != nil {
		return fmt.Errorf("failed to record disconnect for %s/%s: %w", conn.GameCode, conn.PlayerID, err)
	}

	gameCode, playerID := conn.GameCode, conn.PlayerID
	t.pool.ScheduleOnce(t.gracePeriod, func(taskCtx context.Context) {
		t.graceCheck(taskCtx, gameCode, playerID)
	})
	return nil
}

// graceCheck pauses a running game when the player is still gone after
// the grace period. The connection row is re-read at fire time, so a
// reconnect inside the window makes this a no-op.
func (t *ConnectionTracker) graceCheck(ctx context.Context, gameCode, playerID string) {
	unlock := t.locks.Lock(gameCode)
	defer unlock()

	conn, err := t.connections.FindByGameAndPlayer(ctx, gameCode, playerID)
	if err != nil || conn.Connected {
		return
	}

	g, err := t.games.FindByCode(ctx, gameCode)
	if err != nil {
		t.logger.Warnw("grace check could not load game", "gameCode", gameCode, "error", err)
		return
	}
	if g.Status() != game.StatusRunning {
		return
	}

	player, _ := g.PlayerByID(playerID)
	if err := g.Pause(playerID); err != nil {
		t.logger.Warnw("grace pause rejected", "gameCode", gameCode, "playerId", playerID, "error", err)
		return
	}
	if err := t.games.Save(ctx, g); err != nil {
		t.logger.Errorw("grace pause save failed", "gameCode", gameCode, "error", err)
		return
	}

	t.publisher.PublishGameEvent(game.Event{
		Type:       game.EventPlayerDisconnected,
		GameCode:   gameCode,
		GameStatus: g.Status(),
		Timestamp:  t.clock.Now(),
		Payload: game.PlayerDisconnectedPayload{
			PlayerID:   player.ID,
			PlayerName: player.Username,
		},
	})
	for _, event := range g.TakeEvents() {
		t.publisher.PublishGameEvent(event)
	}

	t.logger.Infow("paused game after disconnect grace",
		"gameCode", gameCode, "playerId", playerID, "gracePeriod", t.gracePeriod)
}
