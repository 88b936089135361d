package session

import "time"

// PlayerConnection tracks the liveness of one player inside one game.
// Exactly one row exists per (game, player); the transport layer
// upserts it on subscribe and flips it on disconnect.
type PlayerConnection struct {
	GameCode  string
	PlayerID  string
	SessionID string
	Connected bool
	LastSeen  time.Time
}

// NewPlayerConnection records a player as connected through the given
// transport session.
func NewPlayerConnection(gameCode, playerID, sessionID string, now time.Time) *PlayerConnection {
	return &PlayerConnection{
		GameCode:  gameCode,
		PlayerID:  playerID,
		SessionID: sessionID,
		Connected: true,
		LastSeen:  now,
	}
}

// MarkConnected flips the row to connected under a new session.
func (c *PlayerConnection) MarkConnected(sessionID string, now time.Time) {
	c.SessionID = sessionID
	c.Connected = true
	c.LastSeen = now
}

// MarkDisconnected flips the row to disconnected, keeping the last
// session id for bookkeeping.
func (c *PlayerConnection) MarkDisconnected(now time.Time) {
	c.Connected = false
	c.LastSeen = now
}

// StaleSince reports whether the row was last seen before the cutoff.
func (c *PlayerConnection) StaleSince(cutoff time.Time) bool {
	return c.LastSeen.Before(cutoff)
}
