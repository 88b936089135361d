package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	chatcommands "github.com/mertbeyaz/battleship-go/internal/application/chat/commands"
	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = 54 * time.Second
	maxFrameSize    = 4096
	sendBufferSize  = 256
	dispatchTimeout = 10 * time.Second
)

// Client is one socket session. The session id is minted server-side
// at upgrade time and keys the connection tracker rows.
type Client struct {
	sessionID string
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
}

// readPump consumes frames until the socket dies. All frame dispatch
// happens on this goroutine.
func (c *Client) readPump() {
	defer func() {
		c.hub.dropClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warnw("websocket read failed", "sessionId", c.sessionID, "error", err)
			}
			return
		}
		c.handleFrame(data)
	}
}

// writePump drains the send channel and keeps the connection alive
// with pings. A closed send channel ends the session.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleFrame decodes and dispatches one client frame. A panic in a
// handler must not kill the session.
func (c *Client) handleFrame(data []byte) {
	defer func() {
		if r := recover(); r != nil {
			c.hub.logger.Errorw("panic handling frame", "sessionId", c.sessionID, "panic", r)
		}
	}()

	var frame clientFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		c.sendError("BAD_REQUEST", "malformed frame")
		return
	}

	switch frame.Type {
	case FrameSubscribe:
		c.handleSubscribe(frame)
	case FrameChat:
		c.handleChat(frame)
	default:
		c.sendError("BAD_REQUEST", fmt.Sprintf("unknown frame type %q", frame.Type))
	}
}

// handleSubscribe joins a topic. A game topic carrying a playerId also
// marks that player connected, which is what arms reconnect handling.
func (c *Client) handleSubscribe(frame clientFrame) {
	gameCode, isGame := parseGameTopic(frame.Topic)
	_, isLobby := parseLobbyTopic(frame.Topic)
	if !isGame && !isLobby {
		c.sendError("BAD_REQUEST", fmt.Sprintf("unknown topic %q", frame.Topic))
		return
	}

	c.hub.addSubscription(c, frame.Topic)

	if isGame && frame.PlayerID != "" && c.hub.sessions != nil {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		if err := c.hub.sessions.HandleSubscribe(ctx, gameCode, frame.PlayerID, c.sessionID); err != nil {
			c.sendError(errorCode(err), err.Error())
		}
	}
}

// handleChat pushes a chat line through the command bus. The stored
// message comes back to subscribers via the game topic, this client
// included.
func (c *Client) handleChat(frame clientFrame) {
	if c.hub.mediator == nil {
		c.sendError("INTERNAL", "chat unavailable")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()
	_, err := c.hub.mediator.Send(ctx, &chatcommands.SendMessageCommand{
		GameCode: frame.GameCode,
		PlayerID: frame.PlayerID,
		Text:     frame.Text,
	})
	if err != nil {
		c.sendError(errorCode(err), err.Error())
	}
}

// sendError pushes an error frame to this client only. Dropped when
// the send buffer is full; error frames are advisory.
func (c *Client) sendError(code, message string) {
	data, err := json.Marshal(errorFrame{Type: FrameError, Code: code, Message: message})
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// errorCode maps domain error kinds onto wire codes. Same vocabulary
// as the HTTP error envelope.
func errorCode(err error) string {
	var (
		badRequest *shared.BadRequestError
		notFound   *shared.NotFoundError
		forbidden  *shared.ForbiddenError
		illegal    *shared.IllegalStateError
		outOfTurn  *shared.OutOfTurnError
		conflict   *shared.ConflictError
	)
	switch {
	case errors.As(err, &badRequest):
		return "BAD_REQUEST"
	case errors.As(err, &notFound):
		return "NOT_FOUND"
	case errors.As(err, &forbidden):
		return "FORBIDDEN"
	case errors.As(err, &outOfTurn):
		return "OUT_OF_TURN"
	case errors.As(err, &illegal):
		return "ILLEGAL_STATE"
	case errors.As(err, &conflict):
		return "CONFLICT"
	default:
		return "INTERNAL"
	}
}
