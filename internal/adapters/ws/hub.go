package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mertbeyaz/battleship-go/internal/adapters/metrics"
	"github.com/mertbeyaz/battleship-go/internal/application/common"
	"github.com/mertbeyaz/battleship-go/internal/domain/game"
	"github.com/mertbeyaz/battleship-go/pkg/utils"
)

const disconnectTimeout = 5 * time.Second

// SessionHandler receives transport lifecycle notifications. The
// connection tracker implements it.
type SessionHandler interface {
	HandleSubscribe(ctx context.Context, gameCode, playerID, sessionID string) error
	HandleDisconnect(ctx context.Context, sessionID string) error
}

type subscription struct {
	client *Client
	topic  string
}

type outbound struct {
	topic string
	data  []byte
}

// Hub owns every live socket and fans committed events out to topic
// subscribers. It implements game.EventPublisher: publishes for one
// game arrive under that game's lock, flow through the single
// broadcast channel and a single fan-out loop, so per-topic frame
// order matches commit order.
type Hub struct {
	logger   *zap.SugaredLogger
	upgrader websocket.Upgrader

	mediator common.Mediator
	sessions SessionHandler

	register   chan *Client
	unregister chan *Client
	subscribe  chan subscription
	broadcast  chan outbound
	done       chan struct{}

	clients map[*Client]struct{}
	topics  map[string]map[*Client]struct{}
}

// NewHub creates a hub with empty registries. Bind must be called
// before the first upgrade.
func NewHub(logger *zap.SugaredLogger) *Hub {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	h := &Hub{
		logger:     logger,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		subscribe:  make(chan subscription),
		broadcast:  make(chan outbound, 256),
		done:       make(chan struct{}),
		clients:    make(map[*Client]struct{}),
		topics:     make(map[string]map[*Client]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin:       h.allowOrigin,
		EnableCompression: true,
	}
	return h
}

// Bind wires the command bus and session tracker in after
// construction. The tracker publishes through this hub, so the two
// cannot be built in one shot.
func (h *Hub) Bind(mediator common.Mediator, sessions SessionHandler) {
	h.mediator = mediator
	h.sessions = sessions
}

// allowOrigin accepts same-origin and localhost connections. Requests
// without an Origin header are non-browser clients and pass.
func (h *Hub) allowOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		h.logger.Warnw("rejected websocket origin", "origin", origin)
		return false
	}
	if r.Host == originURL.Host {
		return true
	}
	if strings.HasPrefix(originURL.Host, "localhost:") ||
		strings.HasPrefix(originURL.Host, "127.0.0.1:") ||
		originURL.Host == "localhost" ||
		originURL.Host == "127.0.0.1" {
		return true
	}

	h.logger.Warnw("rejected websocket origin", "origin", origin)
	return false
}

// Run is the hub main loop. Registry maps are only touched here.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
			metrics.RecordSessionOpened()
			h.logger.Debugw("session opened", "sessionId", client.sessionID)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				for topic, subscribers := range h.topics {
					delete(subscribers, client)
					if len(subscribers) == 0 {
						delete(h.topics, topic)
					}
				}
				close(client.send)
				metrics.RecordSessionClosed()
				h.logger.Debugw("session closed", "sessionId", client.sessionID)
			}

		case sub := <-h.subscribe:
			// A subscribe racing its own unregister must not resurrect
			// the client in the topic maps.
			if _, ok := h.clients[sub.client]; !ok {
				continue
			}
			subscribers := h.topics[sub.topic]
			if subscribers == nil {
				subscribers = make(map[*Client]struct{})
				h.topics[sub.topic] = subscribers
			}
			subscribers[sub.client] = struct{}{}

		case message := <-h.broadcast:
			for client := range h.topics[message.topic] {
				select {
				case client.send <- message.data:
				default:
					h.logger.Warnw("send buffer full, dropping frame",
						"sessionId", client.sessionID, "topic", message.topic)
				}
			}

		case <-h.done:
			for client := range h.clients {
				close(client.send)
			}
			h.clients = make(map[*Client]struct{})
			h.topics = make(map[string]map[*Client]struct{})
			return
		}
	}
}

// Shutdown stops the main loop and closes every client send channel,
// which makes the write pumps send close frames and exit.
func (h *Hub) Shutdown() {
	close(h.done)
}

// WarmUp pushes one frame through the fan-out path before the listener
// accepts traffic. The topic has no subscribers; the first real event
// then pays no lazy-initialization cost.
func (h *Hub) WarmUp() {
	select {
	case h.broadcast <- outbound{topic: "/topic/warmup", data: []byte("{}")}:
	case <-h.done:
	}
}

// PublishGameEvent fans an event out to the game's topic.
func (h *Hub) PublishGameEvent(event game.Event) {
	h.publish(GameTopic(event.GameCode), event)
}

// PublishLobbyEvent fans an event out to a lobby's topic.
func (h *Hub) PublishLobbyEvent(lobbyCode string, event game.Event) {
	h.publish(LobbyTopic(lobbyCode), event)
}

func (h *Hub) publish(topic string, event game.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Errorw("failed to encode event", "type", event.Type, "error", err)
		return
	}
	select {
	case h.broadcast <- outbound{topic: topic, data: data}:
		metrics.RecordEventPublished(string(event.Type))
	case <-h.done:
	}
}

// HandleUpgrade turns an HTTP request into a socket session. Mounted
// on /ws by the HTTP server.
func (h *Hub) HandleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnw("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		sessionID: utils.GenerateID(),
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, sendBufferSize),
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// addSubscription enters the client into a topic's fan-out set.
func (h *Hub) addSubscription(c *Client, topic string) {
	select {
	case h.subscribe <- subscription{client: c, topic: topic}:
	case <-h.done:
	}
}

// dropClient removes the client from the fan-out maps and tells the
// session tracker the transport is gone. Runs on the client's read
// goroutine so subscribe and disconnect notifications for one session
// stay ordered.
func (h *Hub) dropClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}

	if h.sessions == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	if err := h.sessions.HandleDisconnect(ctx, c.sessionID); err != nil {
		h.logger.Warnw("disconnect handling failed", "sessionId", c.sessionID, "error", err)
	}
}
