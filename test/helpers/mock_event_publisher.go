package helpers

import (
	"sync"

	"github.com/mertbeyaz/battleship-go/internal/domain/game"
)

// PublishedLobbyEvent pairs a lobby event with the topic it targeted.
type PublishedLobbyEvent struct {
	LobbyCode string
	Event     game.Event
}

// MockEventPublisher is a test double for the game.EventPublisher port.
// It records everything handed to it so tests can assert on the exact
// broadcast sequence.
type MockEventPublisher struct {
	mu sync.RWMutex

	gameEvents  []game.Event
	lobbyEvents []PublishedLobbyEvent
}

// NewMockEventPublisher creates a new recording publisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// PublishGameEvent records an event bound for a game topic
func (m *MockEventPublisher) PublishGameEvent(event game.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gameEvents = append(m.gameEvents, event)
}

// PublishLobbyEvent records an event bound for a lobby topic
func (m *MockEventPublisher) PublishLobbyEvent(lobbyCode string, event game.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lobbyEvents = append(m.lobbyEvents, PublishedLobbyEvent{LobbyCode: lobbyCode, Event: event})
}

// GameEvents returns the recorded game events in publish order
func (m *MockEventPublisher) GameEvents() []game.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]game.Event, len(m.gameEvents))
	copy(out, m.gameEvents)
	return out
}

// LobbyEvents returns the recorded lobby events in publish order
func (m *MockEventPublisher) LobbyEvents() []PublishedLobbyEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]PublishedLobbyEvent, len(m.lobbyEvents))
	copy(out, m.lobbyEvents)
	return out
}

// EventsOfType filters the recorded game events by type
func (m *MockEventPublisher) EventsOfType(eventType game.EventType) []game.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []game.Event
	for _, e := range m.gameEvents {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// HasEventOfType reports whether any recorded game event has the type
func (m *MockEventPublisher) HasEventOfType(eventType game.EventType) bool {
	return len(m.EventsOfType(eventType)) > 0
}

// LastGameEvent returns the most recently recorded game event
func (m *MockEventPublisher) LastGameEvent() (game.Event, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.gameEvents) == 0 {
		return game.Event{}, false
	}
	return m.gameEvents[len(m.gameEvents)-1], true
}

// Clear drops everything recorded so far
func (m *MockEventPublisher) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gameEvents = nil
	m.lobbyEvents = nil
}
