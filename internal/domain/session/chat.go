package session

import (
	"fmt"
	"strings"
	"time"
)

// MaxChatMessageLength caps stored chat text.
const MaxChatMessageLength = 500

// ChatMessage is one line of in-game chat. The log is append-only and
// survives reconnects with the game.
type ChatMessage struct {
	ID         int
	GameCode   string
	SenderID   string
	SenderName string
	Text       string
	CreatedAt  time.Time
}

// NewChatMessage trims and caps the text before recording it.
func NewChatMessage(gameCode, senderID, senderName, text string, now time.Time) (*ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("chat message cannot be empty")
	}
	// Cap by runes so a multi-byte character never splits.
	if runes := []rune(text); len(runes) > MaxChatMessageLength {
		text = string(runes[:MaxChatMessageLength])
	}
	return &ChatMessage{
		GameCode:   gameCode,
		SenderID:   senderID,
		SenderName: senderName,
		Text:       text,
		CreatedAt:  now,
	}, nil
}
