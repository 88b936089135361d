package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateCode creates a short, human-shareable code for games and
// lobbies. Format: 8 uppercase hex characters from a UUID.
//
// Example: "A3F8E2B1"
//
// Codes are shareable over voice chat; uniqueness is enforced by the
// store's unique index, not by the generator.
func GenerateCode() string {
	id := uuid.New()
	return strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}

// GenerateID creates an opaque 32-character hex identifier for players
// and boards. Not meant to be typed by humans.
func GenerateID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")
}
