package game

import (
	"fmt"
	"math/rand"

	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
)

// autoPlaceAttempts bounds random placement sampling per ship before
// the deterministic fallback scan kicks in.
const autoPlaceAttempts = 1000

// Board is one player's grid of ship placements. Once locked its
// placements never change for the lifetime of the game.
type Board struct {
	id         string
	ownerID    string
	width      int
	height     int
	placements []ShipPlacement
	locked     bool
}

// NewBoard creates an empty, unlocked board for the given owner.
func NewBoard(id, ownerID string, width, height int) (*Board, error) {
	if id == "" {
		return nil, fmt.Errorf("board ID cannot be empty")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("board dimensions must be positive, got %dx%d", width, height)
	}
	return &Board{
		id:      id,
		ownerID: ownerID,
		width:   width,
		height:  height,
	}, nil
}

// RestoreBoard rebuilds a board from persisted state without replaying
// placement rules. Only repositories should call this.
func RestoreBoard(id, ownerID string, width, height int, placements []ShipPlacement, locked bool) *Board {
	return &Board{
		id:         id,
		ownerID:    ownerID,
		width:      width,
		height:     height,
		placements: placements,
		locked:     locked,
	}
}

func (b *Board) ID() string      { return b.id }
func (b *Board) OwnerID() string { return b.ownerID }
func (b *Board) Width() int      { return b.width }
func (b *Board) Height() int     { return b.height }
func (b *Board) Locked() bool    { return b.locked }

// Placements returns a copy of the placement list in placement order.
func (b *Board) Placements() []ShipPlacement {
	out := make([]ShipPlacement, len(b.placements))
	copy(out, b.placements)
	return out
}

// CanPlace reports whether the ship would lie fully inside the board
// without sharing a cell with any existing placement. Ships touching
// edge-to-edge are legal; the configured margin is not consulted.
func (b *Board) CanPlace(ship ShipType, start Coordinate, orientation Orientation) bool {
	candidate := NewShipPlacement(ship, start, orientation)
	if !candidate.WithinBounds(b.width, b.height) {
		return false
	}
	for _, existing := range b.placements {
		if existing.Overlaps(candidate) {
			return false
		}
	}
	return true
}

// Place adds a ship to the board. Fails when the board is locked or
// the placement is out of bounds or collides.
func (b *Board) Place(ship ShipType, start Coordinate, orientation Orientation) error {
	if b.locked {
		return shared.NewIllegalStateError(fmt.Sprintf("board %s is locked", b.id), "LOCKED")
	}
	if !b.CanPlace(ship, start, orientation) {
		return shared.NewIllegalStateError(
			fmt.Sprintf("cannot place %s at %s %s on board %s", ship, start, orientation, b.id), "PLACEMENT")
	}
	b.placements = append(b.placements, NewShipPlacement(ship, start, orientation))
	return nil
}

// Clear removes all placements. Only permitted while unlocked.
func (b *Board) Clear() error {
	if b.locked {
		return shared.NewIllegalStateError(fmt.Sprintf("board %s is locked", b.id), "LOCKED")
	}
	b.placements = nil
	return nil
}

// Lock freezes the board. Idempotent and one-way.
func (b *Board) Lock() {
	b.locked = true
}

// PlacementAt returns the placement covering the cell, if any.
func (b *Board) PlacementAt(c Coordinate) (ShipPlacement, bool) {
	for _, p := range b.placements {
		if p.Covers(c) {
			return p, true
		}
	}
	return ShipPlacement{}, false
}

// AutoPlace clears the board and fills it with the given fleet by
// uniform random sampling, retrying collisions up to a bounded number
// of attempts per ship and then falling back to a deterministic
// row-major scan. Never loops forever, even for pathological
// board/fleet combinations.
func (b *Board) AutoPlace(ships []ShipType, rng *rand.Rand) error {
	if b.locked {
		return shared.NewIllegalStateError(fmt.Sprintf("board %s is locked", b.id), "LOCKED")
	}
	b.placements = nil

	for _, ship := range ships {
		if b.placeRandomly(ship, rng) {
			continue
		}
		if !b.placeFirstFit(ship) {
			return shared.NewIllegalStateError(
				fmt.Sprintf("no room for %s on %dx%d board", ship, b.width, b.height), "PLACEMENT")
		}
	}
	return nil
}

func (b *Board) placeRandomly(ship ShipType, rng *rand.Rand) bool {
	for attempt := 0; attempt < autoPlaceAttempts; attempt++ {
		start := Coordinate{X: rng.Intn(b.width), Y: rng.Intn(b.height)}
		orientation := OrientationHorizontal
		if rng.Intn(2) == 1 {
			orientation = OrientationVertical
		}
		if b.CanPlace(ship, start, orientation) {
			b.placements = append(b.placements, NewShipPlacement(ship, start, orientation))
			return true
		}
	}
	return false
}

func (b *Board) placeFirstFit(ship ShipType) bool {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			start := Coordinate{X: x, Y: y}
			for _, orientation := range []Orientation{OrientationHorizontal, OrientationVertical} {
				if b.CanPlace(ship, start, orientation) {
					b.placements = append(b.placements, NewShipPlacement(ship, start, orientation))
					return true
				}
			}
		}
	}
	return false
}
