package game

import "fmt"

// ShipType identifies a ship class by its length in cells.
type ShipType string

const (
	ShipTypeDestroyer  ShipType = "DESTROYER"
	ShipTypeCruiser    ShipType = "CRUISER"
	ShipTypeBattleship ShipType = "BATTLESHIP"
	ShipTypeCarrier    ShipType = "CARRIER"
)

var shipSizes = map[ShipType]int{
	ShipTypeDestroyer:  2,
	ShipTypeCruiser:    3,
	ShipTypeBattleship: 4,
	ShipTypeCarrier:    5,
}

// Size returns the ship's length in cells.
func (t ShipType) Size() int {
	return shipSizes[t]
}

// IsValid reports whether the type is one of the four known classes.
func (t ShipType) IsValid() bool {
	_, ok := shipSizes[t]
	return ok
}

// ShipTypeForSize maps a cell count back to its ship class.
func ShipTypeForSize(size int) (ShipType, error) {
	for t, s := range shipSizes {
		if s == size {
			return t, nil
		}
	}
	return "", fmt.Errorf("no ship type with size %d", size)
}
