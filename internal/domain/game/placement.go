package game

// Orientation is the axis a ship extends along from its start cell.
type Orientation string

const (
	OrientationHorizontal Orientation = "HORIZONTAL"
	OrientationVertical   Orientation = "VERTICAL"
)

// ShipPlacement is one ship positioned on a board. The covered cells
// are derived from (ship, start, orientation) and never stored.
type ShipPlacement struct {
	Ship        ShipType
	Start       Coordinate
	Orientation Orientation
}

func NewShipPlacement(ship ShipType, start Coordinate, orientation Orientation) ShipPlacement {
	return ShipPlacement{Ship: ship, Start: start, Orientation: orientation}
}

// Coordinates returns the cells the ship covers, in order from the
// start cell. Horizontal extends along x, vertical along y.
func (p ShipPlacement) Coordinates() []Coordinate {
	size := p.Ship.Size()
	coords := make([]Coordinate, 0, size)
	for i := 0; i < size; i++ {
		if p.Orientation == OrientationHorizontal {
			coords = append(coords, Coordinate{X: p.Start.X + i, Y: p.Start.Y})
		} else {
			coords = append(coords, Coordinate{X: p.Start.X, Y: p.Start.Y + i})
		}
	}
	return coords
}

// Covers reports whether the placement occupies the given cell.
func (p ShipPlacement) Covers(c Coordinate) bool {
	for _, cell := range p.Coordinates() {
		if cell == c {
			return true
		}
	}
	return false
}

// WithinBounds reports whether every covered cell fits a width×height board.
func (p ShipPlacement) WithinBounds(width, height int) bool {
	for _, cell := range p.Coordinates() {
		if !cell.WithinBounds(width, height) {
			return false
		}
	}
	return true
}

// Overlaps reports whether two placements share any cell.
func (p ShipPlacement) Overlaps(other ShipPlacement) bool {
	for _, cell := range other.Coordinates() {
		if p.Covers(cell) {
			return true
		}
	}
	return false
}
