package game

import "fmt"

// Coordinate is a 0-based cell position on a board. (0,0) is the
// top-left corner; x grows to the right, y grows downward.
type Coordinate struct {
	X int
	Y int
}

func NewCoordinate(x, y int) Coordinate {
	return Coordinate{X: x, Y: y}
}

// WithinBounds reports whether the coordinate lies inside a width×height board.
func (c Coordinate) WithinBounds(width, height int) bool {
	return c.X >= 0 && c.X < width && c.Y >= 0 && c.Y < height
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}
