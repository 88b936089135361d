package game

import (
	"fmt"

	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
)

const (
	DefaultBoardWidth  = 10
	DefaultBoardHeight = 10
	DefaultShipMargin  = 2
	DefaultFleet       = "2x2,2x3,1x4,1x5"
)

// Configuration is the per-game rule set, fixed at game creation.
// ShipMargin is carried for clients that render a spacing hint; the
// placement rules do not enforce it.
type Configuration struct {
	BoardWidth  int
	BoardHeight int
	ShipMargin  int
	Fleet       string
}

// DefaultConfiguration returns the standard 10x10 game with the
// default six-ship fleet.
func DefaultConfiguration() Configuration {
	return Configuration{
		BoardWidth:  DefaultBoardWidth,
		BoardHeight: DefaultBoardHeight,
		ShipMargin:  DefaultShipMargin,
		Fleet:       DefaultFleet,
	}
}

// Validate checks dimensions, margin and fleet, including that the
// fleet physically fits the board.
func (c Configuration) Validate() error {
	if c.BoardWidth <= 0 {
		return shared.NewInvalidConfigError("game.boardWidth", fmt.Sprintf("must be positive, got %d", c.BoardWidth))
	}
	if c.BoardHeight <= 0 {
		return shared.NewInvalidConfigError("game.boardHeight", fmt.Sprintf("must be positive, got %d", c.BoardHeight))
	}
	if c.ShipMargin < 0 {
		return shared.NewInvalidConfigError("game.shipMargin", fmt.Sprintf("must not be negative, got %d", c.ShipMargin))
	}

	groups, err := ParseFleet(c.Fleet)
	if err != nil {
		return err
	}
	if cells := FleetCellCount(groups); cells > c.BoardWidth*c.BoardHeight {
		return shared.NewInvalidConfigError("game.fleet",
			fmt.Sprintf("fleet needs %d cells, board has %d", cells, c.BoardWidth*c.BoardHeight))
	}

	// Every ship must fit in at least one orientation.
	for _, g := range groups {
		if g.Size > c.BoardWidth && g.Size > c.BoardHeight {
			return shared.NewInvalidConfigError("game.fleet",
				fmt.Sprintf("ship of size %d does not fit a %dx%d board", g.Size, c.BoardWidth, c.BoardHeight))
		}
	}

	return nil
}

// Ships returns the flat list of ship types the configuration's fleet
// places on each board. Callers must Validate first.
func (c Configuration) Ships() []ShipType {
	groups, err := ParseFleet(c.Fleet)
	if err != nil {
		return nil
	}
	return FleetShips(groups)
}
