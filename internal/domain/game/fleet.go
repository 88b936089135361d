package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
)

// FleetGroup is one parsed group of a fleet string: count ships of size cells.
type FleetGroup struct {
	Count int
	Size  int
}

// ParseFleet parses a fleet composition string of the form
// "2x2,2x3,1x4,1x5" (count x size, comma separated) into groups.
// Whitespace around groups is tolerated. Counts and sizes must be
// positive and every size must map to a known ship class.
func ParseFleet(spec string) ([]FleetGroup, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, shared.NewInvalidConfigError("game.fleet", "fleet specification is empty")
	}

	parts := strings.Split(spec, ",")
	groups := make([]FleetGroup, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		countStr, sizeStr, found := strings.Cut(part, "x")
		if !found {
			return nil, shared.NewInvalidConfigError("game.fleet", fmt.Sprintf("malformed group %q, want <count>x<size>", part))
		}

		count, err := strconv.Atoi(strings.TrimSpace(countStr))
		if err != nil || count <= 0 {
			return nil, shared.NewInvalidConfigError("game.fleet", fmt.Sprintf("invalid count in group %q", part))
		}
		size, err := strconv.Atoi(strings.TrimSpace(sizeStr))
		if err != nil || size <= 0 {
			return nil, shared.NewInvalidConfigError("game.fleet", fmt.Sprintf("invalid size in group %q", part))
		}
		if _, err := ShipTypeForSize(size); err != nil {
			return nil, shared.NewInvalidConfigError("game.fleet", fmt.Sprintf("no ship class with size %d", size))
		}

		groups = append(groups, FleetGroup{Count: count, Size: size})
	}

	return groups, nil
}

// FleetShips expands parsed groups into the flat list of ship types to
// place, preserving group order.
func FleetShips(groups []FleetGroup) []ShipType {
	var ships []ShipType
	for _, g := range groups {
		t, err := ShipTypeForSize(g.Size)
		if err != nil {
			continue
		}
		for i := 0; i < g.Count; i++ {
			ships = append(ships, t)
		}
	}
	return ships
}

// FleetCellCount returns the total number of cells the fleet occupies.
func FleetCellCount(groups []FleetGroup) int {
	total := 0
	for _, g := range groups {
		total += g.Count * g.Size
	}
	return total
}
