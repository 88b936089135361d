package game_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mertbeyaz/battleship-go/internal/domain/game"
	"github.com/mertbeyaz/battleship-go/internal/domain/shared"
)

func TestParseFleet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		spec    string
		want    []game.FleetGroup
		wantErr bool
	}{
		{
			name: "default fleet",
			spec: "2x2,2x3,1x4,1x5",
			want: []game.FleetGroup{
				{Count: 2, Size: 2},
				{Count: 2, Size: 3},
				{Count: 1, Size: 4},
				{Count: 1, Size: 5},
			},
		},
		{
			name: "whitespace tolerated",
			spec: " 1x2 , 1x5 ",
			want: []game.FleetGroup{
				{Count: 1, Size: 2},
				{Count: 1, Size: 5},
			},
		},
		{
			name:    "empty spec",
			spec:    "",
			wantErr: true,
		},
		{
			name:    "missing separator",
			spec:    "2-2",
			wantErr: true,
		},
		{
			name:    "zero count",
			spec:    "0x2",
			wantErr: true,
		},
		{
			name:    "negative size",
			spec:    "1x-3",
			wantErr: true,
		},
		{
			name:    "unknown ship size",
			spec:    "1x7",
			wantErr: true,
		},
		{
			name:    "trailing comma",
			spec:    "1x2,",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			groups, err := game.ParseFleet(tt.spec)

			if tt.wantErr {
				var invalid *shared.InvalidConfigError
				require.ErrorAs(t, err, &invalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, groups)
		})
	}
}

func TestFleetShips_ExpandsGroupsInOrder(t *testing.T) {
	groups, err := game.ParseFleet(game.DefaultFleet)
	require.NoError(t, err)

	ships := game.FleetShips(groups)

	assert.Equal(t, []game.ShipType{
		game.ShipTypeDestroyer, game.ShipTypeDestroyer,
		game.ShipTypeCruiser, game.ShipTypeCruiser,
		game.ShipTypeBattleship,
		game.ShipTypeCarrier,
	}, ships)
	assert.Equal(t, 24, game.FleetCellCount(groups))
}

func TestConfiguration_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  game.Configuration
		wantErr bool
	}{
		{
			name:   "default configuration",
			config: game.DefaultConfiguration(),
		},
		{
			name:    "fleet larger than board",
			config:  game.Configuration{BoardWidth: 4, BoardHeight: 4, Fleet: "4x5"},
			wantErr: true,
		},
		{
			name:    "ship longer than both dimensions",
			config:  game.Configuration{BoardWidth: 4, BoardHeight: 4, Fleet: "1x5"},
			wantErr: true,
		},
		{
			name:    "zero width",
			config:  game.Configuration{BoardWidth: 0, BoardHeight: 10, Fleet: game.DefaultFleet},
			wantErr: true,
		},
		{
			name:    "negative margin",
			config:  game.Configuration{BoardWidth: 10, BoardHeight: 10, ShipMargin: -1, Fleet: game.DefaultFleet},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.config.Validate()

			if tt.wantErr {
				var invalid *shared.InvalidConfigError
				require.ErrorAs(t, err, &invalid)
				return
			}
			require.NoError(t, err)
		})
	}
}
