package config

import (
	"time"

	"github.com/mertbeyaz/battleship-go/internal/domain/game"
)

// GameConfig holds the per-game rule set applied to every new game
type GameConfig struct {
	BoardWidth  int `mapstructure:"boardWidth" validate:"required,min=1"`
	BoardHeight int `mapstructure:"boardHeight" validate:"required,min=1"`
	ShipMargin  int `mapstructure:"shipMargin" validate:"min=0"`

	// Fleet spec, e.g. "2x2,2x3,1x4,1x5" = two size-2 ships, two
	// size-3, one size-4, one size-5
	Fleet string `mapstructure:"fleet" validate:"required,fleet"`
}

// Configuration converts to the domain rule set
func (c GameConfig) Configuration() game.Configuration {
	return game.Configuration{
		BoardWidth:  c.BoardWidth,
		BoardHeight: c.BoardHeight,
		ShipMargin:  c.ShipMargin,
		Fleet:       c.Fleet,
	}
}

// ConnectionConfig holds connection housekeeping configuration
type ConnectionConfig struct {
	Cleanup CleanupConfig `mapstructure:"cleanup"`
}

// CleanupConfig drives the stale connection cleaner
type CleanupConfig struct {
	// IntervalMs is the sweep cadence in milliseconds
	IntervalMs int `mapstructure:"intervalMs" validate:"required,min=1000"`

	// ThresholdHours marks rows stale after this many hours without
	// activity
	ThresholdHours int `mapstructure:"thresholdHours" validate:"required,min=1"`
}

// Interval returns the sweep cadence as a duration
func (c CleanupConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// Threshold returns the staleness cutoff as a duration
func (c CleanupConfig) Threshold() time.Duration {
	return time.Duration(c.ThresholdHours) * time.Hour
}

// DisconnectConfig drives the pause-on-disconnect grace window
type DisconnectConfig struct {
	GracePeriodMs int `mapstructure:"gracePeriodMs" validate:"min=0"`
}

// GracePeriod returns the grace window as a duration
func (c DisconnectConfig) GracePeriod() time.Duration {
	return time.Duration(c.GracePeriodMs) * time.Millisecond
}

// SchedulerConfig sizes the shared background worker pool
type SchedulerConfig struct {
	PoolSize int `mapstructure:"poolSize" validate:"required,min=1"`
}
