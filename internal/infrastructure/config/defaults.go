package config

import (
	"time"

	"github.com/mertbeyaz/battleship-go/internal/domain/game"
)

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15 * time.Second
	}

	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "battleship.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "battleship"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "battleship"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Game defaults
	if cfg.Game.BoardWidth == 0 {
		cfg.Game.BoardWidth = game.DefaultBoardWidth
	}
	if cfg.Game.BoardHeight == 0 {
		cfg.Game.BoardHeight = game.DefaultBoardHeight
	}
	if cfg.Game.ShipMargin == 0 {
		cfg.Game.ShipMargin = game.DefaultShipMargin
	}
	if cfg.Game.Fleet == "" {
		cfg.Game.Fleet = game.DefaultFleet
	}

	// Connection cleanup defaults: sweep hourly, purge after a day
	if cfg.Connection.Cleanup.IntervalMs == 0 {
		cfg.Connection.Cleanup.IntervalMs = 3600000
	}
	if cfg.Connection.Cleanup.ThresholdHours == 0 {
		cfg.Connection.Cleanup.ThresholdHours = 24
	}

	// Disconnect grace default: 10 seconds to come back
	if cfg.Disconnect.GracePeriodMs == 0 {
		cfg.Disconnect.GracePeriodMs = 10000
	}

	// Scheduler defaults
	if cfg.Scheduler.PoolSize == 0 {
		cfg.Scheduler.PoolSize = 5
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	// Metrics defaults
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}
