package config

import (
	"fmt"
	"time"
)

// ServerConfig holds the HTTP/WebSocket listener configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port" validate:"required,min=1,max=65535"`

	// ShutdownTimeout bounds the graceful drain on SIGINT/SIGTERM
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Address returns the host:port listen address
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
