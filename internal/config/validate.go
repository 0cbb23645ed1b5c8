package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks ranges and the relations between timeouts
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("database.port must be between 1 and 65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return errors.New("database.max_conns must be >= 1")
	}
	if c.RabbitMQ.Port < 1 || c.RabbitMQ.Port > 65535 {
		return fmt.Errorf("rabbitmq.port must be between 1 and 65535, got %d", c.RabbitMQ.Port)
	}

	if !strings.HasPrefix(c.Realtime.Path, "/") {
		return fmt.Errorf("realtime.path must start with /, got %q", c.Realtime.Path)
	}
	if c.Realtime.QueueSize < 1 {
		return errors.New("realtime.queue_size must be >= 1")
	}
	if c.Realtime.PingInterval <= 0 || c.Realtime.WriteTimeout <= 0 || c.Realtime.PollTimeout <= 0 {
		return errors.New("realtime.ping_interval, realtime.write_timeout and realtime.poll_timeout must be positive")
	}
	if c.Realtime.PingInterval >= c.Realtime.PongWait {
		return fmt.Errorf("realtime.ping_interval (%s) must be shorter than realtime.pong_wait (%s)",
			c.Realtime.PingInterval, c.Realtime.PongWait)
	}
	if c.Realtime.PollTimeout >= c.Realtime.SessionTimeout {
		return fmt.Errorf("realtime.poll_timeout (%s) must be shorter than realtime.session_timeout (%s)",
			c.Realtime.PollTimeout, c.Realtime.SessionTimeout)
	}

	return nil
}
