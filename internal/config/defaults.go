package config

import "time"

const (
	DefaultPort            = 3000
	DefaultReadTimeout     = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultDBHost          = "localhost"
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "disable"
	DefaultDBMaxConns      = 10
	DefaultMQHost          = "localhost"
	DefaultMQPort          = 5672
	DefaultExchange        = "order_events"
	DefaultRealtimePath    = "/api/socketio"
	DefaultQueueSize       = 64
	DefaultPingInterval    = 25 * time.Second
	DefaultPongWait        = 60 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultPollTimeout     = 25 * time.Second
	DefaultSessionTimeout  = 60 * time.Second
	DefaultLogLevel        = "info"
)

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = DefaultIdleTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if c.Database.Host == "" {
		c.Database.Host = DefaultDBHost
	}
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultDBMaxConns
	}

	if c.RabbitMQ.Host == "" {
		c.RabbitMQ.Host = DefaultMQHost
	}
	if c.RabbitMQ.Port == 0 {
		c.RabbitMQ.Port = DefaultMQPort
	}
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = DefaultExchange
	}

	if c.Realtime.Path == "" {
		c.Realtime.Path = DefaultRealtimePath
	}
	if c.Realtime.QueueSize == 0 {
		c.Realtime.QueueSize = DefaultQueueSize
	}
	if c.Realtime.PingInterval == 0 {
		c.Realtime.PingInterval = DefaultPingInterval
	}
	if c.Realtime.PongWait == 0 {
		c.Realtime.PongWait = DefaultPongWait
	}
	if c.Realtime.WriteTimeout == 0 {
		c.Realtime.WriteTimeout = DefaultWriteTimeout
	}
	if c.Realtime.PollTimeout == 0 {
		c.Realtime.PollTimeout = DefaultPollTimeout
	}
	if c.Realtime.SessionTimeout == 0 {
		c.Realtime.SessionTimeout = DefaultSessionTimeout
	}

	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
}
