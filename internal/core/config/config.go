// Package config provides configuration management for the tallyboard
// simulator service.
package config

import "time"

// RedisSettings configures the Redis Streams engine boundary.
type RedisSettings struct {
	Addr          string
	Password      string
	DB            int
	RequestStream string
	EventStream   string
	ConsumerGroup string
	BlockTime     time.Duration
}

// SimulatorConfig holds configuration for the simulator control loop and
// its collaborators.
type SimulatorConfig struct {
	// RulesPath and UIPath locate the startup catalog files.
	RulesPath string
	UIPath    string

	// SessionID pins the persistence session; empty means a fresh UUIDv7
	// session per start.
	SessionID string

	// RequestTimeout bounds each outbound send to the engine boundary.
	RequestTimeout time.Duration

	Redis RedisSettings
}

// DefaultSimulatorConfig returns configuration with default values.
func DefaultSimulatorConfig() *SimulatorConfig {
	return &SimulatorConfig{
		RulesPath:      "./catalog/rules.yaml",
		UIPath:         "./catalog/ui.yaml",
		RequestTimeout: 10 * time.Second,
		Redis: RedisSettings{
			Addr:          "localhost:6379",
			RequestStream: "tallyboard:requests",
			EventStream:   "tallyboard:events",
			ConsumerGroup: "tallyboard",
			BlockTime:     time.Second,
		},
	}
}
