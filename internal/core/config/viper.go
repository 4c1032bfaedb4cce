package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func LoadConfig(configPath string) (*SimulatorConfig, error) {
	v := viper.New()

	// Set defaults matching DefaultSimulatorConfig
	v.SetDefault("simulator.rules_path", "./catalog/rules.yaml")
	v.SetDefault("simulator.ui_path", "./catalog/ui.yaml")
	v.SetDefault("simulator.session_id", "")
	v.SetDefault("simulator.request_timeout", "10s")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.request_stream", "tallyboard:requests")
	v.SetDefault("redis.event_stream", "tallyboard:events")
	v.SetDefault("redis.consumer_group", "tallyboard")
	v.SetDefault("redis.block_time", "1s")

	// Bind environment variables with TB_ prefix
	v.SetEnvPrefix("TB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &SimulatorConfig{
		RulesPath:      v.GetString("simulator.rules_path"),
		UIPath:         v.GetString("simulator.ui_path"),
		SessionID:      v.GetString("simulator.session_id"),
		RequestTimeout: v.GetDuration("simulator.request_timeout"),
		Redis: RedisSettings{
			Addr:          v.GetString("redis.addr"),
			Password:      v.GetString("redis.password"),
			DB:            v.GetInt("redis.db"),
			RequestStream: v.GetString("redis.request_stream"),
			EventStream:   v.GetString("redis.event_stream"),
			ConsumerGroup: v.GetString("redis.consumer_group"),
			BlockTime:     v.GetDuration("redis.block_time"),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig checks paths, stream names, and positive durations.
func validateConfig(cfg *SimulatorConfig) error {
	if cfg.RulesPath == "" {
		return fmt.Errorf("simulator.rules_path must not be empty")
	}
	if cfg.UIPath == "" {
		return fmt.Errorf("simulator.ui_path must not be empty")
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %v", cfg.RequestTimeout)
	}
	if cfg.Redis.RequestStream == "" || cfg.Redis.EventStream == "" {
		return fmt.Errorf("redis request_stream and event_stream must not be empty")
	}
	if cfg.Redis.RequestStream == cfg.Redis.EventStream {
		return fmt.Errorf("redis request_stream and event_stream must differ")
	}
	if cfg.Redis.BlockTime <= 0 {
		return fmt.Errorf("redis block_time must be positive, got %v", cfg.Redis.BlockTime)
	}
	return nil
}
