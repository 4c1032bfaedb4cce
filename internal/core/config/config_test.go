package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	want := DefaultSimulatorConfig()
	if cfg.RulesPath != want.RulesPath {
		t.Errorf("RulesPath = %q, want %q", cfg.RulesPath, want.RulesPath)
	}
	if cfg.UIPath != want.UIPath {
		t.Errorf("UIPath = %q, want %q", cfg.UIPath, want.UIPath)
	}
	if cfg.RequestTimeout != want.RequestTimeout {
		t.Errorf("RequestTimeout = %v, want %v", cfg.RequestTimeout, want.RequestTimeout)
	}
	if cfg.Redis != want.Redis {
		t.Errorf("Redis = %+v, want %+v", cfg.Redis, want.Redis)
	}
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("TB_SIMULATOR_RULES_PATH", "/etc/tallyboard/rules.yaml")
	t.Setenv("TB_REDIS_ADDR", "redis:6379")
	t.Setenv("TB_SIMULATOR_REQUEST_TIMEOUT", "30s")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.RulesPath != "/etc/tallyboard/rules.yaml" {
		t.Errorf("RulesPath = %q, env override not applied", cfg.RulesPath)
	}
	if cfg.Redis.Addr != "redis:6379" {
		t.Errorf("Redis.Addr = %q, env override not applied", cfg.Redis.Addr)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", cfg.RequestTimeout)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
simulator:
  rules_path: ./data/rules.yaml
  ui_path: ./data/ui.yaml
  request_timeout: 5s
redis:
  addr: 10.0.0.5:6379
  request_stream: sim:requests
  event_stream: sim:events
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.RulesPath != "./data/rules.yaml" {
		t.Errorf("RulesPath = %q", cfg.RulesPath)
	}
	if cfg.Redis.Addr != "10.0.0.5:6379" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v, want 5s", cfg.RequestTimeout)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Redis.ConsumerGroup != "tallyboard" {
		t.Errorf("ConsumerGroup = %q, want default", cfg.Redis.ConsumerGroup)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig("/does/not/exist.yaml"); err == nil {
		t.Fatal("LoadConfig() error = nil for missing file")
	}
}

func TestValidateConfig(t *testing.T) {
	valid := func() *SimulatorConfig { return DefaultSimulatorConfig() }

	tests := []struct {
		name    string
		mutate  func(*SimulatorConfig)
		wantErr bool
	}{
		{"defaults are valid", func(*SimulatorConfig) {}, false},
		{"empty rules path", func(c *SimulatorConfig) { c.RulesPath = "" }, true},
		{"empty ui path", func(c *SimulatorConfig) { c.UIPath = "" }, true},
		{"zero timeout", func(c *SimulatorConfig) { c.RequestTimeout = 0 }, true},
		{"empty request stream", func(c *SimulatorConfig) { c.Redis.RequestStream = "" }, true},
		{"identical streams", func(c *SimulatorConfig) { c.Redis.EventStream = c.Redis.RequestStream }, true},
		{"zero block time", func(c *SimulatorConfig) { c.Redis.BlockTime = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
