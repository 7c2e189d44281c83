package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("DB_URL", "postgres://u:p@localhost/db")
	t.Setenv("API_KEYS", " key-a , key-b,,")
	t.Setenv("STREAK_THRESHOLD", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Driver != "postgres" || cfg.Database.URL != "postgres://u:p@localhost/db" {
		t.Fatalf("unexpected database config %+v", cfg.Database)
	}
	if !reflect.DeepEqual(cfg.Auth.APIKeys, []string{"key-a", "key-b"}) {
		t.Fatalf("unexpected api keys %q", cfg.Auth.APIKeys)
	}
	if cfg.Detection.StreakThreshold != 3 {
		t.Fatalf("env override ignored: %d", cfg.Detection.StreakThreshold)
	}
	if cfg.Detection.SessionGap != time.Minute || cfg.Detection.WatchedCategory != "pedestrian" {
		t.Fatalf("unexpected detection defaults %+v", cfg.Detection)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
database:
  driver: sqlite
  url: ` + filepath.Join(dir, "events.db") + `
detection:
  session_gap: 90s
  trigger_group: Vehicles
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("file value ignored: %+v", cfg.Database)
	}
	if cfg.Detection.SessionGap != 90*time.Second || cfg.Detection.TriggerGroup != "Vehicles" {
		t.Fatalf("unexpected detection config %+v", cfg.Detection)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("env should override file, got %q", cfg.Logging.Level)
	}
}

func TestLoad_MissingDBURL(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("DB_URL", "")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "DB_URL required") {
		t.Fatalf("expected DB_URL error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := defaultConfig()
		c.Database.URL = "x"
		return c
	}
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad driver", func(c *Config) { c.Database.Driver = "mysql" }, "database.driver"},
		{"zero gap", func(c *Config) { c.Detection.SessionGap = 0 }, "session_gap"},
		{"zero threshold", func(c *Config) { c.Detection.StreakThreshold = 0 }, "streak_threshold"},
		{"empty watched", func(c *Config) { c.Detection.WatchedCategory = " " }, "watched_category"},
		{"unknown group", func(c *Config) { c.Detection.TriggerGroup = "Animals" }, "trigger_group"},
		{"blank api key", func(c *Config) { c.Auth.APIKeys = []string{"a", ""} }, "API_KEYS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
