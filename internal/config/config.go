package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PratikDhanave/detection-sessions/internal/models"
)

// Config contains runtime configuration required by the service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Auth      AuthConfig      `koanf:"auth"`
	Logging   LoggingConfig   `koanf:"logging"`
	Detection DetectionConfig `koanf:"detection"`
}

type ServerConfig struct {
	Addr string `koanf:"addr"`
}

// DatabaseConfig selects the event store. URL is a Postgres DSN for the
// postgres driver and a file path for sqlite.
type DatabaseConfig struct {
	Driver string `koanf:"driver"`
	URL    string `koanf:"url"`
}

// AuthConfig lists accepted X-API-Key values; an empty list disables auth.
type AuthConfig struct {
	APIKeys []string `koanf:"api_keys"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// DetectionConfig tunes sessionization and the streak alert.
type DetectionConfig struct {
	SessionGap      time.Duration `koanf:"session_gap"`
	WatchedCategory string        `koanf:"watched_category"`
	StreakThreshold int           `koanf:"streak_threshold"`
	TriggerGroup    string        `koanf:"trigger_group"`
}

// Validate checks cross-field constraints after loading.
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver))
	}
	if strings.TrimSpace(c.Database.URL) == "" {
		errs = append(errs, errors.New("DB_URL required"))
	}
	if c.Detection.SessionGap <= 0 {
		errs = append(errs, errors.New("detection.session_gap must be positive"))
	}
	if c.Detection.StreakThreshold <= 0 {
		errs = append(errs, errors.New("detection.streak_threshold must be positive"))
	}
	if models.NormalizeCategory(c.Detection.WatchedCategory) == "" {
		errs = append(errs, errors.New("detection.watched_category required"))
	}
	if !models.IsGroup(c.Detection.TriggerGroup) {
		errs = append(errs, fmt.Errorf("detection.trigger_group %q is not a known group", c.Detection.TriggerGroup))
	}
	for _, k := range c.Auth.APIKeys {
		if strings.TrimSpace(k) == "" {
			errs = append(errs, errors.New(`API_KEYS must be "key1,key2"`))
			break
		}
	}

	return errors.Join(errs...)
}
