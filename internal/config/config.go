// Package config loads the registry's settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every variable name, e.g. REGISTRY_ADDR.
const EnvPrefix = "REGISTRY"

// EnvDevelopment is the environment in which insecure defaults are allowed.
const EnvDevelopment = "development"

// devAdminPassword is used when no password is configured in development.
const devAdminPassword = "admin"

// Config holds everything the server needs to start.
type Config struct {
	Env           string        `envconfig:"ENV" default:"development"`
	Addr          string        `envconfig:"ADDR" default:":3000"`
	DBPath        string        `envconfig:"DB_PATH" default:"registry.db"`
	AdminPassword string        `envconfig:"ADMIN_PASSWORD"`
	SessionSecret string        `envconfig:"SESSION_SECRET"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	LogFile       string        `envconfig:"LOG_FILE"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
}

// IsDev reports whether the registry runs in development mode.
func (c Config) IsDev() bool {
	return strings.EqualFold(c.Env, EnvDevelopment)
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return FromEnv()
}

// FromEnv reads the configuration from environment variables only.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() error {
	if c.AdminPassword == "" {
		if !c.IsDev() {
			return fmt.Errorf("%s_ADMIN_PASSWORD is required outside %s", EnvPrefix, EnvDevelopment)
		}
		c.AdminPassword = devAdminPassword
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("%s_SESSION_TTL must be positive", EnvPrefix)
	}
	return nil
}
