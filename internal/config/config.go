package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const defaultAPIBaseURL = "https://api.unsplash.com"

// Config holds runtime settings for the CLI app.
type Config struct {
	AccessKey          string        `env:"UNSPLASH_ACCESS_KEY"`
	APIBaseURL         string        `env:"UNSPLASH_API_BASE_URL" envDefault:"https://api.unsplash.com"`
	PerPage            int           `env:"UNSPLASH_PER_PAGE" envDefault:"0"`
	DBPath             string        `env:"FOTOFLIX_DB_PATH" envDefault:"fotoflix.db"`
	SessionID          string        `env:"FOTOFLIX_SESSION"`
	SessionTTL         time.Duration `env:"FOTOFLIX_SESSION_TTL" envDefault:"12h"`
	LogPath            string        `env:"FOTOFLIX_LOG_PATH" envDefault:"fotoflix.log"`
	LogLevel           string        `env:"FOTOFLIX_LOG_LEVEL" envDefault:"info"`
	InlineImagePreview bool          `env:"FOTOFLIX_INLINE_IMAGE_PREVIEW" envDefault:"true"`
}

// LoadFromEnv parses the environment and validates everything except the
// API credentials, which only some commands need (see ValidateAPI).
func LoadFromEnv() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	// An exported-but-empty variable means "use the default".
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "fotoflix.db"
	}
	if cfg.LogPath == "" {
		cfg.LogPath = "fotoflix.log"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("DBPath is required")
	}
	if c.LogPath == "" {
		return errors.New("LogPath is required")
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("FOTOFLIX_SESSION_TTL must not be negative: %s", c.SessionTTL)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("FOTOFLIX_LOG_LEVEL must be debug, info, warn or error: %s", c.LogLevel)
	}
	return nil
}

// ValidateAPI checks the settings needed to talk to Unsplash.
func (c Config) ValidateAPI() error {
	if c.AccessKey == "" {
		return errors.New("UNSPLASH_ACCESS_KEY is required")
	}
	if c.APIBaseURL == "" {
		return errors.New("APIBaseURL is required")
	}
	if c.APIBaseURL[len(c.APIBaseURL)-1] == '/' {
		return fmt.Errorf("APIBaseURL must not end with '/': %s", c.APIBaseURL)
	}
	if c.PerPage < 0 || c.PerPage > 30 {
		return fmt.Errorf("UNSPLASH_PER_PAGE must be between 0 and 30: %d", c.PerPage)
	}
	return nil
}
