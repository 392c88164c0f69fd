// Package config holds the server settings. Values come from DUELCHESS_*
// environment variables; cmd/server lets flags override them.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	// Addr is the fiber listen address.
	Addr string
	// AllowedOrigins is passed to the CORS middleware as is.
	AllowedOrigins string
	// ClockBudget is each player's total thinking time. Zero disables clocks.
	ClockBudget time.Duration
	// RecordDir is where finished records are written. Empty disables saving.
	RecordDir   string
	Development bool
}

func Default() Config {
	return Config{
		Addr:           ":3000",
		AllowedOrigins: "http://localhost:5173",
		ClockBudget:    10 * time.Minute,
		RecordDir:      "records",
	}
}

// FromEnv starts from Default and applies any DUELCHESS_* variable that is set.
func FromEnv() (Config, error) {
	def := Default()
	cfg := Config{
		Addr:           getenv("DUELCHESS_ADDR", def.Addr),
		AllowedOrigins: getenv("DUELCHESS_ALLOWED_ORIGINS", def.AllowedOrigins),
		RecordDir:      getenv("DUELCHESS_RECORD_DIR", def.RecordDir),
		Development:    getenb("DUELCHESS_DEV", def.Development),
		ClockBudget:    def.ClockBudget,
	}
	if v := os.Getenv("DUELCHESS_CLOCK"); v != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return Config{}, fmt.Errorf("%w: DUELCHESS_CLOCK: %v", ErrInvalidConfig, err)
		}
		cfg.ClockBudget = d
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: empty listen address", ErrInvalidConfig)
	}
	if c.ClockBudget < 0 {
		return fmt.Errorf("%w: negative clock budget %s", ErrInvalidConfig, c.ClockBudget)
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenb(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}
