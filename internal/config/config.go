// Package config loads process settings from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/napolitain/nation-builder/internal/persistence"
)

// Settings are the runtime knobs of the nation binary. The balance table is separate
// (see loader.LoadBalance).
type Settings struct {
	DataDir        string        `env:"NATION_DATA_DIR" envDefault:"data"`
	LogLevel       string        `env:"NATION_LOG_LEVEL" envDefault:"info"`
	HTTPAddr       string        `env:"NATION_HTTP_ADDR" envDefault:":8080"`
	TickRate       int           `env:"NATION_TICK_RATE" envDefault:"60"`
	FrameInterval  time.Duration `env:"NATION_FRAME_INTERVAL" envDefault:"16ms"`
	SaveInterval   time.Duration `env:"NATION_SAVE_INTERVAL" envDefault:"5s"`
	StreamInterval time.Duration `env:"NATION_STREAM_INTERVAL" envDefault:"250ms"`
	Storage        persistence.Options
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses Settings from the environment
func Load() (Settings, error) {
	var s Settings
	if err := ParseEnv(&s); err != nil {
		return Settings{}, err
	}
	if s.TickRate <= 0 {
		return Settings{}, fmt.Errorf("NATION_TICK_RATE must be positive, got %d", s.TickRate)
	}
	return s, nil
}

// Quantum returns the simulated seconds per tick
func (s Settings) Quantum() float64 {
	return 1 / float64(s.TickRate)
}

// Level maps LogLevel to a slog level. Unknown names mean info.
func (s Settings) Level() slog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
