package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Load reads the optional .env files (".env" when none given), then the
// process environment. Variables already set in the environment win.
func Load(files ...string) (*Config, error) {
	// A missing .env is fine; the environment may be set otherwise
	_ = godotenv.Load(files...)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	return cfg, nil
}
