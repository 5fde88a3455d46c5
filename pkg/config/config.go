// Package config loads application settings from the environment,
// optionally seeded from a .env file.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the server needs to start. DatabaseURL is the
// only required setting; Redis is optional and the session cache falls
// back to an in-process cache when RedisURL is empty.
type Config struct {
	Addr        string `env:"LINKVAULT_ADDR" envDefault:":8080"`
	DatabaseURL string `env:"LINKVAULT_DATABASE_URL,required"`
	RedisURL    string `env:"LINKVAULT_REDIS_URL"`

	SessionTTL time.Duration `env:"LINKVAULT_SESSION_TTL" envDefault:"24h"`
	CacheTTL   time.Duration `env:"LINKVAULT_CACHE_TTL" envDefault:"5m"`

	// PurgeInterval controls how often expired sessions are swept from
	// storage. Zero disables the sweeper.
	PurgeInterval time.Duration `env:"LINKVAULT_PURGE_INTERVAL" envDefault:"1h"`

	LogLevel  string `env:"LINKVAULT_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LINKVAULT_LOG_FORMAT" envDefault:"json"`
}

// Load reads an optional .env file and parses the process environment.
// A missing .env file is not an error; real environment variables always
// take precedence over file values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("load env files: %w", err)
		}
	} else {
		// best-effort default .env in the working directory
		_ = godotenv.Load()
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}
