// Package config loads runtime settings from the environment.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds every tunable the service reads at startup.
type Config struct {
	Port      string `env:"PORT, default=9000"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	// JWTSecret signs session tokens. Required: an unset secret would make
	// every issued session forgeable.
	JWTSecret string `env:"JWT_SECRET, required"`

	RedisURL string `env:"REDIS_URL, default=redis://localhost:6379/0"`

	ChallengeTTL time.Duration `env:"CHALLENGE_TTL, default=5m"`
	SessionTTL   time.Duration `env:"SESSION_TTL, default=2h"`

	RateLimitMax    int           `env:"RATE_LIMIT_MAX, default=5"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW, default=5m"`

	BcryptCost int `env:"BCRYPT_COST, default=12"`
}

// Load reads configuration from environment variables.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return &cfg, nil
}
