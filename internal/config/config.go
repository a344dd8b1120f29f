// Package config loads the application configuration from environment
// variables.
//
// TWO-STEP LOADING:
//  1. godotenv.Load() reads a .env file (if one exists) into the process
//     environment — handy in development, a no-op in production where the
//     variables come from the real environment.
//  2. env.Parse fills the Config struct from those variables, using the
//     `env:` struct tags for names, defaults, and required-ness.
//
// Using struct tags instead of a pile of os.Getenv calls keeps the whole
// schema — names, defaults, what's required — readable in one place.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the server needs to start.
type Config struct {
	Port   int    `env:"PORT" envDefault:"8080"`
	DBPath string `env:"DB_PATH" envDefault:"data/movielog.db"`

	// JWTSecret signs tokens. Required: a guessable or missing secret
	// would let anyone forge identities. Generate with:
	//   JWT_SECRET=$(openssl rand -hex 32)
	JWTSecret string `env:"JWT_SECRET,required"`

	// TokenTTL is how long issued tokens (and the cookie) stay valid.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"15m"`

	// CORSOrigins lists frontends allowed to call the API with credentials.
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	// Per-IP rate limits, requests per minute. The auth bucket is stricter
	// to slow down credential guessing.
	RateLimitRPM     int `env:"RATE_LIMIT_RPM" envDefault:"120"`
	AuthRateLimitRPM int `env:"AUTH_RATE_LIMIT_RPM" envDefault:"10"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads .env (if present) and the environment into a Config.
func Load() (*Config, error) {
	// Ignore the error: a missing .env file is normal outside development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks the constraints env tags can't express.
func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	return nil
}
