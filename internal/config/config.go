package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	APIBaseURL       string        `mapstructure:"API_BASE_URL"`
	Env              string        `mapstructure:"ENV"`
	RequestTimeout   time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	StateDir         string        `mapstructure:"STATE_DIR"`
	SandboxPort      string        `mapstructure:"SANDBOX_PORT"`
	SandboxJWTSecret string        `mapstructure:"SANDBOX_JWT_SECRET"`
	RateLimitRPS     float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst   int           `mapstructure:"RATE_LIMIT_BURST"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("API_BASE_URL", "http://localhost:8081/api")
	v.SetDefault("ENV", "development")
	v.SetDefault("REQUEST_TIMEOUT", "10s")
	v.SetDefault("SANDBOX_PORT", "8081")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("API_BASE_URL")
	v.BindEnv("ENV")
	v.BindEnv("REQUEST_TIMEOUT")
	v.BindEnv("STATE_DIR")
	v.BindEnv("SANDBOX_PORT")
	v.BindEnv("SANDBOX_JWT_SECRET")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.StateDir = filepath.Join(home, ".mediconnect")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the client is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. The base URL must be
// absolute so relative resource paths resolve against it, and the request
// timeout must stay positive because every backend call inherits it.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("API_BASE_URL is not a valid URL: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", c.APIBaseURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if c.IsProduction() && c.SandboxJWTSecret == "" {
		// The sandbox refuses to mint video-session tokens without a real
		// secret outside development.
		return fmt.Errorf("SANDBOX_JWT_SECRET is required in production")
	}
	return nil
}
