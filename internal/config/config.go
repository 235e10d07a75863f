// Package config loads the server configuration: defaults, an optional JSON
// file, environment variables and finally command-line flags, in that order.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultHTTPAddr     = ":8080"
	DefaultJWTExpire    = 24 * time.Hour
	DefaultBcryptCost   = 10
	DefaultAuditSubject = "accounts.events.created"
)

var ErrMissingSecret = errors.New("JWT_SECRET is required")

// Config is read once at startup and treated as read-only afterwards.
type Config struct {
	HTTPAddr    string
	DatabaseDSN string

	// JWTSecret signs session tokens (HS256).
	JWTSecret string
	JWTExpire time.Duration

	BcryptCost int

	// NATSURL enables the JetStream audit publisher when set.
	NATSURL      string
	AuditSubject string
}

func (c *Config) LoadDefaults() {
	c.HTTPAddr = DefaultHTTPAddr
	c.DatabaseDSN = buildDSN(func(string) string { return "" })
	c.JWTExpire = DefaultJWTExpire
	c.BcryptCost = DefaultBcryptCost
	c.AuditSubject = DefaultAuditSubject
}

// Load builds a Config from args (without the program name) and getenv.
func Load(args []string, getenv func(string) string) (*Config, error) {
	fv, err := parseFlags(args)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	cfg.LoadDefaults()

	path := fv.configPath
	if path == "" {
		path = getenv("CONFIG")
	}
	if path != "" {
		if err := parseJSON(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := parseEnv(cfg, getenv); err != nil {
		return nil, err
	}
	if err := fv.apply(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingSecret
	}
	if c.JWTExpire <= 0 {
		return fmt.Errorf("token expiry must be positive, got %s", c.JWTExpire)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost must be within [%d, %d], got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	if c.HTTPAddr == "" {
		return errors.New("http address is required")
	}
	if c.DatabaseDSN == "" {
		return errors.New("database dsn is required")
	}
	return nil
}

// ParseExpiry accepts a Go duration ("90m"), a day count ("7d") or bare
// seconds ("3600").
func ParseExpiry(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty expiry")
	}

	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(secs) * time.Second, nil
	}

	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.ParseInt(days, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid expiry %q: %w", s, err)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid expiry %q: %w", s, err)
	}
	return d, nil
}
