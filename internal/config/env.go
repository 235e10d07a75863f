package config

import (
	"fmt"
	"strconv"
)

// parseEnv overlays environment variables. Unset or empty variables keep the
// current value.
func parseEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv("HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}

	switch {
	case getenv("DATABASE_DSN") != "":
		cfg.DatabaseDSN = getenv("DATABASE_DSN")
	case hasDBEnv(getenv):
		cfg.DatabaseDSN = buildDSN(getenv)
	}

	if v := getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := getenv("JWT_EXPIRE"); v != "" {
		d, err := ParseExpiry(v)
		if err != nil {
			return fmt.Errorf("JWT_EXPIRE: %w", err)
		}
		cfg.JWTExpire = d
	}
	if v := getenv("BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BCRYPT_COST: %w", err)
		}
		cfg.BcryptCost = cost
	}
	if v := getenv("NATS_URL"); v != "" {
		cfg.NATSURL = v
	}
	if v := getenv("AUDIT_SUBJECT"); v != "" {
		cfg.AuditSubject = v
	}
	return nil
}

func hasDBEnv(getenv func(string) string) bool {
	for _, key := range []string{"DB_HOST", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE"} {
		if getenv(key) != "" {
			return true
		}
	}
	return false
}

func buildDSN(getenv func(string) string) string {
	get := func(key, fallback string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return fallback
	}
	return "host=" + get("DB_HOST", "localhost") +
		" user=" + get("DB_USER", "accounts") +
		" password=" + get("DB_PASSWORD", "accounts") +
		" dbname=" + get("DB_NAME", "accounts") +
		" sslmode=" + get("DB_SSLMODE", "disable")
}
