package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// fileConfig is the on-disk shape. Empty fields leave the current value.
type fileConfig struct {
	HTTPAddr     string `json:"http_addr"`
	DatabaseDSN  string `json:"database_dsn"`
	JWTSecret    string `json:"jwt_secret"`
	JWTExpire    string `json:"jwt_expire"`
	BcryptCost   int    `json:"bcrypt_cost"`
	NATSURL      string `json:"nats_url"`
	AuditSubject string `json:"audit_subject"`
}

func parseJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.HTTPAddr != "" {
		cfg.HTTPAddr = fc.HTTPAddr
	}
	if fc.DatabaseDSN != "" {
		cfg.DatabaseDSN = fc.DatabaseDSN
	}
	if fc.JWTSecret != "" {
		cfg.JWTSecret = fc.JWTSecret
	}
	if fc.JWTExpire != "" {
		d, err := ParseExpiry(fc.JWTExpire)
		if err != nil {
			return fmt.Errorf("jwt_expire: %w", err)
		}
		cfg.JWTExpire = d
	}
	if fc.BcryptCost != 0 {
		cfg.BcryptCost = fc.BcryptCost
	}
	if fc.NATSURL != "" {
		cfg.NATSURL = fc.NATSURL
	}
	if fc.AuditSubject != "" {
		cfg.AuditSubject = fc.AuditSubject
	}
	return nil
}
