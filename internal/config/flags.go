package config

import (
	"flag"
	"fmt"
	"io"
)

type flagValues struct {
	set map[string]bool

	configPath   string
	httpAddr     string
	databaseDSN  string
	jwtSecret    string
	jwtExpire    string
	bcryptCost   int
	natsURL      string
	auditSubject string
}

// parseFlags reads the supported flags:
//
//	-c string   JSON config file
//	-a string   HTTP listen address (":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT signing secret
//	-e string   token expiry ("24h", "7d", "3600")
//	-b int      bcrypt cost
//	-n string   NATS URL for audit events
//	-t string   audit subject
func parseFlags(args []string) (*flagValues, error) {
	fv := &flagValues{set: map[string]bool{}}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&fv.configPath, "c", "", "path to JSON config file")
	fs.StringVar(&fv.httpAddr, "a", "", "address and port to listen on")
	fs.StringVar(&fv.databaseDSN, "d", "", "database DSN")
	fs.StringVar(&fv.jwtSecret, "s", "", "JWT signing secret")
	fs.StringVar(&fv.jwtExpire, "e", "", "token expiry")
	fs.IntVar(&fv.bcryptCost, "b", 0, "bcrypt cost")
	fs.StringVar(&fv.natsURL, "n", "", "NATS URL for audit events")
	fs.StringVar(&fv.auditSubject, "t", "", "audit subject")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	fs.Visit(func(f *flag.Flag) { fv.set[f.Name] = true })

	return fv, nil
}

// apply copies only explicitly passed flags.
func (fv *flagValues) apply(cfg *Config) error {
	if fv.set["a"] {
		cfg.HTTPAddr = fv.httpAddr
	}
	if fv.set["d"] {
		cfg.DatabaseDSN = fv.databaseDSN
	}
	if fv.set["s"] {
		cfg.JWTSecret = fv.jwtSecret
	}
	if fv.set["e"] {
		d, err := ParseExpiry(fv.jwtExpire)
		if err != nil {
			return fmt.Errorf("-e: %w", err)
		}
		cfg.JWTExpire = d
	}
	if fv.set["b"] {
		cfg.BcryptCost = fv.bcryptCost
	}
	if fv.set["n"] {
		cfg.NATSURL = fv.natsURL
	}
	if fv.set["t"] {
		cfg.AuditSubject = fv.auditSubject
	}
	return nil
}
