package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the conference
// scheduler service.
type Config struct {
	HTTPPort               int
	SQLiteDSN              string
	SessionTTL             time.Duration
	BootstrapAdminEmail    string
	BootstrapAdminPassword string
}

// Load parses configuration values from the current process environment.
//
// The loader applies sensible defaults for optional fields while validating
// the values that are present. A bootstrap administrator is created on first
// start when both bootstrap variables are set.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:   8080,
		SQLiteDSN:  "file:confsched.db?_foreign_keys=on",
		SessionTTL: 24 * time.Hour,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("CONFSCHED_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "CONFSCHED_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("CONFSCHED_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if ttlValue := strings.TrimSpace(os.Getenv("CONFSCHED_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "CONFSCHED_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	cfg.BootstrapAdminEmail = strings.TrimSpace(strings.ToLower(os.Getenv("CONFSCHED_BOOTSTRAP_ADMIN_EMAIL")))
	cfg.BootstrapAdminPassword = os.Getenv("CONFSCHED_BOOTSTRAP_ADMIN_PASSWORD")

	if cfg.BootstrapAdminEmail != "" && cfg.BootstrapAdminPassword == "" {
		invalid = append(invalid, "CONFSCHED_BOOTSTRAP_ADMIN_PASSWORD")
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
