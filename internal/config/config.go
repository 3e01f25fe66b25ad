// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime settings for the auth store and manager.
type Config struct {
	DBPath     string        // path to the SQLite auth store file
	GraphName  string        // tenant graph namespace this store is scoped to
	TargetURL  string        // endpoint recorded on project-owned targets
	CacheTTL   time.Duration // lookup cache expiry (default 24h)
	LogLevel   string        // debug|info|warn|error
	LoginRate  float64       // hash comparisons per second per user (0 disables)
	LoginBurst int           // burst for the login limiter

	// BootstrapAdmin, when non-empty, is the password hash to seed the
	// default admin user with after schema initialization.
	BootstrapAdmin string
}

// LoadFromEnv loads configuration from environment variables, applying
// defaults for anything unset.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		DBPath:         os.Getenv("AUTH_DB_PATH"),
		GraphName:      os.Getenv("AUTH_GRAPH_NAME"),
		TargetURL:      os.Getenv("AUTH_TARGET_URL"),
		LogLevel:       os.Getenv("AUTH_LOG_LEVEL"),
		BootstrapAdmin: os.Getenv("AUTH_BOOTSTRAP_ADMIN_HASH"),
	}

	if v := os.Getenv("AUTH_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid AUTH_CACHE_TTL %q: %w", v, err)
		}
		cfg.CacheTTL = d
	}
	if v := os.Getenv("AUTH_LOGIN_RATE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid AUTH_LOGIN_RATE %q: %w", v, err)
		}
		cfg.LoginRate = f
	}
	if v := os.Getenv("AUTH_LOGIN_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid AUTH_LOGIN_BURST %q: %w", v, err)
		}
		cfg.LoginBurst = n
	}

	// Defaults
	if cfg.DBPath == "" {
		cfg.DBPath = "graphauth.sqlite"
	}
	if cfg.GraphName == "" {
		cfg.GraphName = "graph"
	}
	if cfg.TargetURL == "" {
		cfg.TargetURL = "localhost:8080"
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LoginRate > 0 && cfg.LoginBurst == 0 {
		cfg.LoginBurst = 1
	}

	return cfg, nil
}

// LoadDotEnv reads a .env file and sets any variables not already in the
// environment. Lines must be in KEY=VALUE format. Comments (#) and blank
// lines are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // .env not found is not an error
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"`)
		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
	return scanner.Err()
}
