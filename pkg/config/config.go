package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries all runtime settings. Everything comes from the
// environment, with a .env file loaded first for local development.
type Config struct {
	Environment string
	Port        string

	PostgresDSN string

	JWTSecret         string
	JWTRefreshSecret  string
	JWTExpiresIn      time.Duration
	JWTRefreshExpires time.Duration

	AllowedOrigins []string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	Debug bool
}

func Load() (*Config, error) {
	loadEnvFile(".env")

	cfg := &Config{
		Environment:       getEnvWithDefault("ENVIRONMENT", "development"),
		Port:              getEnvWithDefault("PORT", "3000"),
		PostgresDSN:       os.Getenv("POSTGRES_DSN"),
		JWTSecret:         getEnvWithDefault("JWT_SECRET", "dev-secret-change-me"),
		JWTRefreshSecret:  getEnvWithDefault("JWT_REFRESH_SECRET", "dev-refresh-secret-change-me"),
		JWTExpiresIn:      getEnvDuration("JWT_EXPIRES_IN", 15*time.Minute),
		JWTRefreshExpires: getEnvDuration("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
		AllowedOrigins:    splitList(getEnvWithDefault("ALLOWED_ORIGINS", "http://localhost:3000")),
		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   getEnvDuration("RATE_LIMIT_WINDOW_SECONDS", time.Minute),
		Debug:             getEnvBool("DEBUG", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.IsProduction() {
		if c.JWTSecret == "" || c.JWTSecret == "dev-secret-change-me" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.JWTRefreshSecret == "" || c.JWTRefreshSecret == "dev-refresh-secret-change-me" {
			return fmt.Errorf("JWT_REFRESH_SECRET must be set in production")
		}
	}
	if c.JWTSecret == c.JWTRefreshSecret {
		return fmt.Errorf("JWT_SECRET and JWT_REFRESH_SECRET must differ")
	}
	if c.RateLimitRequests <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool  { return c.Environment == "production" }
func (c *Config) IsDevelopment() bool { return c.Environment == "development" }

func getEnvWithDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		fmt.Printf("[warn] invalid bool for %s: %q, using default\n", key, v)
		return fallback
	}
	return b
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		fmt.Printf("[warn] invalid int for %s: %q, using default\n", key, v)
		return fallback
	}
	return n
}

// getEnvDuration accepts either a Go duration string ("15m") or a bare
// number of seconds ("900").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	fmt.Printf("[warn] invalid duration for %s: %q, using default\n", key, v)
	return fallback
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// loadEnvFile reads KEY=VALUE lines into the environment without
// overriding variables that are already set.
func loadEnvFile(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
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
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
