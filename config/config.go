// Package config loads the add-on configuration from environment variables.
// A .env file is loaded first when present (development convenience).
//
// Every setting lives in one Config value that main.go passes down, instead of
// calling os.Getenv all over the code.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// Config, all configuration values. One sub-struct per concern.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Platform PlatformConfig
	CORS     CORSConfig
	Audit    AuditConfig
}

// ServerConfig, HTTP listener settings.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig, record store settings.
type DatabaseConfig struct {
	Driver        string // sqlite | mongo
	Path          string // sqlite file (e.g. ./data/modbot.db)
	MongoURI      string
	MongoDatabase string
}

// JWTConfig, verification of platform-issued access tokens.
type JWTConfig struct {
	Secret string // shared with the mqvi server, keep secret
}

// PlatformConfig, how the add-on reaches the mqvi REST API.
type PlatformConfig struct {
	URL      string        // e.g. http://localhost:9090
	BotToken string        // bearer token of the bot account
	Timeout  time.Duration // per request
}

// CORSConfig, browser origins allowed to post interactions.
type CORSConfig struct {
	AllowedOrigins []string
}

// AuditConfig, optional audit mail sink. Disabled when ResendAPIKey is empty.
type AuditConfig struct {
	ResendAPIKey string
	FromEmail    string
	ToEmails     []string
}

// Enabled, reports whether audit mail is configured.
func (c *AuditConfig) Enabled() bool {
	return c.ResendAPIKey != "" && c.FromEmail != "" && len(c.ToEmails) > 0
}

// Load, builds a Config from the environment.
func Load() (*Config, error) {
	// A missing .env is fine; production uses real env vars.
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "9191"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	timeoutSec, err := strconv.Atoi(getEnv("PLATFORM_TIMEOUT_SECONDS", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid PLATFORM_TIMEOUT_SECONDS: %w", err)
	}
	if timeoutSec <= 0 {
		return nil, fmt.Errorf("PLATFORM_TIMEOUT_SECONDS must be positive")
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	botToken := getEnv("PLATFORM_BOT_TOKEN", "")
	if botToken == "" {
		return nil, fmt.Errorf("PLATFORM_BOT_TOKEN environment variable is required")
	}

	driver := strings.ToLower(getEnv("DATABASE_DRIVER", DriverSQLite))
	mongoURI := getEnv("MONGO_URI", "")
	switch driver {
	case DriverSQLite:
	case DriverMongo:
		if mongoURI == "" {
			return nil, fmt.Errorf("MONGO_URI is required when DATABASE_DRIVER=mongo")
		}
	default:
		return nil, fmt.Errorf("invalid DATABASE_DRIVER %q (want sqlite or mongo)", driver)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			Driver:        driver,
			Path:          getEnv("DATABASE_PATH", "./data/modbot.db"),
			MongoURI:      mongoURI,
			MongoDatabase: getEnv("MONGO_DATABASE", "modbot"),
		},
		JWT: JWTConfig{
			Secret: jwtSecret,
		},
		Platform: PlatformConfig{
			URL:      strings.TrimRight(getEnv("PLATFORM_URL", "http://localhost:9090"), "/"),
			BotToken: botToken,
			Timeout:  time.Duration(timeoutSec) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Audit: AuditConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			FromEmail:    getEnv("AUDIT_EMAIL_FROM", ""),
			ToEmails:     splitList(getEnv("AUDIT_EMAIL_TO", "")),
		},
	}

	return cfg, nil
}

// Addr, listen address (e.g. "0.0.0.0:9191").
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv, reads an env var or returns fallback.
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

// splitList, "a, b,,c" → ["a" "b" "c"].
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
