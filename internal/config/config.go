package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	ChatStoreSQLite = "sqlite"
	ChatStoreRedis  = "redis"
)

type Config struct {
	Addr            string
	DBPath          string
	LogLevel        string
	LogFormat       string
	Timezone        string
	StudyQueueLimit int
	RequestTimeout  int
	ChatStore       string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:            envOr("ADDR", ":8000"),
		DBPath:          envOr("DB_PATH", "file:studycoach.db"),
		LogLevel:        envOr("LOG_LEVEL", "INFO"),
		LogFormat:       envOr("LOG_FORMAT", "text"),
		Timezone:        envOr("TIMEZONE", "Local"),
		StudyQueueLimit: envIntOr("STUDY_QUEUE_LIMIT", 10),
		RequestTimeout:  envIntOr("REQUEST_TIMEOUT_SECONDS", 30),
		ChatStore:       envOr("CHAT_STORE", ChatStoreSQLite),
		RedisAddr:       envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   envOr("REDIS_PASSWORD", ""),
		RedisDB:         envIntOr("REDIS_DB", 0),
	}
}

// BindFlags registers command-line overrides for the most commonly changed
// settings. Flags left unset keep the values already in c.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Addr, "addr", c.Addr, "HTTP listen address")
	fs.StringVar(&c.DBPath, "db", c.DBPath, "SQLite database path")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (DEBUG, INFO, WARN, ERROR)")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log format (text, json)")
	fs.StringVar(&c.Timezone, "timezone", c.Timezone, "reference timezone for due dates")
	fs.StringVar(&c.ChatStore, "chat-store", c.ChatStore, "conversation store backend (sqlite, redis)")
}

// Validate checks the configuration and returns the first problem found.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR, got %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}
	if c.StudyQueueLimit < 1 || c.StudyQueueLimit > 100 {
		return fmt.Errorf("STUDY_QUEUE_LIMIT must be between 1 and 100, got %d", c.StudyQueueLimit)
	}
	if c.RequestTimeout < 1 {
		return fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be positive, got %d", c.RequestTimeout)
	}
	switch c.ChatStore {
	case ChatStoreSQLite:
	case ChatStoreRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("REDIS_ADDR cannot be empty when CHAT_STORE=redis")
		}
		if c.RedisDB < 0 {
			return fmt.Errorf("REDIS_DB cannot be negative, got %d", c.RedisDB)
		}
	default:
		return fmt.Errorf("CHAT_STORE must be %q or %q, got %q", ChatStoreSQLite, ChatStoreRedis, c.ChatStore)
	}
	return nil
}

// Location resolves Timezone.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// RequestTimeoutDuration returns RequestTimeout as a duration.
func (c Config) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
