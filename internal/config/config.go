package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Password storage modes.
const (
	PasswordStorageBcrypt = "bcrypt"
	PasswordStoragePlain  = "plain"
)

// Config holds the application configuration.
type Config struct {
	ServerPort      int
	DataDir         string // Directory holding users.json and tasks.json
	StaticDir       string
	SessionSecret   string
	SessionCookie   string
	SessionTTL      time.Duration
	PasswordStorage string
	EventsDBPath    string
	EventRetention  time.Duration
	CORSOrigins     []string
	LogLevel        string
	Env             string
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "3000")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", portStr, err)
	}

	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	if sessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive")
	}

	retention, err := time.ParseDuration(getEnv("EVENT_RETENTION", "720h"))
	if err != nil {
		return nil, fmt.Errorf("invalid EVENT_RETENTION: %w", err)
	}

	storage := getEnv("PASSWORD_STORAGE", PasswordStorageBcrypt)
	if storage != PasswordStorageBcrypt && storage != PasswordStoragePlain {
		return nil, fmt.Errorf("invalid PASSWORD_STORAGE %q: want %q or %q", storage, PasswordStorageBcrypt, PasswordStoragePlain)
	}

	dataDir := getEnv("DATA_DIR", "./data")

	return &Config{
		ServerPort:      port,
		DataDir:         dataDir,
		StaticDir:       getEnv("STATIC_DIR", "./public"),
		SessionSecret:   getEnv("SESSION_SECRET", "todo_secret"),
		SessionCookie:   getEnv("SESSION_COOKIE", "sid"),
		SessionTTL:      sessionTTL,
		PasswordStorage: storage,
		EventsDBPath:    getEnv("EVENTS_DB_PATH", filepath.Join(dataDir, "events.db")),
		EventRetention:  retention,
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Env:             getEnv("APP_ENV", "development"),
	}, nil
}

// IsProduction reports whether the app runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// UsersFile is the backing file of the users collection.
func (c *Config) UsersFile() string {
	return filepath.Join(c.DataDir, "users.json")
}

// TasksFile is the backing file of the tasks collection.
func (c *Config) TasksFile() string {
	return filepath.Join(c.DataDir, "tasks.json")
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
