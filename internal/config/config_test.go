package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATA_DIR", "SESSION_TTL", "PASSWORD_STORAGE", "EVENTS_DB_PATH", "CORS_ORIGINS", "EVENT_RETENTION", "APP_ENV"} {
		t.Setenv(key, "") // restores the original value on cleanup
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.ServerPort)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, PasswordStorageBcrypt, cfg.PasswordStorage)
	assert.Equal(t, filepath.Join("data", "users.json"), cfg.UsersFile())
	assert.Equal(t, filepath.Join("data", "tasks.json"), cfg.TasksFile())
	assert.Equal(t, filepath.Join("data", "events.db"), cfg.EventsDBPath)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("DATA_DIR", "/var/lib/tasks")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("EVENT_RETENTION", "1h")
	t.Setenv("PASSWORD_STORAGE", "plain")
	t.Setenv("EVENTS_DB_PATH", "/tmp/ev.db")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,,")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.ServerPort)
	assert.Equal(t, "/var/lib/tasks/users.json", cfg.UsersFile())
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, time.Hour, cfg.EventRetention)
	assert.Equal(t, PasswordStoragePlain, cfg.PasswordStorage)
	assert.Equal(t, "/tmp/ev.db", cfg.EventsDBPath)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"port", "PORT", "abc"},
		{"session ttl", "SESSION_TTL", "soon"},
		{"zero session ttl", "SESSION_TTL", "0s"},
		{"retention", "EVENT_RETENTION", "forever"},
		{"password storage", "PASSWORD_STORAGE", "md5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
