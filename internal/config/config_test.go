package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.NotEmpty(t, cfg.DBConn)
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "587", cfg.SMTPPort)
	assert.Empty(t, cfg.JWTSecret)
	assert.Empty(t, cfg.ReconcileSchedule)
}

func TestNewConfig_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORAGE", StorageMemory)
	t.Setenv("DB_CONN", "")
	t.Setenv("WRITE_TIMEOUT", "3s")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("RECONCILE_SCHEDULE", "@hourly")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, 3*time.Second, cfg.WriteTimeout)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "@hourly", cfg.ReconcileSchedule)
}

func TestNewConfig_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown storage":      {"STORAGE": "redis"},
		"postgres without dsn": {"STORAGE": StoragePostgres, "DB_CONN": ""},
		"bad duration":         {"READ_TIMEOUT": "soon"},
		"negative duration":    {"SHUTDOWN_TIMEOUT": "-1s"},
		"empty port":           {"PORT": ""},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := NewConfig()
			assert.Error(t, err)
		})
	}
}
