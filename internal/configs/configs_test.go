package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnv sets the variables without which LoadConfig refuses to start.
func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("S3_BUCKET_NAME", "dmchat-test")
	t.Setenv("S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("S3_ACCESS_KEY_ID", "test-access-key")
	t.Setenv("S3_SECRET_ACCESS_KEY", "test-secret-key")
}

func TestLoadConfigDevelopmentDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("PORT", "")
	t.Setenv("HEARTBEAT_INTERVAL", "")
	t.Setenv("HEARTBEAT_TIMEOUT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, 1*time.Second, cfg.HeartbeatTimeout)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.NotEmpty(t, cfg.DatabaseDSN)
}

func TestLoadConfigHeartbeatOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HEARTBEAT_INTERVAL", "10s")
	t.Setenv("HEARTBEAT_TIMEOUT", "2s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, 2*time.Second, cfg.HeartbeatTimeout)
}

func TestLoadConfigTimeoutMustBeShorterThanInterval(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HEARTBEAT_INTERVAL", "2s")
	t.Setenv("HEARTBEAT_TIMEOUT", "2s")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HEARTBEAT_TIMEOUT")
}

func TestLoadConfigRejectsBadDurations(t *testing.T) {
	setRequiredEnv(t)

	for _, bad := range []string{"five seconds", "-1s", "0"} {
		t.Setenv("HEARTBEAT_INTERVAL", bad)

		_, err := LoadConfig()
		assert.Error(t, err, "HEARTBEAT_INTERVAL=%q must be rejected", bad)
	}
}

func TestLoadConfigProductionRequiresSecrets(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("DATABASE_URL", "")

	_, err = LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadConfigAllowedOrigins(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ALLOWED_ORIGINS", " https://chat.example.com , https://admin.example.com ,")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://chat.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
}

func TestLoadConfigRejectsPrivilegedPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "80")

	_, err := LoadConfig()
	assert.Error(t, err)
}
