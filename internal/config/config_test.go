package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	// Save current env and restore later
	origHost := os.Getenv("DB_HOST")
	defer os.Setenv("DB_HOST", origHost)

	os.Setenv("DB_HOST", "test-host")
	os.Setenv("DB_MAX_OPEN_CONNS", "20")
	os.Setenv("MINIO_USE_SSL", "true")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"HOST", "PORT", "DB_HOST", "MINIO_ENDPOINT", "MINIO_BUCKET"} {
		orig := os.Getenv(key)
		os.Unsetenv(key)
		defer os.Setenv(key, orig)
	}

	cfg := Load()

	// The service listens on 8001 on all interfaces by default.
	assert.Equal(t, "8001", cfg.Port)
	assert.Equal(t, ":8001", cfg.Addr())

	// No database or object storage configured means standalone mode.
	assert.Empty(t, cfg.Database.Host)
	assert.Empty(t, cfg.MinIO.Endpoint)
	assert.Equal(t, "risk-reports", cfg.MinIO.Bucket)
}

func TestAppConfig_Addr(t *testing.T) {
	cfg := &AppConfig{Host: "127.0.0.1", Port: "8001"}
	assert.Equal(t, "127.0.0.1:8001", cfg.Addr())
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}
