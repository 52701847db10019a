package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatori/chatori-backend/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "chatori", cfg.Database.Database)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, "http://localhost:8108", cfg.Typesense.URL)
	assert.Equal(t, "mock", cfg.Geolocation.Provider)
	assert.Equal(t, "chatori-backend", cfg.OTEL.ServiceName)
	assert.False(t, cfg.OTEL.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_NAME", "chatori_test")
	t.Setenv("GEOLOCATION_PROVIDER", "google")
	t.Setenv("OTEL_ENABLED", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "chatori_test", cfg.Database.Database)
	assert.Equal(t, "google", cfg.Geolocation.Provider)
	assert.True(t, cfg.OTEL.Enabled)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestDatabaseDSN(t *testing.T) {
	dbCfg := config.DatabaseConfig{
		Host: "db", Port: 5432, User: "postgres", Password: "secret",
		Database: "chatori", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=db port=5432 user=postgres password=secret dbname=chatori sslmode=disable",
		dbCfg.DatabaseDSN(),
	)
}

func TestRedisAddr(t *testing.T) {
	redisCfg := config.RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", redisCfg.RedisAddr())
}
