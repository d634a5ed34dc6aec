package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "")

	cfg := Load()

	assert.Equal(t, "development", cfg.AppEnv)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "local", cfg.StorageDriver)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, int64(16<<20), cfg.MaxUploadSize)
	assert.Equal(t, 85, cfg.JPEGQuality)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_EXPIRY", "15m")
	t.Setenv("JPEG_QUALITY", "70")
	t.Setenv("AUTH_RATE_LIMIT", "2.5")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg := Load()

	assert.Equal(t, 15*time.Minute, cfg.JWTExpiry)
	assert.Equal(t, 70, cfg.JPEGQuality)
	assert.InDelta(t, 2.5, cfg.AuthRateLimit, 0.0001)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("BAD_INT", "twelve")
	t.Setenv("BAD_DURATION", "soon")

	require.Equal(t, 12, envInt("BAD_INT", 12))
	require.Equal(t, time.Minute, envDuration("BAD_DURATION", time.Minute))
}

func TestLoadDatabaseNeedsNoSecrets(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("DB_CONNECTION", "postgres://localhost/photoshare")

	cfg := LoadDatabase()

	assert.Equal(t, "pgx", cfg.DBDriver)
	assert.Equal(t, "postgres://localhost/photoshare", cfg.DBConnection)
	assert.Empty(t, cfg.JWTSecret)
}
