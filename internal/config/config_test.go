package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadFailsWithoutJWTSecret(t *testing.T) {
	t.Setenv("PORTAL_JWT_SECRET", "")
	t.Setenv("PORTAL_DATABASE_URL", "sqlite://portal.db")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "jwt secret")
}

func TestLoadFailsWithoutDatabaseURL(t *testing.T) {
	t.Setenv("PORTAL_JWT_SECRET", "secret")
	t.Setenv("PORTAL_DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("PORTAL_JWT_SECRET", "secret")
	t.Setenv("PORTAL_DATABASE_URL", "mongodb://localhost:27017")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":5000", cfg.HTTPAddress())
	require.Equal(t, 24*time.Hour, cfg.JWTTTL)
	require.Equal(t, "ictak", cfg.DatabaseName)
	require.Equal(t, int64(10*1024*1024), cfg.UploadMaxBytes())
	require.Equal(t, "Mridula", cfg.DefaultCourseMentor)
	require.Contains(t, cfg.AllowedOrigins, "http://localhost:5173")
	require.True(t, cfg.Debug)
	require.False(t, cfg.IsProduction())
}

func TestLoadProductionDisablesDebugUnlessForced(t *testing.T) {
	t.Setenv("PORTAL_JWT_SECRET", "secret")
	t.Setenv("PORTAL_DATABASE_URL", "mongodb://localhost:27017")
	t.Setenv("PORTAL_APP_ENV", "Production")

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.IsProduction())
	require.False(t, cfg.Debug)

	t.Setenv("PORTAL_APP_DEBUG", "true")
	cfg, err = Load()
	require.NoError(t, err)
	require.True(t, cfg.Debug)
}

func TestLoadParsesOriginList(t *testing.T) {
	t.Setenv("PORTAL_JWT_SECRET", "secret")
	t.Setenv("PORTAL_DATABASE_URL", "mongodb://localhost:27017")
	t.Setenv("PORTAL_CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}
