package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("UPLOAD_PUBLIC_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, "http://localhost:9090/uploads", cfg.Upload.PublicURL)
	assert.Equal(t, int64(10*1024*1024), cfg.Upload.MaxSize)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetEnvAsList(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, getEnvAsList("CORS_ALLOWED_ORIGINS", nil))

	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	assert.Equal(t, []string{"x"}, getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"x"}))
}

func TestDatabaseRedacted(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "audit", Password: "s3cret", Database: "asset_audit", SSLMode: "disable"}

	assert.Contains(t, d.DSN(), "password=s3cret")
	assert.Contains(t, d.DSN(), "TimeZone=UTC")
	assert.NotContains(t, d.Redacted(), "s3cret")
	assert.Equal(t, "postgres://audit:xxxxx@db:5432/asset_audit?sslmode=disable", d.Redacted())
}
