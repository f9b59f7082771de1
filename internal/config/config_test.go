package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.App.HTTPPort)
	assert.Equal(t, BackendDocument, cfg.App.StoreBackend)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "uploads/users", cfg.Upload.Dir)
	assert.Equal(t, "/uploads", cfg.Upload.URLPrefix)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.False(t, cfg.Redis.CacheEnabled)
	assert.False(t, cfg.RedisRequired())
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := "STORE_BACKEND=relational\nDB_DRIVER=sqlite\nHTTP_PORT=9000\nAPP_ENV=production\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600))

	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("CACHE_ENABLED", "true")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, BackendRelational, cfg.App.StoreBackend)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "9100", cfg.App.HTTPPort, "environment overrides file")
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.True(t, cfg.Redis.CacheEnabled)
	assert.True(t, cfg.RedisRequired())
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:    AppConfig{HTTPPort: "8000", ShutdownTimeoutSeconds: 5, StoreBackend: BackendRelational},
			DB:     DatabaseConfig{Driver: DriverSQLite},
			Upload: UploadConfig{Dir: "uploads"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown backend", mutate: func(c *Config) { c.App.StoreBackend = "graph" }, wantErr: "unsupported STORE_BACKEND"},
		{name: "unknown driver", mutate: func(c *Config) { c.DB.Driver = "mysql" }, wantErr: "unsupported DB_DRIVER"},
		{name: "document without uri", mutate: func(c *Config) {
			c.App.StoreBackend = BackendDocument
			c.Mongo.Database = "directory"
		}, wantErr: "MONGO_URI is required"},
		{name: "missing port", mutate: func(c *Config) { c.App.HTTPPort = "" }, wantErr: "HTTP_PORT is required"},
		{name: "cache without ttl", mutate: func(c *Config) { c.Redis.CacheEnabled = true }, wantErr: "CACHE_TTL must be positive"},
		{name: "rate limit without rps", mutate: func(c *Config) { c.RateLimit.Enabled = true }, wantErr: "RATE_LIMIT_RPS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "directory", SSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=directory port=5432 sslmode=disable", db.DSN())
}
