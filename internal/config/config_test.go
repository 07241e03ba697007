package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FillsDefaults(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "localhost"
user = "appointments"
password = "secret"
dbname = "appointments"

[schedule]
timezone = "Europe/Moscow"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL())
	assert.Equal(t, "09:00", cfg.Schedule.Defaults().StartTime)
	assert.Equal(t,
		"host=localhost port=5432 user=appointments password=secret dbname=appointments sslmode=disable",
		cfg.Database.DSN())

	loc, err := cfg.Schedule.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", loc.String())
}

func TestLoad_RedisBackend(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "db"
dbname = "appointments"

[cache]
backend = "Redis"
ttl_seconds = 60

[redis]
addr = "redis:6379"
db = 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, CacheBackendRedis, cfg.Cache.Backend)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing database", `[server]
http_port = 8080`},
		{"unknown timezone", `[database]
host = "db"
dbname = "x"
[schedule]
timezone = "Mars/Olympus"`},
		{"bad default schedule", `[database]
host = "db"
dbname = "x"
[schedule]
start_time = "19:00"
end_time = "18:00"`},
		{"unknown cache backend", `[database]
host = "db"
dbname = "x"
[cache]
backend = "memcached"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
