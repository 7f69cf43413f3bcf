package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	t.Setenv(PathEnv, path)
	// keep a stray .env in the package directory from leaking in
	t.Chdir(dir)
	for _, k := range []string{"API_URL", "API_PORT", "POLL_INTERVAL_SECONDS", "REDIS_ADDR", "DATABASE_URL"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	return path
}

func TestLoadCreatesDefaultFile(t *testing.T) {
	path := useTempConfig(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)
	assert.Equal(t, 10*time.Second, cfg.PollInterval())
}

func TestLoadMergesDefaultsAndEnv(t *testing.T) {
	path := useTempConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(`
[backend]
base_url = "http://backend:9000/webslayer/"

[poll]
interval_seconds = 0
`), 0600))

	t.Setenv("API_PORT", "9191")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://backend:9000/webslayer", cfg.Backend.BaseURL)
	assert.Equal(t, 10, cfg.Poll.IntervalSeconds, "out of range interval falls back to default")
	assert.Equal(t, 9191, cfg.API.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 30, cfg.Backend.TimeoutSeconds)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := useTempConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("[backend\n"), 0600))

	_, err := Load()
	assert.Error(t, err)
}

func TestSetAndSave(t *testing.T) {
	useTempConfig(t)
	cfg := DefaultConfig()

	require.NoError(t, cfg.Set("poll.interval_seconds=5"))
	require.NoError(t, cfg.Set("storage.use_ssl=true"))
	require.NoError(t, cfg.Set("backend.base_url = http://x.test"))
	require.NoError(t, Save(cfg))

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.Poll.IntervalSeconds)
	assert.True(t, loaded.Storage.UseSSL)
	assert.Equal(t, "http://x.test", loaded.Backend.BaseURL)

	for _, bad := range []string{"nokey", "poll=1", "poll.unknown=1", "nosection.key=1", "api.port=abc"} {
		assert.Error(t, cfg.Set(bad), bad)
	}
}
