package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearAuthEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"AUTH_DB_PATH", "AUTH_GRAPH_NAME", "AUTH_TARGET_URL", "AUTH_LOG_LEVEL",
		"AUTH_CACHE_TTL", "AUTH_LOGIN_RATE", "AUTH_LOGIN_BURST", "AUTH_BOOTSTRAP_ADMIN_HASH",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearAuthEnv(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "graphauth.sqlite", cfg.DBPath)
	assert.Equal(t, "graph", cfg.GraphName)
	assert.Equal(t, "localhost:8080", cfg.TargetURL)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Zero(t, cfg.LoginRate)
	assert.Empty(t, cfg.BootstrapAdmin)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	clearAuthEnv(t)
	t.Setenv("AUTH_DB_PATH", "/data/auth.sqlite")
	t.Setenv("AUTH_GRAPH_NAME", "tenant")
	t.Setenv("AUTH_CACHE_TTL", "1h")
	t.Setenv("AUTH_LOGIN_RATE", "2.5")
	t.Setenv("AUTH_LOG_LEVEL", "debug")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "/data/auth.sqlite", cfg.DBPath)
	assert.Equal(t, "tenant", cfg.GraphName)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, 2.5, cfg.LoginRate)
	assert.Equal(t, 1, cfg.LoginBurst, "a positive rate defaults the burst to one")
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadFromEnv_InvalidValues(t *testing.T) {
	clearAuthEnv(t)
	t.Setenv("AUTH_CACHE_TTL", "soon")
	_, err := LoadFromEnv()
	require.Error(t, err)

	clearAuthEnv(t)
	t.Setenv("AUTH_LOGIN_RATE", "fast")
	_, err = LoadFromEnv()
	require.Error(t, err)

	clearAuthEnv(t)
	t.Setenv("AUTH_LOGIN_BURST", "many")
	_, err = LoadFromEnv()
	require.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\n\nDOTENV_TEST_A=from-file\nDOTENV_TEST_B=\"quoted\"\nnot a pair\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("DOTENV_TEST_A", "")
	t.Setenv("DOTENV_TEST_B", "")
	os.Unsetenv("DOTENV_TEST_A")
	os.Unsetenv("DOTENV_TEST_B")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("DOTENV_TEST_A"))
	assert.Equal(t, "quoted", os.Getenv("DOTENV_TEST_B"))
}

func TestLoadDotEnv_DoesNotOverrideExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DOTENV_TEST_C=file\n"), 0o600))

	t.Setenv("DOTENV_TEST_C", "ambient")
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "ambient", os.Getenv("DOTENV_TEST_C"))
}

func TestLoadDotEnv_MissingFileIsFine(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}
