package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, "8083", cfg.Port)
	require.Equal(t, "postgres", cfg.DBDriver)
	require.Equal(t, "chat.events", cfg.Exchange)
	require.Equal(t, 100, cfg.MaxLimit)
	require.False(t, cfg.DebugRoutes)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("DB_DSN", "file:test.sqlite")
	t.Setenv("MESSAGES_MAX_LIMIT", "20")
	t.Setenv("DEBUG_ROUTES", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, "sqlite3", cfg.DBDriver)
	require.Equal(t, "file:test.sqlite", cfg.DBDSN)
	require.Equal(t, 20, cfg.MaxLimit)
	require.True(t, cfg.DebugRoutes)
}

func TestLoadEnvFileDoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GROUPCHAT_TEST_ONLY=1\nPORT=9999\n"), 0o600))
	t.Setenv("PORT", "7000")
	t.Cleanup(func() { _ = os.Unsetenv("GROUPCHAT_TEST_ONLY") })

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "7000", cfg.Port)
	require.Equal(t, "1", os.Getenv("GROUPCHAT_TEST_ONLY"))
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver": {"DB_DRIVER": "mysql"},
		"bad limit":      {"MESSAGES_MAX_LIMIT": "0"},
		"bad format":     {"LOG_FORMAT": "xml"},
		"not a number":   {"MESSAGES_MAX_LIMIT": "many"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			require.Error(t, err)
		})
	}
}
