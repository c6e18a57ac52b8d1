package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvServer, EnvDBDir, EnvTZ, EnvLogLevel, EnvTimeout} {
		t.Setenv(key, "")
	}
	t.Setenv("HOME", t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, rest, err := load([]string{"status"}, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, DefaultServer, cfg.ServerURL)
	assert.Equal(t, DefaultTZ, cfg.TZ)
	assert.Equal(t, "Europe/Madrid", cfg.Location.String())
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.False(t, cfg.ShowVersion)
	assert.Equal(t, ".staffdesk", filepath.Base(cfg.DBDir))
	assert.Equal(t, []string{"status"}, rest)
}

func TestLoad_EnvAndFlags(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvServer, "https://hr.example.com/")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvTimeout, "5s")

	dir := t.TempDir()
	cfg, rest, err := load([]string{"--db-dir", dir, "--tz", "UTC", "punch", "start"}, filepath.Join(dir, "none.env"))
	require.NoError(t, err)

	assert.Equal(t, "https://hr.example.com", cfg.ServerURL)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "UTC", cfg.TZ)
	assert.Equal(t, dir, cfg.DBDir)
	assert.Equal(t, []string{"punch", "start"}, rest)

	assert.Equal(t, filepath.Join(dir, "staffdesk.db"), cfg.DurableDBPath())
	assert.Equal(t, filepath.Join(dir, "token.key"), cfg.KeyPath())
	assert.Equal(t, "session.db", filepath.Base(cfg.EphemeralDBPath()))
	assert.NotEqual(t, filepath.Dir(cfg.DurableDBPath()), filepath.Dir(cfg.EphemeralDBPath()))
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.Unsetenv(EnvServer))

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("STAFFDESK_SERVER=http://dotenv:3001\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv(EnvServer) })

	cfg, _, err := load(nil, envFile)
	require.NoError(t, err)
	assert.Equal(t, "http://dotenv:3001", cfg.ServerURL)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown flag", args: []string{"--nope"}},
		{name: "bad time zone", args: []string{"--tz", "Mars/Olympus"}},
		{name: "bad log level", args: []string{"--log-level", "loud"}},
		{name: "empty server", args: []string{"--server", " "}},
		{name: "bad timeout", args: []string{"--timeout", "soon"}},
		{name: "zero timeout", args: []string{"--timeout", "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, _, err := load(tt.args, filepath.Join(t.TempDir(), "none.env"))
			assert.Error(t, err)
		})
	}
}

func TestLoad_Version(t *testing.T) {
	clearEnv(t)
	cfg, rest, err := load([]string{"--version"}, filepath.Join(t.TempDir(), "none.env"))
	require.NoError(t, err)
	assert.True(t, cfg.ShowVersion)
	assert.Empty(t, rest)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}
