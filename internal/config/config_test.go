package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "formstate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
renderer: json
session:
  store: SQLite
  path: /tmp/state.db
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Renderer)
	assert.Equal(t, StoreSQLite, cfg.Session.Store)
	assert.Equal(t, "/tmp/state.db", cfg.Session.Path)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, level)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("session: ["), 0o644))
	_, err := Load(bad)
	assert.ErrorContains(t, err, "config: parse")

	store := filepath.Join(dir, "store.yaml")
	require.NoError(t, os.WriteFile(store, []byte("session: {store: redis}"), 0o644))
	_, err = Load(store)
	assert.ErrorContains(t, err, `unknown session.store "redis"`)

	level := filepath.Join(dir, "level.yaml")
	require.NoError(t, os.WriteFile(level, []byte("log_level: loud"), 0o644))
	_, err = Load(level)
	assert.ErrorContains(t, err, "log_level")
}

func TestEnvOverrides(t *testing.T) {
	t.Run("every field", func(t *testing.T) {
		t.Setenv("FORMSTATE_LOG_LEVEL", "error")
		t.Setenv("FORMSTATE_RENDERER", "json")
		t.Setenv("FORMSTATE_SESSION_STORE", "sqlite")
		t.Setenv("FORMSTATE_SESSION_PATH", "env.db")
		t.Setenv("FORMSTATE_SESSION_ID", "abc")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, &Config{
			LogLevel: "error",
			Renderer: "json",
			Session:  SessionConfig{Store: StoreSQLite, Path: "env.db", ID: "abc"},
		}, cfg)
	})

	t.Run("empty values keep file settings", func(t *testing.T) {
		t.Setenv("FORMSTATE_RENDERER", "")

		cfg := &Config{Renderer: "json"}
		cfg.applyEnvOverrides()
		assert.Equal(t, "json", cfg.Renderer)
	})
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "formstate.yaml")
	cfg := DefaultConfig()
	cfg.Session.ID = "resume-me"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
