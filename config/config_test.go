package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/parley/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	cfg, err := config.Load([]string{"-data-dir", dir}, env(nil))
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.0-flash", cfg.Model)
	assert.Equal(t, config.StoreFile, cfg.Store)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Zero(t, cfg.Timeout)
	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, filepath.Join(dir, "parley.log"), cfg.LogPath())
	assert.Equal(t, filepath.Join(dir, "parley.db"), cfg.SQLitePath())
}

func TestLoad_Precedence(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeFile(t, dir, "custom.toml", `
api_key = "file-key"
model = "file-model"
store = "sqlite"
timeout = "30s"
base_url = "http://localhost:9999/"
log_level = "debug"
`)

	t.Run("file over defaults", func(t *testing.T) {
		t.Parallel()
		cfg, err := config.Load([]string{"-config", path}, env(nil))
		require.NoError(t, err)
		assert.Equal(t, "file-key", cfg.APIKey)
		assert.Equal(t, "file-model", cfg.Model)
		assert.Equal(t, config.StoreSQLite, cfg.Store)
		assert.Equal(t, 30*time.Second, cfg.Timeout)
		assert.Equal(t, "http://localhost:9999/", cfg.BaseURL)
		assert.Equal(t, zerolog.DebugLevel, cfg.Level())
	})

	t.Run("env over file", func(t *testing.T) {
		t.Parallel()
		cfg, err := config.Load([]string{"-config", path}, env(map[string]string{
			config.EnvAPIKey: "env-key",
			config.EnvModel:  "env-model",
		}))
		require.NoError(t, err)
		assert.Equal(t, "env-key", cfg.APIKey)
		assert.Equal(t, "env-model", cfg.Model)
		assert.Equal(t, config.StoreSQLite, cfg.Store)
	})

	t.Run("flags over env", func(t *testing.T) {
		t.Parallel()
		cfg, err := config.Load([]string{
			"-config", path,
			"-api-key", "flag-key",
			"-model", "flag-model",
			"-store", "file",
			"-log-file", "/tmp/p.log",
			"-log-level", "warn",
		}, env(map[string]string{config.EnvAPIKey: "env-key", config.EnvModel: "env-model"}))
		require.NoError(t, err)
		assert.Equal(t, "flag-key", cfg.APIKey)
		assert.Equal(t, "flag-model", cfg.Model)
		assert.Equal(t, config.StoreFile, cfg.Store)
		assert.Equal(t, "/tmp/p.log", cfg.LogPath())
		assert.Equal(t, zerolog.WarnLevel, cfg.Level())
	})
}

func TestLoad_DataDirConfigFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "config.toml", `model = "from-data-dir"`)

	cfg, err := config.Load([]string{"-data-dir", dir}, env(nil))
	require.NoError(t, err)
	assert.Equal(t, "from-data-dir", cfg.Model)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	t.Run("explicit config file missing", func(t *testing.T) {
		t.Parallel()
		_, err := config.Load([]string{"-config", filepath.Join(t.TempDir(), "nope.toml")}, env(nil))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed config file", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "bad.toml", "model = = x")
		_, err := config.Load([]string{"-config", path}, env(nil))
		assert.Error(t, err)
	})

	t.Run("unknown flag", func(t *testing.T) {
		t.Parallel()
		_, err := config.Load([]string{"-bogus"}, env(nil))
		assert.Error(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := config.Default()
	valid.APIKey = "k"
	require.NoError(t, valid.Validate())

	missingKey := valid
	missingKey.APIKey = ""
	assert.ErrorContains(t, missingKey.Validate(), "API key")

	badStore := valid
	badStore.Store = "redis"
	assert.ErrorContains(t, badStore.Validate(), `unknown store "redis"`)

	badLevel := valid
	badLevel.LogLevel = "loud"
	assert.Error(t, badLevel.Validate())
}

func TestEnv(t *testing.T) {
	t.Parallel()

	t.Run("reads dotenv file", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), ".env", "PARLEY_TEST_DOTENV_ONLY=from-file\n")
		getenv, err := config.Env(path)
		require.NoError(t, err)
		assert.Equal(t, "from-file", getenv("PARLEY_TEST_DOTENV_ONLY"))
		assert.Empty(t, getenv("PARLEY_TEST_UNSET"))
	})

	t.Run("missing file is ignored", func(t *testing.T) {
		t.Parallel()
		getenv, err := config.Env(filepath.Join(t.TempDir(), ".env"))
		require.NoError(t, err)
		assert.Empty(t, getenv("PARLEY_TEST_UNSET"))
	})
}
