package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGlobalConfig_DefaultsWhenNoFile(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv(EnvCallbackToken, "")
	t.Setenv(EnvDatabaseURL, "")
	t.Chdir(t.TempDir())

	cfg, err := LoadGlobalConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultListenAddr, cfg.ServerConfig.ListenAddr)
	assert.Equal(t, DefaultStorageDriver, cfg.StorageConfig.Driver)
	assert.Equal(t, DefaultSQLitePath, cfg.StorageConfig.SQLitePath)
	assert.Equal(t, DefaultMaxBatchSize, cfg.IngestConfig.MaxBatchSize)
	assert.Equal(t, DefaultProcessingPipeline, cfg.IngestConfig.ProcessingPipeline)
	assert.Equal(t, DefaultLogLevel, cfg.LogConfig.LogLevel)
}

func TestLoadGlobalConfig_YAMLFileOverridesDefaults(t *testing.T) {
	t.Setenv(EnvCallbackToken, "")
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server_config:
  listen_addr: ":9090"
  callback_token: "file-token"
storage_config:
  driver: postgres
  database_url: "postgres://localhost/canonicald"
ingest_config:
  max_batch_size: 100
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := LoadGlobalConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ServerConfig.ListenAddr)
	assert.Equal(t, "file-token", cfg.ServerConfig.CallbackToken)
	assert.Equal(t, "postgres", cfg.StorageConfig.Driver)
	assert.Equal(t, 100, cfg.IngestConfig.MaxBatchSize)

	// Sections absent from the file keep their defaults.
	assert.Equal(t, DefaultLogLevel, cfg.LogConfig.LogLevel)
}

func TestLoadGlobalConfig_JSONFile(t *testing.T) {
	t.Setenv(EnvCallbackToken, "")
	configPath := filepath.Join(t.TempDir(), "config.json")
	content := `{"server_config": {"listen_addr": ":7070"}}`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := LoadGlobalConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.ServerConfig.ListenAddr)
}

func TestLoadGlobalConfig_EnvOverridesWinOverFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server_config:
  callback_token: "file-token"
storage_config:
  database_url: "postgres://file-host/db"
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	t.Setenv(EnvCallbackToken, "env-token")
	t.Setenv(EnvDatabaseURL, "postgres://env-host/db")

	cfg, err := LoadGlobalConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.ServerConfig.CallbackToken)
	assert.Equal(t, "postgres://env-host/db", cfg.StorageConfig.DatabaseURL)
}

func TestLoadGlobalConfig_InvalidYAMLFails(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server_config: [not a map"), 0644))

	_, err := LoadGlobalConfig(configPath)
	assert.Error(t, err)
}

func TestGetConfigPath_PrefersFlagOverEnv(t *testing.T) {
	dir := t.TempDir()
	flagPath := filepath.Join(dir, "flag.yaml")
	envPath := filepath.Join(dir, "env.yaml")
	require.NoError(t, os.WriteFile(flagPath, []byte(""), 0644))
	require.NoError(t, os.WriteFile(envPath, []byte(""), 0644))
	t.Setenv(EnvConfigPath, envPath)

	assert.Equal(t, flagPath, GetConfigPath(flagPath))
	assert.Equal(t, envPath, GetConfigPath(""))
}

func TestGetConfigPath_FindsConfigInWorkingDirectory(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(""), 0644))
	t.Chdir(dir)

	assert.Equal(t, filepath.Join(dir, "config.yaml"), GetConfigPath(""))
}
