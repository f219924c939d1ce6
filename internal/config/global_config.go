package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/aleister1102/canonicald/internal/common"
	"gopkg.in/yaml.v3"
)

// GlobalConfig contains all configuration sections for the application
type GlobalConfig struct {
	ServerConfig  ServerConfig  `json:"server_config,omitempty" yaml:"server_config,omitempty"`
	StorageConfig StorageConfig `json:"storage_config,omitempty" yaml:"storage_config,omitempty"`
	IngestConfig  IngestConfig  `json:"ingest_config,omitempty" yaml:"ingest_config,omitempty"`
	LogConfig     LogConfig     `json:"log_config,omitempty" yaml:"log_config,omitempty"`
}

// NewDefaultGlobalConfig creates a new GlobalConfig with default values
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		ServerConfig:  NewDefaultServerConfig(),
		StorageConfig: NewDefaultStorageConfig(),
		IngestConfig:  NewDefaultIngestConfig(),
		LogConfig:     NewDefaultLogConfig(),
	}
}

// LoadGlobalConfig loads the configuration from a file or default locations.
// It determines the config file path using GetConfigPath and supports both
// YAML and JSON formats. Missing file means defaults. Environment overrides
// are applied last so secrets can stay out of config files.
func LoadGlobalConfig(providedPath string) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()

	filePath := GetConfigPath(providedPath)
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, common.WrapError(err, "failed to read config file "+filePath)
		}
		if err := parseConfigContent(data, filePath, cfg); err != nil {
			return nil, common.WrapError(err, "failed to parse config content")
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// parseConfigContent unmarshals the config content by file extension.
// YAML is preferred; .json files use encoding/json.
func parseConfigContent(data []byte, filePath string, cfg *GlobalConfig) error {
	switch filepath.Ext(filePath) {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return common.WrapError(err, "invalid JSON config")
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return common.WrapError(err, "invalid YAML config")
		}
	}
	return nil
}

func applyEnvOverrides(cfg *GlobalConfig) {
	if token := os.Getenv(EnvCallbackToken); token != "" {
		cfg.ServerConfig.CallbackToken = token
	}
	if dbURL := os.Getenv(EnvDatabaseURL); dbURL != "" {
		cfg.StorageConfig.DatabaseURL = dbURL
	}
}
