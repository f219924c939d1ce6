package config

import (
	"strings"

	"github.com/aleister1102/canonicald/internal/common"
	"github.com/go-playground/validator/v10"
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
	"fatal": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
	"text":    true,
}

// ValidateConfig performs validation on the GlobalConfig structure.
func ValidateConfig(cfg *GlobalConfig) error {
	validate := validator.New()

	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		return validLogLevels[strings.ToLower(fl.Field().String())]
	})

	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		return validLogFormats[strings.ToLower(fl.Field().String())]
	})

	if err := validate.Struct(cfg); err != nil {
		return common.WrapError(err, "config validation failed")
	}

	// Cross-field checks the struct tags cannot express.
	if cfg.StorageConfig.Driver == "sqlite" && cfg.StorageConfig.SQLitePath == "" {
		return common.NewConfigurationError("storage_config", "sqlite_path", "sqlite_path is required when driver is sqlite")
	}
	if cfg.StorageConfig.Driver == "postgres" && cfg.StorageConfig.DatabaseURL == "" {
		return common.NewConfigurationError("storage_config", "database_url", "database_url is required when driver is postgres")
	}

	return nil
}
