package logger

import (
	"github.com/aleister1102/canonicald/internal/config"
	"github.com/rs/zerolog"
)

// New creates a new zerolog logger from application log configuration.
func New(cfg config.LogConfig) (zerolog.Logger, error) {
	return NewLoggerBuilder().WithConfig(cfg).Build()
}
