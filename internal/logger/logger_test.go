package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aleister1102/canonicald/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLogLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLogLevel("WARN"))
	assert.Equal(t, zerolog.InfoLevel, ParseLogLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLogLevel("nonsense"))
}

func TestParseLogFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseLogFormat("json"))
	assert.Equal(t, FormatText, ParseLogFormat("TEXT"))
	assert.Equal(t, FormatConsole, ParseLogFormat("console"))
	assert.Equal(t, FormatConsole, ParseLogFormat("unknown"))
}

func TestLogFormatString(t *testing.T) {
	assert.Equal(t, "json", FormatJSON.String())
	assert.Equal(t, "console", FormatConsole.String())
	assert.Equal(t, "text", FormatText.String())
}

func TestNew_ConsoleOnly(t *testing.T) {
	cfg := config.LogConfig{
		LogLevel:  "debug",
		LogFormat: "console",
	}

	logger, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())
}

func TestNew_WritesToLogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "canonicald.log")
	cfg := config.LogConfig{
		LogLevel:     "info",
		LogFormat:    "json",
		LogFile:      logPath,
		MaxLogSizeMB: 10,
	}

	logger, err := New(cfg)
	require.NoError(t, err)

	logger.Info().Str("key", "value").Msg("file sink smoke test")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "file sink smoke test")
}

func TestLoggerBuilder_RejectsNonPositiveMaxSize(t *testing.T) {
	builder := NewLoggerBuilder()
	builder.config.MaxSizeMB = 0

	_, err := builder.Build()
	assert.Error(t, err)
}
