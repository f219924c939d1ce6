package config

// Default values for configuration sections.
const (
	DefaultListenAddr          = ":8080"
	DefaultReadTimeoutSecs     = 30
	DefaultShutdownTimeoutSecs = 10

	DefaultStorageDriver = "sqlite"
	DefaultSQLitePath    = "data/canonical_results.db"

	DefaultMaxBatchSize       = 5000
	DefaultInvalidSampleLimit = 3
	DefaultProcessingPipeline = "callback"

	DefaultLogFile       = "logs/canonicald.log"
	DefaultLogFormat     = "console"
	DefaultLogLevel      = "info"
	DefaultMaxLogBackups = 3
	DefaultMaxLogSizeMB  = 100
)

// Environment variable names.
const (
	EnvConfigPath    = "CANONICALD_CONFIG_PATH"
	EnvCallbackToken = "CANONICALD_CALLBACK_TOKEN"
	EnvDatabaseURL   = "CANONICALD_DATABASE_URL"
)
