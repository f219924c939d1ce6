package config

// StorageConfig defines configuration for the canonical result store and the
// raw finding archive.
type StorageConfig struct {
	// Driver selects the store backend: "sqlite" (default) or "postgres".
	Driver string `json:"driver,omitempty" yaml:"driver,omitempty" validate:"required,oneof=sqlite postgres"`
	// SQLitePath is the database file path when Driver is "sqlite".
	SQLitePath string `json:"sqlite_path,omitempty" yaml:"sqlite_path,omitempty"`
	// DatabaseURL is the connection string when Driver is "postgres".
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"`
	// ArchiveBasePath enables the parquet batch archive when non-empty.
	ArchiveBasePath string `json:"archive_base_path,omitempty" yaml:"archive_base_path,omitempty"`
}

// NewDefaultStorageConfig creates default storage configuration
func NewDefaultStorageConfig() StorageConfig {
	return StorageConfig{
		Driver:     DefaultStorageDriver,
		SQLitePath: DefaultSQLitePath,
	}
}
