package datastore

import (
	"context"
	"errors"

	"github.com/aleister1102/canonicald/internal/common"
	"github.com/aleister1102/canonicald/internal/config"
	"github.com/aleister1102/canonicald/internal/models"
	"github.com/rs/zerolog"
)

// ErrNotFound indicates no canonical result exists for the requested key.
var ErrNotFound = errors.New("canonical result not found")

// CanonicalStore is the persistence boundary for canonical results.
// Implementations must make Upsert atomic on the (scan_id, canonical_key)
// unique constraint so that concurrent batches cannot duplicate an identity.
type CanonicalStore interface {
	// Get returns the stored record for (scanID, canonicalKey), or ErrNotFound.
	Get(ctx context.Context, scanID, canonicalKey string) (*models.CanonicalResult, error)
	// Upsert inserts the record or overwrites all derived fields of the
	// existing row with the same (scan_id, canonical_key).
	Upsert(ctx context.Context, result *models.CanonicalResult) error
	// ListByScan returns all canonical results stored for a scan.
	ListByScan(ctx context.Context, scanID string) ([]models.CanonicalResult, error)
	Close() error
}

// NewStore creates the canonical store selected by configuration.
func NewStore(ctx context.Context, cfg config.StorageConfig, logger zerolog.Logger) (CanonicalStore, error) {
	switch cfg.Driver {
	case "postgres":
		return NewPostgresStore(ctx, cfg.DatabaseURL, logger)
	case "sqlite":
		return NewSQLiteStore(cfg.SQLitePath, logger)
	default:
		return nil, common.NewConfigurationError("storage_config", "driver", "unsupported driver: "+cfg.Driver)
	}
}
