package datastore

import (
	"context"
	"errors"
	"time"

	"github.com/aleister1102/canonicald/internal/common"
	"github.com/aleister1102/canonicald/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// PostgresStore persists canonical results in Postgres. Same semantics as
// SQLiteStore; the unique constraint on (scan_id, canonical_key) backs the
// upsert's conflict clause.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresStore connects a pool, pings it and ensures the schema.
func NewPostgresStore(ctx context.Context, databaseURL string, logger zerolog.Logger) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, common.WrapError(err, "invalid postgres connection string")
	}
	poolCfg.MaxConns = 10
	poolCfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, common.WrapError(err, "failed to create postgres pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, common.WrapError(err, "failed to ping postgres")
	}

	store := &PostgresStore{
		pool:   pool,
		logger: logger.With().Str("module", "PostgresStore").Logger(),
	}
	if err := store.initSchema(ctx); err != nil {
		pool.Close()
		return nil, common.WrapError(err, "failed to initialize schema")
	}
	return store, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS canonical_results (
		id UUID PRIMARY KEY,
		scan_id TEXT NOT NULL,
		workspace_id TEXT NOT NULL,
		canonical_key TEXT NOT NULL,
		platform_name TEXT,
		canonical_username TEXT,
		primary_url TEXT,
		page_type TEXT,
		url_variants JSONB NOT NULL DEFAULT '[]'::jsonb,
		severity TEXT,
		confidence DOUBLE PRECISION,
		is_verified BOOLEAN NOT NULL DEFAULT FALSE,
		verification_status TEXT,
		risk_score DOUBLE PRECISION,
		ai_summary TEXT,
		remediation_priority TEXT,
		platform_category TEXT,
		source_finding_ids JSONB NOT NULL DEFAULT '[]'::jsonb,
		source_providers JSONB NOT NULL DEFAULT '[]'::jsonb,
		processing_pipeline TEXT,
		observed_at TEXT,
		updated_at TIMESTAMPTZ NOT NULL,
		UNIQUE(scan_id, canonical_key)
	)`
	_, err := s.pool.Exec(ctx, query)
	return err
}

// Get returns the stored record for (scanID, canonicalKey), or ErrNotFound.
func (s *PostgresStore) Get(ctx context.Context, scanID, canonicalKey string) (*models.CanonicalResult, error) {
	query := `SELECT id, scan_id, workspace_id, canonical_key, platform_name, canonical_username,
		primary_url, page_type, url_variants, severity, confidence, is_verified,
		verification_status, risk_score, ai_summary, remediation_priority, platform_category,
		source_finding_ids, source_providers, processing_pipeline, observed_at
		FROM canonical_results WHERE scan_id = $1 AND canonical_key = $2`

	row := s.pool.QueryRow(ctx, query, scanID, canonicalKey)
	result, err := scanCanonicalRow(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, common.WrapErrorf(err, "failed to query canonical result %s/%s", scanID, canonicalKey)
	}
	return result, nil
}

// Upsert inserts the record or overwrites all derived fields of the existing
// row sharing (scan_id, canonical_key).
func (s *PostgresStore) Upsert(ctx context.Context, result *models.CanonicalResult) error {
	variantsJSON, findingIDsJSON, providersJSON, err := marshalSets(result)
	if err != nil {
		return err
	}

	id := result.ID
	if id == "" {
		id = uuid.NewString()
	}

	query := `INSERT INTO canonical_results (
		id, scan_id, workspace_id, canonical_key, platform_name, canonical_username,
		primary_url, page_type, url_variants, severity, confidence, is_verified,
		verification_status, risk_score, ai_summary, remediation_priority, platform_category,
		source_finding_ids, source_providers, processing_pipeline, observed_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	ON CONFLICT (scan_id, canonical_key) DO UPDATE SET
		workspace_id = EXCLUDED.workspace_id,
		platform_name = EXCLUDED.platform_name,
		canonical_username = EXCLUDED.canonical_username,
		primary_url = EXCLUDED.primary_url,
		page_type = EXCLUDED.page_type,
		url_variants = EXCLUDED.url_variants,
		severity = EXCLUDED.severity,
		confidence = EXCLUDED.confidence,
		is_verified = EXCLUDED.is_verified,
		verification_status = EXCLUDED.verification_status,
		risk_score = EXCLUDED.risk_score,
		ai_summary = EXCLUDED.ai_summary,
		remediation_priority = EXCLUDED.remediation_priority,
		platform_category = EXCLUDED.platform_category,
		source_finding_ids = EXCLUDED.source_finding_ids,
		source_providers = EXCLUDED.source_providers,
		processing_pipeline = EXCLUDED.processing_pipeline,
		observed_at = EXCLUDED.observed_at,
		updated_at = EXCLUDED.updated_at`

	_, err = s.pool.Exec(ctx, query,
		id, result.ScanID, result.WorkspaceID, result.CanonicalKey,
		result.PlatformName, result.CanonicalUsername,
		result.PrimaryURL, string(result.PageType), variantsJSON,
		result.Severity, result.Confidence, result.IsVerified,
		result.VerificationStatus, result.RiskScore,
		result.AISummary, result.RemediationPriority, result.PlatformCategory,
		findingIDsJSON, providersJSON, result.ProcessingPipeline,
		result.ObservedAt, time.Now().UTC(),
	)
	if err != nil {
		s.logger.Error().Err(err).Str("canonical_key", result.CanonicalKey).Msg("Failed to upsert canonical result")
		return common.WrapErrorf(err, "failed to upsert canonical result %s/%s", result.ScanID, result.CanonicalKey)
	}
	return nil
}

// ListByScan returns all canonical results stored for a scan.
func (s *PostgresStore) ListByScan(ctx context.Context, scanID string) ([]models.CanonicalResult, error) {
	query := `SELECT id, scan_id, workspace_id, canonical_key, platform_name, canonical_username,
		primary_url, page_type, url_variants, severity, confidence, is_verified,
		verification_status, risk_score, ai_summary, remediation_priority, platform_category,
		source_finding_ids, source_providers, processing_pipeline, observed_at
		FROM canonical_results WHERE scan_id = $1 ORDER BY canonical_key`

	rows, err := s.pool.Query(ctx, query, scanID)
	if err != nil {
		return nil, common.WrapError(err, "failed to list canonical results for scan "+scanID)
	}
	defer rows.Close()

	results := make([]models.CanonicalResult, 0)
	for rows.Next() {
		result, err := scanCanonicalRow(rows.Scan)
		if err != nil {
			return nil, common.WrapError(err, "failed to scan canonical result row")
		}
		results = append(results, *result)
	}
	return results, rows.Err()
}
