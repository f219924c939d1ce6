package datastore

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/aleister1102/canonicald/internal/common"
	"github.com/aleister1102/canonicald/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists canonical results in a local SQLite database.
// It is the default store for single-node deployments.
type SQLiteStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewSQLiteStore opens the database file and ensures the schema is set up.
func NewSQLiteStore(dataSourceName string, logger zerolog.Logger) (*SQLiteStore, error) {
	moduleLogger := logger.With().Str("module", "SQLiteStore").Logger()
	moduleLogger.Info().Str("db_path", dataSourceName).Msg("Initializing canonical results database")

	dbDir := filepath.Dir(dataSourceName)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, common.WrapError(err, "failed to create database directory "+dbDir)
	}

	dbInstance, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, common.WrapError(err, "sql.Open failed for "+dataSourceName)
	}

	store := &SQLiteStore{
		db:     dbInstance,
		logger: moduleLogger,
	}

	if err := store.initSchema(); err != nil {
		_ = store.Close()
		return nil, common.WrapError(err, "failed to initialize schema")
	}
	return store, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// initSchema creates the canonical_results table if it doesn't already exist.
// The UNIQUE(scan_id, canonical_key) constraint is what makes Upsert atomic.
func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS canonical_results (
		id TEXT PRIMARY KEY,
		scan_id TEXT NOT NULL,
		workspace_id TEXT NOT NULL,
		canonical_key TEXT NOT NULL,
		platform_name TEXT,
		canonical_username TEXT,
		primary_url TEXT,
		page_type TEXT,
		url_variants TEXT NOT NULL DEFAULT '[]',
		severity TEXT,
		confidence REAL,
		is_verified INTEGER NOT NULL DEFAULT 0,
		verification_status TEXT,
		risk_score REAL,
		ai_summary TEXT,
		remediation_priority TEXT,
		platform_category TEXT,
		source_finding_ids TEXT NOT NULL DEFAULT '[]',
		source_providers TEXT NOT NULL DEFAULT '[]',
		processing_pipeline TEXT,
		observed_at TEXT,
		updated_at DATETIME NOT NULL,
		UNIQUE(scan_id, canonical_key)
	);
	`
	_, err := s.db.Exec(query)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to initialize schema")
		return err
	}
	return nil
}

// Get returns the stored record for (scanID, canonicalKey), or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, scanID, canonicalKey string) (*models.CanonicalResult, error) {
	query := `SELECT id, scan_id, workspace_id, canonical_key, platform_name, canonical_username,
		primary_url, page_type, url_variants, severity, confidence, is_verified,
		verification_status, risk_score, ai_summary, remediation_priority, platform_category,
		source_finding_ids, source_providers, processing_pipeline, observed_at
		FROM canonical_results WHERE scan_id = ? AND canonical_key = ?`

	row := s.db.QueryRowContext(ctx, query, scanID, canonicalKey)
	result, err := scanCanonicalRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, common.WrapErrorf(err, "failed to query canonical result %s/%s", scanID, canonicalKey)
	}
	return result, nil
}

// Upsert inserts the record or overwrites all derived fields of the existing
// row sharing (scan_id, canonical_key). The row id is assigned on first
// insert and never changes afterwards.
func (s *SQLiteStore) Upsert(ctx context.Context, result *models.CanonicalResult) error {
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
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(scan_id, canonical_key) DO UPDATE SET
		workspace_id = excluded.workspace_id,
		platform_name = excluded.platform_name,
		canonical_username = excluded.canonical_username,
		primary_url = excluded.primary_url,
		page_type = excluded.page_type,
		url_variants = excluded.url_variants,
		severity = excluded.severity,
		confidence = excluded.confidence,
		is_verified = excluded.is_verified,
		verification_status = excluded.verification_status,
		risk_score = excluded.risk_score,
		ai_summary = excluded.ai_summary,
		remediation_priority = excluded.remediation_priority,
		platform_category = excluded.platform_category,
		source_finding_ids = excluded.source_finding_ids,
		source_providers = excluded.source_providers,
		processing_pipeline = excluded.processing_pipeline,
		observed_at = excluded.observed_at,
		updated_at = excluded.updated_at`

	_, err = s.db.ExecContext(ctx, query,
		id, result.ScanID, result.WorkspaceID, result.CanonicalKey,
		result.PlatformName, result.CanonicalUsername,
		result.PrimaryURL, string(result.PageType), variantsJSON,
		result.Severity, result.Confidence, result.IsVerified,
		result.VerificationStatus, nullableFloat(result.RiskScore),
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
func (s *SQLiteStore) ListByScan(ctx context.Context, scanID string) ([]models.CanonicalResult, error) {
	query := `SELECT id, scan_id, workspace_id, canonical_key, platform_name, canonical_username,
		primary_url, page_type, url_variants, severity, confidence, is_verified,
		verification_status, risk_score, ai_summary, remediation_priority, platform_category,
		source_finding_ids, source_providers, processing_pipeline, observed_at
		FROM canonical_results WHERE scan_id = ? ORDER BY canonical_key`

	rows, err := s.db.QueryContext(ctx, query, scanID)
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

// scanCanonicalRow maps one row onto a CanonicalResult using the shared
// column order of Get and ListByScan.
func scanCanonicalRow(scan func(dest ...any) error) (*models.CanonicalResult, error) {
	var result models.CanonicalResult
	var pageType string
	var primaryURL, verificationStatus, aiSummary, remediationPriority sql.NullString
	var platformCategory, processingPipeline, observedAt sql.NullString
	var riskScore sql.NullFloat64
	var variantsJSON, findingIDsJSON, providersJSON []byte

	err := scan(
		&result.ID, &result.ScanID, &result.WorkspaceID, &result.CanonicalKey,
		&result.PlatformName, &result.CanonicalUsername,
		&primaryURL, &pageType, &variantsJSON,
		&result.Severity, &result.Confidence, &result.IsVerified,
		&verificationStatus, &riskScore, &aiSummary, &remediationPriority,
		&platformCategory, &findingIDsJSON, &providersJSON,
		&processingPipeline, &observedAt,
	)
	if err != nil {
		return nil, err
	}

	result.PageType = models.PageType(pageType)
	result.PrimaryURL = primaryURL.String
	result.VerificationStatus = verificationStatus.String
	result.AISummary = aiSummary.String
	result.RemediationPriority = remediationPriority.String
	result.PlatformCategory = platformCategory.String
	result.ProcessingPipeline = processingPipeline.String
	result.ObservedAt = observedAt.String
	if riskScore.Valid {
		result.RiskScore = &riskScore.Float64
	}

	if err := unmarshalSets(&result, variantsJSON, findingIDsJSON, providersJSON); err != nil {
		return nil, err
	}
	return &result, nil
}

func marshalSets(result *models.CanonicalResult) (variants, findingIDs, providers []byte, err error) {
	variants, err = json.Marshal(emptyIfNilVariants(result.URLVariants))
	if err != nil {
		return nil, nil, nil, common.WrapError(err, "failed to marshal url variants")
	}
	findingIDs, err = json.Marshal(emptyIfNil(result.SourceFindingIDs))
	if err != nil {
		return nil, nil, nil, common.WrapError(err, "failed to marshal source finding ids")
	}
	providers, err = json.Marshal(emptyIfNil(result.SourceProviders))
	if err != nil {
		return nil, nil, nil, common.WrapError(err, "failed to marshal source providers")
	}
	return variants, findingIDs, providers, nil
}

func unmarshalSets(result *models.CanonicalResult, variants, findingIDs, providers []byte) error {
	if err := json.Unmarshal(variants, &result.URLVariants); err != nil {
		return common.WrapError(err, "failed to unmarshal url variants")
	}
	if err := json.Unmarshal(findingIDs, &result.SourceFindingIDs); err != nil {
		return common.WrapError(err, "failed to unmarshal source finding ids")
	}
	if err := json.Unmarshal(providers, &result.SourceProviders); err != nil {
		return common.WrapError(err, "failed to unmarshal source providers")
	}
	return nil
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func emptyIfNilVariants(variants []models.URLVariant) []models.URLVariant {
	if variants == nil {
		return []models.URLVariant{}
	}
	return variants
}

func nullableFloat(value *float64) sql.NullFloat64 {
	if value == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *value, Valid: true}
}
