package datastore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/aleister1102/canonicald/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "canonical_test.db")
	store, err := NewSQLiteStore(dbPath, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleResult(scanID, key string) *models.CanonicalResult {
	risk := 42.5
	return &models.CanonicalResult{
		ScanID:            scanID,
		WorkspaceID:       "ws-1",
		CanonicalKey:      key,
		PlatformName:      "Github",
		CanonicalUsername: "alice",
		PrimaryURL:        "https://github.com/alice",
		PageType:          models.PageTypeProfile,
		URLVariants: []models.URLVariant{
			{URL: "https://github.com/alice", PageType: models.PageTypeProfile, Provider: "sherlock", Priority: 1},
		},
		Severity:         "medium",
		Confidence:       0.8,
		IsVerified:       true,
		RiskScore:        &risk,
		PlatformCategory: "code",
		SourceFindingIDs: []string{"f1"},
		SourceProviders:  []string{"sherlock"},
		ObservedAt:       "2026-01-02T03:04:05Z",
	}
}

func TestSQLiteStore_GetMissingReturnsErrNotFound(t *testing.T) {
	store := newTestSQLiteStore(t)

	result, err := store.Get(context.Background(), "scan-1", "github:alice")
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSQLiteStore_UpsertInsertsAndReadsBack(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	original := sampleResult("scan-1", "github:alice")
	require.NoError(t, store.Upsert(ctx, original))

	stored, err := store.Get(ctx, "scan-1", "github:alice")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)
	assert.Equal(t, "Github", stored.PlatformName)
	assert.Equal(t, "alice", stored.CanonicalUsername)
	assert.Equal(t, models.PageTypeProfile, stored.PageType)
	assert.Equal(t, 0.8, stored.Confidence)
	assert.True(t, stored.IsVerified)
	require.NotNil(t, stored.RiskScore)
	assert.Equal(t, 42.5, *stored.RiskScore)
	assert.Equal(t, []string{"f1"}, stored.SourceFindingIDs)
	assert.Equal(t, []string{"sherlock"}, stored.SourceProviders)
	require.Len(t, stored.URLVariants, 1)
	assert.Equal(t, "https://github.com/alice", stored.URLVariants[0].URL)
}

func TestSQLiteStore_UpsertUpdatesExistingRowKeepingID(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, sampleResult("scan-1", "github:alice")))
	first, err := store.Get(ctx, "scan-1", "github:alice")
	require.NoError(t, err)

	updated := sampleResult("scan-1", "github:alice")
	updated.ID = first.ID
	updated.Severity = "high"
	updated.SourceFindingIDs = []string{"f1", "f2"}
	require.NoError(t, store.Upsert(ctx, updated))

	second, err := store.Get(ctx, "scan-1", "github:alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "high", second.Severity)
	assert.Equal(t, []string{"f1", "f2"}, second.SourceFindingIDs)

	// Still exactly one row for the identity.
	results, err := store.ListByScan(ctx, "scan-1")
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSQLiteStore_SameKeyDifferentScansStaySeparate(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, sampleResult("scan-1", "github:alice")))
	require.NoError(t, store.Upsert(ctx, sampleResult("scan-2", "github:alice")))

	one, err := store.ListByScan(ctx, "scan-1")
	require.NoError(t, err)
	two, err := store.ListByScan(ctx, "scan-2")
	require.NoError(t, err)
	assert.Len(t, one, 1)
	assert.Len(t, two, 1)
	assert.NotEqual(t, one[0].ID, two[0].ID)
}

func TestSQLiteStore_ListByScanOrdersByCanonicalKey(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, sampleResult("scan-1", "twitter:bob")))
	require.NoError(t, store.Upsert(ctx, sampleResult("scan-1", "github:alice")))

	results, err := store.ListByScan(ctx, "scan-1")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "github:alice", results[0].CanonicalKey)
	assert.Equal(t, "twitter:bob", results[1].CanonicalKey)
}

func TestSQLiteStore_ListByScanEmptyScan(t *testing.T) {
	store := newTestSQLiteStore(t)

	results, err := store.ListByScan(context.Background(), "no-such-scan")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSQLiteStore_NilSetsRoundTripAsEmpty(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	result := sampleResult("scan-1", "github:alice")
	result.URLVariants = nil
	result.SourceFindingIDs = nil
	result.SourceProviders = nil
	result.RiskScore = nil
	require.NoError(t, store.Upsert(ctx, result))

	stored, err := store.Get(ctx, "scan-1", "github:alice")
	require.NoError(t, err)
	assert.Empty(t, stored.URLVariants)
	assert.Empty(t, stored.SourceFindingIDs)
	assert.Empty(t, stored.SourceProviders)
	assert.Nil(t, stored.RiskScore)
}
