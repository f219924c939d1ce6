package reconciler

import (
	"context"
	"errors"
	"time"

	"github.com/aleister1102/canonicald/internal/aggregator"
	"github.com/aleister1102/canonicald/internal/classifier"
	"github.com/aleister1102/canonicald/internal/common"
	"github.com/aleister1102/canonicald/internal/datastore"
	"github.com/aleister1102/canonicald/internal/models"
	"github.com/aleister1102/canonicald/internal/normalizer"
	"github.com/rs/zerolog"
)

// Reconciler merges batch contributions against previously persisted
// canonical records and writes the results back. A group failing to
// reconcile never aborts its siblings: failures are counted and the batch
// continues group by group.
type Reconciler struct {
	store              datastore.CanonicalStore
	logger             zerolog.Logger
	processingPipeline string
}

// BatchSummary reports the outcome of reconciling one batch.
type BatchSummary struct {
	Groups   int
	Upserted int
	Errors   int
}

// NewReconciler creates a Reconciler writing through the given store.
func NewReconciler(store datastore.CanonicalStore, processingPipeline string, logger zerolog.Logger) *Reconciler {
	return &Reconciler{
		store:              store,
		logger:             logger.With().Str("module", "Reconciler").Logger(),
		processingPipeline: processingPipeline,
	}
}

// ProcessBatch groups a batch of findings by canonical key and reconciles
// each group against the store. Re-submitting the same batch is idempotent:
// variant merges match by URL equality and the finding-id/provider sets are
// deduplicated, so a replay converges on the same stored state.
func (r *Reconciler) ProcessBatch(ctx context.Context, scanID, workspaceID string, findings []models.Finding) BatchSummary {
	groups := aggregator.GroupFindings(findings, time.Now())
	r.logger.Info().
		Str("scan_id", scanID).
		Int("findings", len(findings)).
		Int("groups", len(groups)).
		Msg("Grouped batch into canonical identities")

	summary := BatchSummary{Groups: len(groups)}
	collector := &common.ErrorCollector{}

	for _, group := range groups {
		if err := r.reconcileGroup(ctx, scanID, workspaceID, group); err != nil {
			r.logger.Error().Err(err).Str("canonical_key", group.CanonicalKey).Msg("Failed to reconcile canonical group")
			collector.AddWithContext(err, group.CanonicalKey)
			continue
		}
		summary.Upserted++
	}

	summary.Errors = collector.Count()
	if collector.HasErrors() {
		r.logger.Warn().
			Str("scan_id", scanID).
			Int("errors", summary.Errors).
			Msg("Batch completed with group failures")
	}
	return summary
}

// reconcileGroup performs the read-merge-write for one canonical identity.
// Severity and confidence are aggregated over the triggering batch's
// contributions only and overwrite the stored values; variant lists and
// finding-id/provider sets union with history and only ever grow.
func (r *Reconciler) reconcileGroup(ctx context.Context, scanID, workspaceID string, group *aggregator.Group) error {
	severity := aggregator.AggregateSeverity(group.Severities)
	confidence := aggregator.AggregateConfidence(group.Confidences)

	mergedVariants := group.Variants
	findingIDs := uniqueStrings(group.FindingIDs)
	providers := uniqueStrings(group.Providers)

	existing, err := r.store.Get(ctx, scanID, group.CanonicalKey)
	if err != nil && !errors.Is(err, datastore.ErrNotFound) {
		return common.WrapError(err, "prior record lookup failed")
	}
	if existing != nil {
		mergedVariants = existing.URLVariants
		for _, variant := range group.Variants {
			mergedVariants = aggregator.MergeURLVariants(mergedVariants, variant)
		}
		findingIDs = uniqueStrings(append(append([]string{}, existing.SourceFindingIDs...), findingIDs...))
		providers = uniqueStrings(append(append([]string{}, existing.SourceProviders...), providers...))
	}

	primary := aggregator.SelectPrimaryURL(mergedVariants)

	pageType := group.PreClassifiedPageType
	if pageType == "" {
		if primary != nil {
			pageType = primary.PageType
		} else {
			pageType = models.PageTypeUnknown
		}
	}
	confidence, severity = classifier.AdjustForSearchPageType(pageType, confidence, severity)

	result := &models.CanonicalResult{
		ScanID:             scanID,
		WorkspaceID:        workspaceID,
		CanonicalKey:       group.CanonicalKey,
		PlatformName:       group.Platform,
		CanonicalUsername:  group.Username,
		PageType:           pageType,
		URLVariants:        mergedVariants,
		Severity:           severity,
		Confidence:         confidence,
		PlatformCategory:   normalizer.CategorizePlatform(group.Platform),
		SourceFindingIDs:   findingIDs,
		SourceProviders:    providers,
		ProcessingPipeline: r.processingPipeline,
		ObservedAt:         group.ObservedAt,
	}
	if existing != nil {
		result.ID = existing.ID
	}
	if primary != nil {
		result.PrimaryURL = primary.URL
		result.IsVerified = primary.IsVerified
		result.VerificationStatus = primary.VerificationStatus
	}
	if len(group.RiskScores) > 0 {
		score := maxFloat(group.RiskScores)
		result.RiskScore = &score
	}
	if len(group.AISummaries) > 0 {
		result.AISummary = group.AISummaries[0]
	}
	if len(group.RemediationPriorities) > 0 {
		result.RemediationPriority = group.RemediationPriorities[0]
	}

	if err := r.store.Upsert(ctx, result); err != nil {
		return common.WrapError(err, "upsert failed")
	}
	return nil
}

// uniqueStrings deduplicates while preserving first-seen order.
func uniqueStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	unique := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		unique = append(unique, value)
	}
	return unique
}

func maxFloat(values []float64) float64 {
	best := values[0]
	for _, value := range values[1:] {
		if value > best {
			best = value
		}
	}
	return best
}
