package aggregator

import (
	"sort"

	"github.com/aleister1102/canonicald/internal/models"
)

// defaultVariantPriority is assumed when a variant carries no explicit
// priority. It sorts after every derived priority so explicit rankings
// always win.
const defaultVariantPriority = 99

// SelectPrimaryURL picks the most authoritative variant from a set.
// The tie-break chain is strict and deterministic: page-type priority
// ascending (profile beats directory beats api beats search beats unknown),
// then verified before unverified, then explicit priority ascending. Ties
// left after all three levels keep their input order. Returns nil for an
// empty set.
func SelectPrimaryURL(variants []models.URLVariant) *models.URLVariant {
	if len(variants) == 0 {
		return nil
	}

	sorted := make([]models.URLVariant, len(variants))
	copy(sorted, variants)

	sort.SliceStable(sorted, func(i, j int) bool {
		pi, pj := models.PageTypePriority(sorted[i].PageType), models.PageTypePriority(sorted[j].PageType)
		if pi != pj {
			return pi < pj
		}
		if sorted[i].IsVerified != sorted[j].IsVerified {
			return sorted[i].IsVerified
		}
		return effectivePriority(sorted[i]) < effectivePriority(sorted[j])
	})

	return &sorted[0]
}

func effectivePriority(v models.URLVariant) int {
	if v.Priority <= 0 {
		return defaultVariantPriority
	}
	return v.Priority
}

// MergeURLVariants merges one new variant into an existing set, matching by
// exact URL string equality. Unmatched variants are appended. On a match the
// existing entry's fields are replaced by the new variant's, except that an
// already-set page type is preserved: fresh data must not downgrade a
// previously classified page type.
func MergeURLVariants(existing []models.URLVariant, newVariant models.URLVariant) []models.URLVariant {
	for i, variant := range existing {
		if variant.URL != newVariant.URL {
			continue
		}
		merged := newVariant
		if variant.PageType != "" {
			merged.PageType = variant.PageType
		}
		existing[i] = merged
		return existing
	}
	return append(existing, newVariant)
}
