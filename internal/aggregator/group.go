package aggregator

import (
	"time"

	"github.com/aleister1102/canonicald/internal/classifier"
	"github.com/aleister1102/canonicald/internal/models"
	"github.com/aleister1102/canonicald/internal/normalizer"
)

// Group accumulates every contribution a batch makes to one canonical
// identity. Scalar fields stay unreduced here: reduction happens during
// reconciliation, after any previously persisted state has been folded in.
type Group struct {
	CanonicalKey          string
	Platform              string
	Username              string
	Variants              []models.URLVariant
	Severities            []string
	Confidences           []float64
	RiskScores            []float64
	FindingIDs            []string
	Providers             []string
	AISummaries           []string
	RemediationPriorities []string
	ObservedAt            string
	PreClassifiedPageType models.PageType
}

// GroupFindings groups a batch of findings by canonical key. Each finding is
// normalized, classified and turned into a URL variant; findings sharing an
// identity key accumulate into one group. Group order follows first
// appearance in the batch, so identical input yields identical output.
// The now argument stamps last_verified_at on variants that arrive verified.
func GroupFindings(findings []models.Finding, now time.Time) []*Group {
	groupsByKey := make(map[string]*Group)
	var ordered []*Group

	for _, finding := range findings {
		platform := normalizer.NormalizePlatformName(finding.Platform)
		username := finding.Username
		if username == "" {
			if extracted := classifier.ExtractUsernameFromURL(finding.URL, platform); extracted != "" {
				username = extracted
			} else {
				username = "unknown"
			}
		}
		key := normalizer.GenerateCanonicalKey(platform, username)

		group, exists := groupsByKey[key]
		if !exists {
			group = &Group{
				CanonicalKey: key,
				Platform:     platform,
				Username:     username,
				ObservedAt:   finding.ObservedAt,
			}
			groupsByKey[key] = group
			ordered = append(ordered, group)
		}

		group.accumulate(finding, now)
	}

	return ordered
}

func (g *Group) accumulate(finding models.Finding, now time.Time) {
	pageType := finding.PageType
	if pageType == "" {
		pageType = classifier.ClassifyPageType(finding.URL)
	}

	variant := models.URLVariant{
		URL:                finding.URL,
		PageType:           pageType,
		Provider:           finding.Provider,
		IsVerified:         finding.IsVerified,
		VerificationStatus: finding.VerificationStatus,
		SourceFindingID:    finding.FindingID,
		Priority:           models.PageTypePriority(pageType),
	}
	if finding.IsVerified {
		variant.LastVerifiedAt = now.UTC().Format(time.RFC3339)
	}

	g.Variants = MergeURLVariants(g.Variants, variant)
	for _, inbound := range finding.URLVariants {
		g.Variants = MergeURLVariants(g.Variants, sanitizeInboundVariant(inbound, finding.Provider))
	}

	if finding.Severity != "" {
		g.Severities = append(g.Severities, finding.Severity)
	}
	g.Confidences = append(g.Confidences, finding.Confidence)
	if finding.FindingID != "" {
		g.FindingIDs = append(g.FindingIDs, finding.FindingID)
	}
	if finding.Provider != "" {
		g.Providers = append(g.Providers, finding.Provider)
	}
	if finding.RiskScore != nil {
		g.RiskScores = append(g.RiskScores, *finding.RiskScore)
	}
	if finding.AISummary != "" {
		g.AISummaries = append(g.AISummaries, finding.AISummary)
	}
	if finding.RemediationPriority != "" {
		g.RemediationPriorities = append(g.RemediationPriorities, finding.RemediationPriority)
	}
	if g.ObservedAt == "" {
		g.ObservedAt = finding.ObservedAt
	}
	if g.PreClassifiedPageType == "" && finding.PageType != "" {
		g.PreClassifiedPageType = finding.PageType
	}
}

// sanitizeInboundVariant defaults the zero-valued fields of a variant that
// arrived inside the payload instead of being derived locally.
func sanitizeInboundVariant(v models.URLVariant, fallbackProvider string) models.URLVariant {
	if v.PageType == "" {
		v.PageType = models.PageTypeUnknown
	}
	if v.Provider == "" {
		v.Provider = fallbackProvider
	}
	if v.Priority <= 0 {
		v.Priority = models.PageTypePriority(v.PageType)
	}
	return v
}
