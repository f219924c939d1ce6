package server

import (
	"strings"
	"time"

	"github.com/aleister1102/canonicald/internal/classifier"
	"github.com/aleister1102/canonicald/internal/models"
	"github.com/aleister1102/canonicald/internal/normalizer"
)

const (
	fallbackProvider  = "ai"
	defaultSeverity   = "info"
	defaultConfidence = 0.5
)

// CoerceFinding resolves the wire aliases of a raw finding into a Finding
// ready for grouping. It returns a non-empty reason string when the item
// lacks the fields ingestion cannot proceed without.
func CoerceFinding(raw models.RawFinding, now time.Time) (*models.Finding, string) {
	platform := firstNonEmpty(raw.Platform, raw.PlatformName)
	url := firstNonEmpty(raw.URL, raw.PrimaryURL)

	var missing []string
	if strings.TrimSpace(platform) == "" {
		missing = append(missing, "platform")
	}
	if strings.TrimSpace(url) == "" {
		missing = append(missing, "url")
	}
	if len(missing) > 0 {
		return nil, "missing required fields: " + strings.Join(missing, ", ")
	}

	username := firstNonEmpty(raw.Username, raw.CanonicalUsername)
	if username == "" {
		username = classifier.ExtractUsernameFromURL(url, normalizer.NormalizePlatformName(platform))
	}
	if username == "" {
		username = "unknown"
	}

	finding := &models.Finding{
		Platform:            platform,
		Username:            username,
		URL:                 url,
		Provider:            resolveProvider(raw),
		Severity:            raw.Severity,
		Confidence:          defaultConfidence,
		IsVerified:          raw.IsVerified,
		VerificationStatus:  raw.VerificationStatus,
		FindingID:           raw.FindingID,
		RiskScore:           raw.RiskScore,
		AISummary:           raw.AISummary,
		RemediationPriority: raw.RemediationPriority,
		ObservedAt:          raw.ObservedAt,
		PageType:            parsePageType(raw.PageType),
		URLVariants:         raw.URLVariants,
	}
	if raw.Confidence != nil {
		finding.Confidence = *raw.Confidence
	}
	if finding.Severity == "" {
		finding.Severity = defaultSeverity
	}
	if finding.ObservedAt == "" {
		finding.ObservedAt = now.UTC().Format(time.RFC3339)
	}
	return finding, ""
}

// resolveProvider walks the provider fallback chain: the explicit field, then
// the first aggregated provider, then the first inbound variant's provider,
// then the pipeline default.
func resolveProvider(raw models.RawFinding) string {
	if raw.Provider != "" {
		return raw.Provider
	}
	if len(raw.SourceProviders) > 0 && raw.SourceProviders[0] != "" {
		return raw.SourceProviders[0]
	}
	if len(raw.URLVariants) > 0 && raw.URLVariants[0].Provider != "" {
		return raw.URLVariants[0].Provider
	}
	return fallbackProvider
}

// parsePageType accepts only the known page type values. Anything else is
// treated as unclassified so the URL classifier decides instead.
func parsePageType(value string) models.PageType {
	switch pt := models.PageType(strings.ToLower(strings.TrimSpace(value))); pt {
	case models.PageTypeProfile, models.PageTypeDirectory, models.PageTypeAPI, models.PageTypeSearch, models.PageTypeUnknown:
		return pt
	default:
		return ""
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
