package server

import (
	"testing"
	"time"

	"github.com/aleister1102/canonicald/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var coerceNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func TestCoerceFinding_ResolvesAliases(t *testing.T) {
	finding, reason := CoerceFinding(models.RawFinding{
		PlatformName:      "Github",
		CanonicalUsername: "alice",
		PrimaryURL:        "https://github.com/alice",
	}, coerceNow)

	require.Empty(t, reason)
	assert.Equal(t, "Github", finding.Platform)
	assert.Equal(t, "alice", finding.Username)
	assert.Equal(t, "https://github.com/alice", finding.URL)
}

func TestCoerceFinding_DocumentedFieldsWinOverAliases(t *testing.T) {
	finding, reason := CoerceFinding(models.RawFinding{
		Platform:     "Github",
		PlatformName: "ShouldLose",
		URL:          "https://github.com/alice",
		PrimaryURL:   "https://should.lose/alice",
	}, coerceNow)

	require.Empty(t, reason)
	assert.Equal(t, "Github", finding.Platform)
	assert.Equal(t, "https://github.com/alice", finding.URL)
}

func TestCoerceFinding_MissingFields(t *testing.T) {
	_, reason := CoerceFinding(models.RawFinding{Username: "alice"}, coerceNow)
	assert.Contains(t, reason, "platform")
	assert.Contains(t, reason, "url")

	_, reason = CoerceFinding(models.RawFinding{Platform: "Github"}, coerceNow)
	assert.Contains(t, reason, "url")
	assert.NotContains(t, reason, "platform,")

	_, reason = CoerceFinding(models.RawFinding{URL: "https://github.com/alice"}, coerceNow)
	assert.Contains(t, reason, "platform")
}

func TestCoerceFinding_UsernameFallsBackToURL(t *testing.T) {
	finding, reason := CoerceFinding(models.RawFinding{
		Platform: "Github",
		URL:      "https://github.com/alice",
	}, coerceNow)

	require.Empty(t, reason)
	assert.Equal(t, "alice", finding.Username)
}

func TestCoerceFinding_UnextractableUsernameBecomesUnknown(t *testing.T) {
	finding, reason := CoerceFinding(models.RawFinding{
		Platform: "Github",
		URL:      "https://github.com",
	}, coerceNow)

	require.Empty(t, reason)
	assert.Equal(t, "unknown", finding.Username)
}

func TestCoerceFinding_ProviderFallbackChain(t *testing.T) {
	base := models.RawFinding{Platform: "Github", URL: "https://github.com/alice"}

	withProvider := base
	withProvider.Provider = "sherlock"
	finding, _ := CoerceFinding(withProvider, coerceNow)
	assert.Equal(t, "sherlock", finding.Provider)

	withSources := base
	withSources.SourceProviders = []string{"maigret", "sherlock"}
	finding, _ = CoerceFinding(withSources, coerceNow)
	assert.Equal(t, "maigret", finding.Provider)

	withVariants := base
	withVariants.URLVariants = []models.URLVariant{{URL: "https://github.com/alice", Provider: "whatsmyname"}}
	finding, _ = CoerceFinding(withVariants, coerceNow)
	assert.Equal(t, "whatsmyname", finding.Provider)

	finding, _ = CoerceFinding(base, coerceNow)
	assert.Equal(t, "ai", finding.Provider)
}

func TestCoerceFinding_Defaults(t *testing.T) {
	finding, reason := CoerceFinding(models.RawFinding{
		Platform: "Github",
		URL:      "https://github.com/alice",
	}, coerceNow)

	require.Empty(t, reason)
	assert.Equal(t, "info", finding.Severity)
	assert.Equal(t, 0.5, finding.Confidence)
	assert.Equal(t, "2026-03-14T12:00:00Z", finding.ObservedAt)
}

func TestCoerceFinding_ExplicitZeroConfidenceSurvives(t *testing.T) {
	zero := 0.0
	finding, _ := CoerceFinding(models.RawFinding{
		Platform:   "Github",
		URL:        "https://github.com/alice",
		Confidence: &zero,
	}, coerceNow)

	assert.Equal(t, 0.0, finding.Confidence)
}

func TestCoerceFinding_PageTypePassThrough(t *testing.T) {
	finding, _ := CoerceFinding(models.RawFinding{
		Platform: "Github",
		URL:      "https://github.com/alice",
		PageType: "Directory",
	}, coerceNow)
	assert.Equal(t, models.PageTypeDirectory, finding.PageType)

	// Unrecognized values are dropped so classification happens locally.
	finding, _ = CoerceFinding(models.RawFinding{
		Platform: "Github",
		URL:      "https://github.com/alice",
		PageType: "homepage",
	}, coerceNow)
	assert.Empty(t, finding.PageType)
}
