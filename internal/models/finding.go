package models

// RawFinding is the wire shape of one finding item in an ingestion batch.
// Upstream callbacks are loosely typed and use two field vocabularies
// (documented vs. pipeline-internal), so every field is optional here and
// aliases are resolved during coercion.
type RawFinding struct {
	Platform     string `json:"platform,omitempty"`
	PlatformName string `json:"platform_name,omitempty"`

	Username          string `json:"username,omitempty"`
	CanonicalUsername string `json:"canonical_username,omitempty"`

	URL        string `json:"url,omitempty"`
	PrimaryURL string `json:"primary_url,omitempty"`

	Provider        string   `json:"provider,omitempty"`
	SourceProviders []string `json:"source_providers,omitempty"`

	Severity            string   `json:"severity,omitempty"`
	Confidence          *float64 `json:"confidence,omitempty"`
	IsVerified          bool     `json:"is_verified,omitempty"`
	VerificationStatus  string   `json:"verification_status,omitempty"`
	FindingID           string   `json:"finding_id,omitempty"`
	RiskScore           *float64 `json:"risk_score,omitempty"`
	AISummary           string   `json:"ai_summary,omitempty"`
	RemediationPriority string   `json:"remediation_priority,omitempty"`
	ObservedAt          string   `json:"observed_at,omitempty"`

	// PageType is honored when the upstream pipeline already classified the URL.
	PageType    string       `json:"page_type,omitempty"`
	URLVariants []URLVariant `json:"url_variants,omitempty"`
}

// Finding is a validated, alias-resolved finding ready for grouping.
type Finding struct {
	Platform            string
	Username            string
	URL                 string
	Provider            string
	Severity            string
	Confidence          float64
	IsVerified          bool
	VerificationStatus  string
	FindingID           string
	RiskScore           *float64
	AISummary           string
	RemediationPriority string
	ObservedAt          string
	PageType            PageType // empty unless pre-classified upstream
	URLVariants         []URLVariant
}
