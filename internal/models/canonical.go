package models

// PageType classifies the likely content shape of an observed URL. It drives
// the trust ranking used when selecting a primary URL for an identity.
type PageType string

const (
	PageTypeProfile   PageType = "profile"
	PageTypeDirectory PageType = "directory"
	PageTypeAPI       PageType = "api"
	PageTypeSearch    PageType = "search"
	PageTypeUnknown   PageType = "unknown"
)

// pageTypePriority maps page types to trust priority. Lower = more authoritative.
var pageTypePriority = map[PageType]int{
	PageTypeProfile:   1,
	PageTypeDirectory: 2,
	PageTypeAPI:       3,
	PageTypeSearch:    4,
	PageTypeUnknown:   5,
}

// PageTypePriority returns the trust priority for a page type. Unrecognized
// values rank alongside unknown.
func PageTypePriority(pt PageType) int {
	if p, ok := pageTypePriority[pt]; ok {
		return p
	}
	return pageTypePriority[PageTypeUnknown]
}

// URLVariant is one distinct URL observed for a canonical identity.
// Within a CanonicalResult, URL is unique across variants.
type URLVariant struct {
	URL                string   `json:"url"`
	PageType           PageType `json:"page_type"`
	Provider           string   `json:"provider"`
	IsVerified         bool     `json:"is_verified"`
	VerificationStatus string   `json:"verification_status,omitempty"`
	LastVerifiedAt     string   `json:"last_verified_at,omitempty"`
	SourceFindingID    string   `json:"source_finding_id,omitempty"`
	Priority           int      `json:"priority"`
}

// CanonicalResult is the deduplicated record for one real-world identity
// within one scan. Identity is the pair (ScanID, CanonicalKey).
type CanonicalResult struct {
	ID                  string       `json:"id,omitempty"`
	ScanID              string       `json:"scan_id"`
	WorkspaceID         string       `json:"workspace_id"`
	CanonicalKey        string       `json:"canonical_key"`
	PlatformName        string       `json:"platform_name"`
	CanonicalUsername   string       `json:"canonical_username"`
	PrimaryURL          string       `json:"primary_url,omitempty"`
	PageType            PageType     `json:"page_type"`
	URLVariants         []URLVariant `json:"url_variants"`
	Severity            string       `json:"severity"`
	Confidence          float64      `json:"confidence"`
	IsVerified          bool         `json:"is_verified"`
	VerificationStatus  string       `json:"verification_status,omitempty"`
	RiskScore           *float64     `json:"risk_score,omitempty"`
	AISummary           string       `json:"ai_summary,omitempty"`
	RemediationPriority string       `json:"remediation_priority,omitempty"`
	PlatformCategory    string       `json:"platform_category"`
	SourceFindingIDs    []string     `json:"source_finding_ids"`
	SourceProviders     []string     `json:"source_providers"`
	ProcessingPipeline  string       `json:"processing_pipeline,omitempty"`
	ObservedAt          string       `json:"observed_at,omitempty"`
}
