package classifier

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/aleister1102/canonicald/internal/models"
)

// Query parameter names that mark a URL as a search-results page. Includes
// platform-specific names (search_query on YouTube, find on some trackers).
var searchQueryParams = map[string]bool{
	"q":            true,
	"query":        true,
	"search":       true,
	"s":            true,
	"keyword":      true,
	"keywords":     true,
	"term":         true,
	"search_query": true,
	"find":         true,
}

// Path segments that mark a URL as a search-results page.
var searchPathSegments = map[string]bool{
	"search":  true,
	"results": true,
	"find":    true,
	"lookup":  true,
}

// Gaming stat trackers with ambiguous URL shapes: their /search and
// /summoners/search pages would otherwise classify as profiles.
var gamingTrackerHosts = []string{"tracker.gg", "op.gg"}

var searchEngineHosts = []string{"google.", "bing.com", "duckduckgo.com", "yahoo."}

var versionedPathRegex = regexp.MustCompile(`/v\d+(/|$)`)

// ClassifyPageType inspects a URL and assigns its page-type category.
// Categories overlap, so the decision order matters: search beats api beats
// directory, and everything left is treated as a profile link. The permissive
// profile default for unrecognized shapes favors not under-counting
// legitimate profile links over the risk of over-trusting an unknown shape.
// Empty input classifies as unknown; malformed-but-non-empty input falls
// through to the profile default rather than erroring.
func ClassifyPageType(rawURL string) models.PageType {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return models.PageTypeUnknown
	}

	u, err := parseURL(trimmed)
	if err != nil || u.Host == "" {
		return models.PageTypeProfile
	}

	host := strings.ToLower(u.Hostname())
	path := strings.ToLower(u.Path)

	if isSearchPage(u, host, path) {
		return models.PageTypeSearch
	}
	if isAPIPage(path) {
		return models.PageTypeAPI
	}
	if isDirectoryPage(path) {
		return models.PageTypeDirectory
	}

	// Recognized profile shapes (/user/, /u/, /@handle, /in/handle, the
	// single-segment domain.com/username shape) and unrecognized shapes
	// alike land here.
	return models.PageTypeProfile
}

func isSearchPage(u *url.URL, host, path string) bool {
	// Gaming tracker carve-out wins regardless of other signals.
	for _, tracker := range gamingTrackerHosts {
		if hostMatches(host, tracker) && strings.Contains(path, "/search") {
			return true
		}
	}

	for key := range u.Query() {
		if searchQueryParams[strings.ToLower(key)] {
			return true
		}
	}

	for _, segment := range splitPathSegments(path) {
		if searchPathSegments[segment] {
			return true
		}
	}

	for _, engine := range searchEngineHosts {
		if strings.Contains(host, engine) && strings.HasPrefix(path, "/search") {
			return true
		}
	}

	return false
}

func isAPIPage(path string) bool {
	padded := path + "/"
	return strings.Contains(padded, "/api/") ||
		strings.HasSuffix(path, ".json") ||
		strings.Contains(padded, "/graphql/") ||
		versionedPathRegex.MatchString(path)
}

func isDirectoryPage(path string) bool {
	padded := path + "/"
	return strings.Contains(padded, "/directory/") ||
		strings.Contains(padded, "/members/") ||
		strings.Contains(padded, "/people/") ||
		strings.Contains(padded, "/users/list/") ||
		strings.Contains(padded, "/browse/")
}

// AdjustForSearchPageType demotes findings whose URL is a search-results
// page: a search hit is weak evidence and must never surface as
// high-confidence or high-severity. Confidence is capped at 0.3 and severity
// forced to info. All other page types pass through unchanged.
func AdjustForSearchPageType(pageType models.PageType, confidence float64, severity string) (float64, string) {
	if pageType != models.PageTypeSearch {
		return confidence, severity
	}
	if confidence > 0.3 {
		confidence = 0.3
	}
	return confidence, models.SeverityInfo
}

// parseURL parses a URL, defaulting the scheme to https when missing so that
// bare "domain.com/name" inputs still yield a host and path.
func parseURL(rawURL string) (*url.URL, error) {
	if !strings.Contains(rawURL, "://") && !strings.HasPrefix(rawURL, "//") {
		rawURL = "https://" + rawURL
	}
	return url.Parse(rawURL)
}

func hostMatches(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

func splitPathSegments(path string) []string {
	var segments []string
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}
