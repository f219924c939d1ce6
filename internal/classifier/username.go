package classifier

import "strings"

// ExtractUsernameFromURL recovers a username from an observed URL when the
// upstream finding omitted one: the last non-empty path segment with any
// leading "@" stripped. Returns "" when the URL cannot be parsed or has no
// path segments. The platform parameter is accepted for platform-specific
// extraction rules; the baseline behavior is platform-agnostic.
func ExtractUsernameFromURL(rawURL, platform string) string {
	_ = platform

	u, err := parseURL(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}

	segments := splitPathSegments(u.Path)
	if len(segments) == 0 {
		return ""
	}

	return strings.TrimPrefix(segments[len(segments)-1], "@")
}
