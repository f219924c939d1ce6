package normalizer

import (
	"regexp"
	"strings"
	"unicode"
)

// Upstream enumeration tools prefix platform names with quality markers like
// "[+]", "[-]" or "[!]". Those are presentation noise and must never reach the
// canonical key.
var (
	noiseMarkerRegex = regexp.MustCompile(`^\s*(\[[+!\-?*]\]\s*)+`)
	tokenSplitRegex  = regexp.MustCompile(`[\s_\-]+`)
)

// NormalizePlatformName canonicalizes a raw platform name into its display
// form. Noise markers and a leading "@" are stripped, then the remainder is
// split on whitespace/underscore/hyphen runs, each token is title-cased
// (first rune upper, rest lower) and the tokens are concatenated with no
// separator. All casing and delimiter variants of the same name collapse to
// the same string: "GITHUB", "git-hub" and "git_hub" all become "Github".
// Empty input normalizes to "Unknown".
func NormalizePlatformName(raw string) string {
	cleaned := noiseMarkerRegex.ReplaceAllString(raw, "")
	cleaned = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(cleaned), "@"))
	if cleaned == "" {
		return "Unknown"
	}

	tokens := tokenSplitRegex.Split(cleaned, -1)
	var b strings.Builder
	for _, token := range tokens {
		if token == "" {
			continue
		}
		b.WriteString(titleCase(token))
	}
	if b.Len() == 0 {
		return "Unknown"
	}
	return b.String()
}

// titleCase uppercases the first rune of a token and lowercases the rest.
func titleCase(token string) string {
	runes := []rune(strings.ToLower(token))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// GenerateCanonicalKey derives the deterministic identity key for a
// (platform, username) pair. It is used as a storage key, so the same inputs
// must always produce the same output regardless of casing, delimiters or
// upstream noise markers.
func GenerateCanonicalKey(platform, username string) string {
	return strings.ToLower(NormalizePlatformName(platform)) + ":" + strings.ToLower(strings.TrimSpace(username))
}
