package links

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// Associate claims the pool URLs that belong to block. When nothing matches
// directly, the first unclaimed URL is claimed as an order-based fallback.
func Associate(block string, pool []string, claims *ClaimSet) []string {
	if out := AssociateDirect(block, pool, claims); len(out) > 0 {
		return out
	}
	return ClaimFallback(pool, claims)
}

// AssociateDirect claims the unclaimed pool URLs that appear in block
// verbatim, or whose host or a path segment longer than three characters
// does.
func AssociateDirect(block string, pool []string, claims *ClaimSet) []string {
	out := make([]string, 0)
	lower := strings.ToLower(block)
	for _, u := range pool {
		if claims.Claimed(u) {
			continue
		}
		if strings.Contains(lower, strings.ToLower(u)) || fuzzyMatch(lower, u) {
			claims.Claim(u)
			out = append(out, u)
		}
	}
	return out
}

// ClaimFallback claims the first unclaimed URL in pool order.
func ClaimFallback(pool []string, claims *ClaimSet) []string {
	for _, u := range pool {
		if claims.Claim(u) {
			return []string{u}
		}
	}
	return make([]string, 0)
}

func fuzzyMatch(lowerText, rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return false
	}
	host := strings.Replace(strings.ToLower(parsed.Hostname()), "www.", "", 1)
	if host != "" && strings.Contains(lowerText, host) {
		return true
	}
	for _, part := range strings.Split(parsed.EscapedPath(), "/") {
		if utf8.RuneCountInString(part) > 3 && strings.Contains(lowerText, strings.ToLower(part)) {
			return true
		}
	}
	return false
}
