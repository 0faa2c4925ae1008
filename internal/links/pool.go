// Package links gathers the URLs a post carries and hands each one to exactly
// one media item.
//
// A ClaimSet records which URLs have been handed out during one post's run.
// It is owned by that run and must not be shared across goroutines.
package links

import (
	"regexp"
	"strings"

	"mediaparse/internal/textproc"
)

const trailingPunct = ".,;:!?"

// BuildPool returns the post's combined link set: structural links first,
// then URLs found in the text, without duplicates and in first-seen order.
func BuildPool(links, quotedLinks []string, unifiedText string, urlPattern *regexp.Regexp) []string {
	pool := make([]string, 0, len(links)+len(quotedLinks))
	seen := make(map[string]struct{})
	add := func(u string) {
		if u == "" {
			return
		}
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		pool = append(pool, u)
	}

	for _, group := range [][]string{links, quotedLinks} {
		for _, link := range group {
			add(strings.TrimSpace(textproc.RepairSplitURLs(link)))
		}
	}

	if urlPattern == nil {
		return pool
	}
	for _, match := range urlPattern.FindAllString(textproc.RepairSplitURLs(unifiedText), -1) {
		add(trimURL(match))
	}
	return pool
}

// trimURL strips sentence punctuation and an unbalanced closing parenthesis
// from the end of a URL lifted out of prose.
func trimURL(u string) string {
	for {
		trimmed := strings.TrimRight(u, trailingPunct)
		if strings.HasSuffix(trimmed, ")") && strings.Count(trimmed, "(") < strings.Count(trimmed, ")") {
			trimmed = trimmed[:len(trimmed)-1]
		}
		if trimmed == u {
			return u
		}
		u = trimmed
	}
}
