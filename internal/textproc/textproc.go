// Package textproc prepares raw post text for extraction: it joins the quoted
// post onto the main text, normalizes case, quotes and whitespace, and splits
// the result into candidate blocks.
package textproc

import (
	"fmt"
	"regexp"
	"strings"
)

// QuotedMarker separates the main text from the quoted post after Unify.
const QuotedMarker = "\n---QUOTED TWEET---\n"

var (
	splitSchemePattern = regexp.MustCompile(`(?i)(https?://)\s*\n\s*`)
	blankRunPattern    = regexp.MustCompile(`[ \t]+`)
	quoteReplacer      = strings.NewReplacer(
		"“", `"`, "”", `"`, "„", `"`, "‟", `"`,
		"‘", "'", "’", "'", "‚", "'", "‛", "'",
	)
)

// Unify appends the quoted post to the main text behind QuotedMarker.
func Unify(main, quoted string) string {
	if quoted == "" {
		return main
	}
	return main + QuotedMarker + quoted
}

// RepairSplitURLs rejoins a URL scheme that a line break separated from the
// rest of the address.
func RepairSplitURLs(text string) string {
	return splitSchemePattern.ReplaceAllString(text, "$1")
}

// Normalize lowercases text, repairs split URLs, straightens curly quotes,
// converts CRLF to LF, and collapses runs of spaces and tabs. Line breaks are
// kept because segmentation depends on them.
func Normalize(text string) string {
	normalized := strings.ToLower(text)
	normalized = RepairSplitURLs(normalized)
	normalized = quoteReplacer.Replace(normalized)
	normalized = strings.ReplaceAll(normalized, "\r\n", "\n")
	return blankRunPattern.ReplaceAllString(normalized, " ")
}

// Segmenter splits normalized text on an ordered list of delimiters.
type Segmenter struct {
	delimiters []*regexp.Regexp
}

// NewSegmenter compiles the delimiter expressions case-insensitively.
func NewSegmenter(delimiters []string) (*Segmenter, error) {
	s := &Segmenter{delimiters: make([]*regexp.Regexp, 0, len(delimiters))}
	for i, expr := range delimiters {
		re, err := regexp.Compile("(?i)" + expr)
		if err != nil {
			return nil, fmt.Errorf("block delimiter %d: %w", i, err)
		}
		s.delimiters = append(s.delimiters, re)
	}
	return s, nil
}

// Split returns the blocks produced by the first delimiter that yields more
// than one non-empty block, or the whole text as a single block.
func (s *Segmenter) Split(text string) []string {
	for _, delimiter := range s.delimiters {
		parts := delimiter.Split(text, -1)
		blocks := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				blocks = append(blocks, trimmed)
			}
		}
		if len(blocks) > 1 {
			return blocks
		}
	}
	return []string{text}
}
