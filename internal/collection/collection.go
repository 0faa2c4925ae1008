// Package collection recognizes blocks that bundle several titles, such as a
// franchise box set or a numbered list of films with years.
package collection

import (
	"regexp"
	"strings"

	"mediaparse/internal/textutil"
)

var (
	keywords = []string{"collection", "complete", "anthology", "series", "trilogy"}

	yearRangePattern = regexp.MustCompile(`\b(?:19|20)\d{2}\s*[-–]\s*\d{2,4}\b`)
	titleYearPattern = regexp.MustCompile(`(?i)^\s*([^(]+?)\s*\((\d{4}(?:\s*[-–]\s*\d{2,4})?)\)`)
	trailingParen    = regexp.MustCompile(`\s*\(.*`)
)

// Entry is one title listed inside a collection.
type Entry struct {
	Title string `json:"title"`
	Year  string `json:"year"`
}

// Result describes whether a block is a collection and what it contains.
// Items is non-empty whenever IsCollection is true.
type Result struct {
	IsCollection bool
	Franchise    string
	Items        []Entry
}

// Split inspects block line by line for "Title (year)" entries and decides
// whether the block is a collection.
func Split(block string) Result {
	lines := nonEmptyLines(block)
	if len(lines) == 0 {
		return Result{}
	}

	var items []Entry
	for _, line := range lines {
		m := titleYearPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		title := strings.TrimSpace(m[1])
		if title == "" {
			continue
		}
		items = append(items, Entry{Title: title, Year: firstYear(m[2])})
	}
	if len(items) == 0 {
		return Result{}
	}

	first := lines[0]
	if !isCollection(first, len(items)) {
		return Result{}
	}

	franchise := strings.TrimSpace(trailingParen.ReplaceAllString(first, ""))
	if franchise == "" {
		franchise = items[0].Title
	}
	for i := range items {
		items[i].Title = textutil.TitleCase(items[i].Title)
	}
	return Result{
		IsCollection: true,
		Franchise:    textutil.TitleCase(franchise),
		Items:        items,
	}
}

func isCollection(first string, itemCount int) bool {
	if itemCount > 1 {
		return true
	}
	lower := strings.ToLower(first)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return yearRangePattern.MatchString(first)
}

func firstYear(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 4 {
		return raw[:4]
	}
	return raw
}

func nonEmptyLines(block string) []string {
	raw := strings.Split(block, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
