package parser

import (
	"regexp"
	"strings"

	"mediaparse/internal/collection"
	"mediaparse/internal/textutil"
)

var watchQuotedPattern = regexp.MustCompile(`(?:^|[\s(\[,:;])(?:"([^"\n]{2,}?)"|'([^'\n]{2,}?)')(?:\s*\(((?:19|20)\d{2})\))?`)

const watchLeadingJunk = ",;:-–•*. "

// detectWatchList finds titles mentioned alongside a watch-list phrase.
// The scan starts at the first block carrying a trigger and stops at the
// next block that contains a URL; linked blocks are downloads. Quoted titles
// win on a line; otherwise "Title (YYYY)" matches are used. The second
// result marks the blocks whose titles were taken, so they skip download
// processing. In a post without URLs a watch-list collection stays with the
// collection splitter.
func (p *Parser) detectWatchList(normalized string, blocks []string, hasLinks bool) ([]MediaItem, map[int]bool) {
	if !containsAny(normalized, p.watchTriggers) {
		return nil, nil
	}

	var items []MediaItem
	seen := make(map[string]struct{})
	add := func(raw, year string) bool {
		title, ok := p.extractor.CleanTitle(strings.Trim(raw, watchLeadingJunk))
		if !ok {
			return false
		}
		key := strings.ToLower(title)
		if _, dup := seen[key]; dup {
			return true
		}
		seen[key] = struct{}{}
		items = append(items, MediaItem{
			Title:          textutil.TitleCase(title),
			Year:           stringPtr(year),
			Type:           stringPtr(typeInterest),
			Quality:        make([]string, 0),
			AssociatedURLs: make([]string, 0),
		})
		return true
	}

	consumed := make(map[int]bool)
	inScope := false
	for i, block := range blocks {
		if p.urlPattern.MatchString(block) {
			inScope = false
			continue
		}
		if containsAny(block, p.watchTriggers) {
			inScope = true
		}
		if !inScope {
			continue
		}
		found := false
		for _, line := range strings.Split(block, "\n") {
			if p.watchTitlesInLine(line, add) {
				found = true
			}
		}
		if found && (hasLinks || !collection.Split(block).IsCollection) {
			consumed[i] = true
		}
	}
	return items, consumed
}

func (p *Parser) watchTitlesInLine(line string, add func(raw, year string) bool) bool {
	found := false
	if quoted := watchQuotedPattern.FindAllStringSubmatch(line, -1); len(quoted) > 0 {
		for _, m := range quoted {
			title := m[1]
			if title == "" {
				title = m[2]
			}
			if add(title, m[3]) {
				found = true
			}
		}
		return found
	}
	for _, m := range p.titleWithYear.FindAllStringSubmatch(line, -1) {
		if len(m) < 3 {
			continue
		}
		if add(p.stripTrigger(m[1]), m[2]) {
			found = true
		}
	}
	return found
}

// stripTrigger drops everything up to the last trigger phrase, and any
// heading that follows it up to a colon.
func (p *Parser) stripTrigger(title string) string {
	cut := -1
	for _, trigger := range p.watchTriggers {
		if trigger == "" {
			continue
		}
		if idx := strings.LastIndex(title, trigger); idx >= 0 && idx+len(trigger) > cut {
			cut = idx + len(trigger)
		}
	}
	if cut < 0 {
		return title
	}
	title = title[cut:]
	if idx := strings.LastIndex(title, ":"); idx >= 0 {
		title = title[idx+1:]
	}
	return title
}

func containsAny(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if phrase != "" && strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
