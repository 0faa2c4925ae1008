package extract

import (
	"fmt"
	"regexp"
	"strings"

	"mediaparse/internal/config"
)

// TitleMatch is the result of title extraction. Year is empty when the
// strategy that produced the title did not capture one.
type TitleMatch struct {
	Title string
	Year  string
}

// Extractor holds the compiled patterns and vocabularies used for field
// extraction.
type Extractor struct {
	titleWithYear *regexp.Regexp
	quotedTitle   *regexp.Regexp
	year          *regexp.Regexp
	seasonEpisode *regexp.Regexp
	resolution    *regexp.Regexp

	qualityKeywords []string
	typeKeywords    []config.TypeKeywords
	stopwords       map[string]struct{}
	boilerplate     []string
	qualityTokens   map[string]struct{}
}

// New compiles the configured patterns.
func New(cfg *config.Config) (*Extractor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("extractor config is nil")
	}
	e := &Extractor{
		qualityKeywords: cfg.QualityKeywords,
		typeKeywords:    cfg.TypeKeywords,
		stopwords:       make(map[string]struct{}, len(cfg.TitleStopwords)),
		boilerplate:     cfg.BoilerplateOpeners,
		qualityTokens:   make(map[string]struct{}, len(baseQualityTokens)+len(cfg.QualityKeywords)),
	}

	patterns := []struct {
		name string
		expr string
		dst  **regexp.Regexp
	}{
		{"title_with_year", cfg.RegexPatterns.TitleWithYear, &e.titleWithYear},
		{"quoted_title", cfg.RegexPatterns.QuotedTitle, &e.quotedTitle},
		{"year", cfg.RegexPatterns.Year, &e.year},
		{"season_episode", cfg.RegexPatterns.SeasonEpisode, &e.seasonEpisode},
		{"resolution", cfg.RegexPatterns.Resolution, &e.resolution},
	}
	for _, p := range patterns {
		re, err := config.CompilePattern(p.expr)
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", p.name, err)
		}
		*p.dst = re
	}

	for _, word := range cfg.TitleStopwords {
		e.stopwords[strings.ToLower(strings.TrimSpace(word))] = struct{}{}
	}
	for _, token := range baseQualityTokens {
		e.qualityTokens[token] = struct{}{}
	}
	for _, kw := range cfg.QualityKeywords {
		for _, token := range strings.Fields(strings.ToLower(kw)) {
			e.qualityTokens[token] = struct{}{}
		}
	}
	return e, nil
}

// ExtractYear returns the first captured year in block, or "".
func (e *Extractor) ExtractYear(block string) string {
	m := e.year.FindStringSubmatch(block)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// HasYear reports whether block mentions a bare year.
func (e *Extractor) HasYear(block string) bool {
	return e.year.MatchString(block)
}

// HasResolution reports whether block mentions a video resolution.
func (e *Extractor) HasResolution(block string) bool {
	return e.resolution.MatchString(block)
}

// ExtractQuality returns the configured quality keywords present in block,
// in configured order and casing, without duplicates.
func (e *Extractor) ExtractQuality(block string) []string {
	lower := strings.ToLower(block)
	seen := make(map[string]struct{}, len(e.qualityKeywords))
	out := make([]string, 0)
	for _, kw := range e.qualityKeywords {
		kwLower := strings.ToLower(kw)
		if kwLower == "" {
			continue
		}
		if _, dup := seen[kwLower]; dup {
			continue
		}
		if strings.Contains(lower, kwLower) {
			out = append(out, kw)
			seen[kwLower] = struct{}{}
		}
	}
	return out
}

// HasQuality reports whether any quality keyword appears in block.
func (e *Extractor) HasQuality(block string) bool {
	return len(e.ExtractQuality(block)) > 0
}

// ExtractType returns the first configured type whose keywords appear in
// block, with underscores and hyphens rendered as spaces.
func (e *Extractor) ExtractType(block string) string {
	lower := strings.ToLower(block)
	for _, entry := range e.typeKeywords {
		for _, kw := range entry.Keywords {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				return typeName(entry.Type)
			}
		}
	}
	return ""
}

// ExtractSeasonInfo returns the full text of the first season/episode match.
func (e *Extractor) ExtractSeasonInfo(block string) string {
	return e.seasonEpisode.FindString(block)
}

// IsBoilerplate reports whether title opens with a configured boilerplate phrase.
func (e *Extractor) IsBoilerplate(title string) bool {
	lower := strings.ToLower(strings.TrimSpace(title))
	for _, opener := range e.boilerplate {
		if opener != "" && strings.HasPrefix(lower, opener) {
			return true
		}
	}
	return false
}

func typeName(raw string) string {
	return strings.NewReplacer("_", " ", "-", " ").Replace(strings.TrimSpace(raw))
}
