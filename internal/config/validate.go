package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePatterns(); err != nil {
		return err
	}
	if err := c.validateTypeKeywords(); err != nil {
		return err
	}
	if err := c.validateFinalize(); err != nil {
		return err
	}
	if err := c.validateWikidata(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePatterns() error {
	patterns := []struct {
		name string
		expr string
	}{
		{"regex_patterns.title_with_year", c.RegexPatterns.TitleWithYear},
		{"regex_patterns.quoted_title", c.RegexPatterns.QuotedTitle},
		{"regex_patterns.year", c.RegexPatterns.Year},
		{"regex_patterns.season_episode", c.RegexPatterns.SeasonEpisode},
		{"regex_patterns.url", c.RegexPatterns.URL},
		{"regex_patterns.resolution", c.RegexPatterns.Resolution},
	}
	for _, p := range patterns {
		re, err := CompilePattern(p.expr)
		if err != nil {
			return fmt.Errorf("%s: %w", p.name, err)
		}
		if p.name == "regex_patterns.title_with_year" && re.NumSubexp() < 2 {
			return errors.New("regex_patterns.title_with_year must capture a title and a year")
		}
		if (p.name == "regex_patterns.quoted_title" || p.name == "regex_patterns.year") && re.NumSubexp() < 1 {
			return fmt.Errorf("%s must contain a capture group", p.name)
		}
	}
	for i, expr := range c.BlockDelimiters {
		if _, err := CompilePattern(expr); err != nil {
			return fmt.Errorf("block_delimiters[%d]: %w", i, err)
		}
	}
	return nil
}

func (c *Config) validateTypeKeywords() error {
	for i, entry := range c.TypeKeywords {
		if entry.Type == "" {
			return fmt.Errorf("type_keywords[%d].type must be set", i)
		}
		if len(entry.Keywords) == 0 {
			return fmt.Errorf("type_keywords[%d] (%s) must list at least one keyword", i, entry.Type)
		}
	}
	return nil
}

func (c *Config) validateFinalize() error {
	switch c.Finalize.LeftoverPolicy {
	case LeftoverSinglePrimary, LeftoverDistribute:
		return nil
	default:
		return fmt.Errorf("finalize.leftover_policy must be %q or %q, got %q",
			LeftoverSinglePrimary, LeftoverDistribute, c.Finalize.LeftoverPolicy)
	}
}

func (c *Config) validateWikidata() error {
	w := c.Wikidata
	if w.MinConfidence < 0 || w.MinConfidence > 100 {
		return errors.New("wikidata.min_confidence must be between 0 and 100")
	}
	if w.RequestIntervalMS < 0 {
		return errors.New("wikidata.request_interval_ms must be zero or positive")
	}
	if w.TimeoutSeconds <= 0 {
		return errors.New("wikidata.timeout_seconds must be positive")
	}
	if w.MaxRetries < 0 {
		return errors.New("wikidata.max_retries must be zero or positive")
	}
	if w.SaveEvery < 0 {
		return errors.New("wikidata.save_every must be zero or positive")
	}
	if !w.Enabled {
		return nil
	}
	if strings.TrimSpace(w.CacheDir) == "" {
		return errors.New("wikidata.cache_dir must be set when wikidata.enabled is true")
	}
	parsed, err := url.Parse(w.Endpoint)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("wikidata.endpoint must be an absolute URL, got %q", w.Endpoint)
	}
	return nil
}
