package config

import (
	"fmt"
	"os"
	"strings"
)

// applyEnv layers environment fallbacks over the defaults. Values from a
// config file still win because the file is decoded afterwards.
func (c *Config) applyEnv() {
	if value, ok := os.LookupEnv("MEDIAPARSE_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	if value, ok := os.LookupEnv("MEDIAPARSE_CACHE_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Wikidata.CacheDir = value
	}
}

func (c *Config) normalize() error {
	c.normalizePatterns()
	c.normalizeVocabularies()
	c.normalizeFinalize()
	if err := c.normalizeWikidata(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizePatterns() {
	p := &c.RegexPatterns
	fill := func(value *string, fallback string) {
		if strings.TrimSpace(*value) == "" {
			*value = fallback
		}
	}
	fill(&p.TitleWithYear, defaultTitleWithYearPattern)
	fill(&p.QuotedTitle, defaultQuotedTitlePattern)
	fill(&p.Year, defaultYearPattern)
	fill(&p.SeasonEpisode, defaultSeasonEpisodePattern)
	fill(&p.URL, defaultURLPattern)
	fill(&p.Resolution, defaultResolutionPattern)
}

func (c *Config) normalizeVocabularies() {
	if len(c.QualityKeywords) == 0 {
		c.QualityKeywords = defaultQualityKeywords()
	}
	if len(c.TypeKeywords) == 0 {
		c.TypeKeywords = defaultTypeKeywords()
	}
	for i := range c.TypeKeywords {
		c.TypeKeywords[i].Type = strings.TrimSpace(c.TypeKeywords[i].Type)
		c.TypeKeywords[i].Keywords = lowerAll(c.TypeKeywords[i].Keywords)
	}
	if c.TitleStopwords == nil {
		c.TitleStopwords = defaultTitleStopwords()
	}
	c.TitleStopwords = lowerAll(c.TitleStopwords)
	if len(c.BlockDelimiters) == 0 {
		c.BlockDelimiters = defaultBlockDelimiters()
	}
	if c.URLDomains == nil {
		c.URLDomains = defaultURLDomains()
	}
	c.URLDomains = lowerAll(c.URLDomains)
	if c.BoilerplateOpeners == nil {
		c.BoilerplateOpeners = defaultBoilerplateOpeners()
	}
	c.BoilerplateOpeners = lowerAll(c.BoilerplateOpeners)
	if c.WatchList.Triggers == nil {
		c.WatchList.Triggers = defaultWatchTriggers()
	}
	c.WatchList.Triggers = lowerAll(c.WatchList.Triggers)
}

func (c *Config) normalizeFinalize() {
	c.Finalize.LeftoverPolicy = strings.ToLower(strings.TrimSpace(c.Finalize.LeftoverPolicy))
	if c.Finalize.LeftoverPolicy == "" {
		c.Finalize.LeftoverPolicy = defaultLeftoverPolicy
	}
}

func (c *Config) normalizeWikidata() error {
	w := &c.Wikidata
	if strings.TrimSpace(w.CacheDir) == "" {
		w.CacheDir = defaultCacheDir
	}
	var err error
	if w.CacheDir, err = expandPath(w.CacheDir); err != nil {
		return fmt.Errorf("wikidata.cache_dir: %w", err)
	}
	w.Endpoint = strings.TrimSpace(w.Endpoint)
	if w.Endpoint == "" {
		w.Endpoint = defaultWikidataEndpoint
	}
	w.UserAgent = strings.TrimSpace(w.UserAgent)
	if w.UserAgent == "" {
		w.UserAgent = defaultWikidataUserAgent
	}
	w.Language = strings.ToLower(strings.TrimSpace(w.Language))
	if w.Language == "" {
		w.Language = defaultWikidataLanguage
	}
	if w.TimeoutSeconds == 0 {
		w.TimeoutSeconds = defaultWikidataTimeoutSecond
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = defaultLogFormat
	case "json":
	default:
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.Dir) != "" {
		dir, err := expandPath(c.Logging.Dir)
		if err != nil {
			return fmt.Errorf("logging.dir: %w", err)
		}
		c.Logging.Dir = dir
	}
	return nil
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.ToLower(strings.TrimSpace(value))
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
