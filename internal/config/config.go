package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// RegexPatterns holds the extraction expressions. Every pattern is compiled
// case-insensitively with RE2 syntax.
type RegexPatterns struct {
	TitleWithYear string `toml:"title_with_year"`
	QuotedTitle   string `toml:"quoted_title"`
	Year          string `toml:"year"`
	SeasonEpisode string `toml:"season_episode"`
	URL           string `toml:"url"`
	Resolution    string `toml:"resolution"`
}

// TypeKeywords maps a media type to the keywords that imply it. Entries are
// evaluated in file order and the first hit wins.
type TypeKeywords struct {
	Type     string   `toml:"type"`
	Keywords []string `toml:"keywords"`
}

// WatchList contains the phrases that mark a post as a list of titles the
// author wants to watch rather than a download post.
type WatchList struct {
	Triggers []string `toml:"triggers"`
}

// Finalize controls how URLs left over after block association are handed out.
type Finalize struct {
	LeftoverPolicy string `toml:"leftover_policy"`
}

// Wikidata contains configuration for reference enrichment.
type Wikidata struct {
	Enabled           bool   `toml:"enabled"`
	CacheDir          string `toml:"cache_dir"`
	MinConfidence     int    `toml:"min_confidence"`
	Endpoint          string `toml:"endpoint"`
	UserAgent         string `toml:"user_agent"`
	Language          string `toml:"language"`
	RequestIntervalMS int    `toml:"request_interval_ms"`
	TimeoutSeconds    int    `toml:"timeout_seconds"`
	MaxRetries        int    `toml:"max_retries"`
	SaveEvery         int    `toml:"save_every"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Config encapsulates all configuration values for mediaparse.
//
// Configuration sections by subsystem:
//   - RegexPatterns: title, year, season, URL and resolution expressions
//   - QualityKeywords, TypeKeywords, TitleStopwords: field extraction vocabularies
//   - BlockDelimiters: ordered segmentation expressions
//   - URLDomains: hosts that mark a post as carrying media
//   - BoilerplateOpeners: title prefixes dropped when no link backs them
//   - WatchList: watch-list trigger phrases
//   - Finalize: leftover URL distribution policy
//   - Wikidata: enrichment client, cache and throttle
//   - Logging: log format, level, and optional file directory
type Config struct {
	RegexPatterns      RegexPatterns  `toml:"regex_patterns"`
	QualityKeywords    []string       `toml:"quality_keywords"`
	TypeKeywords       []TypeKeywords `toml:"type_keywords"`
	TitleStopwords     []string       `toml:"title_stopwords"`
	BlockDelimiters    []string       `toml:"block_delimiters"`
	URLDomains         []string       `toml:"url_domains"`
	BoilerplateOpeners []string       `toml:"boilerplate_openers"`
	WatchList          WatchList      `toml:"watch_list"`
	Finalize           Finalize       `toml:"finalize"`
	Wikidata           Wikidata       `toml:"wikidata"`
	Logging            Logging        `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()
	cfg.applyEnv()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		// Array tables append to a populated slice; the file's list replaces
		// the defaults instead.
		cfg.TypeKeywords = nil

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("mediaparse.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// CompilePattern compiles a configured expression case-insensitively.
func CompilePattern(expr string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + expr)
}

// CachePath returns the enrichment cache file location.
func (c *Config) CachePath() string {
	return filepath.Join(c.Wikidata.CacheDir, cacheFileName)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
