package parser

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/afero"

	"mediaparse/internal/collection"
	"mediaparse/internal/config"
	"mediaparse/internal/enrichment"
	"mediaparse/internal/extract"
	"mediaparse/internal/links"
	"mediaparse/internal/logging"
	"mediaparse/internal/services"
	"mediaparse/internal/textproc"
)

const stageName = "parse"

// Enricher resolves titles against a reference knowledge base.
type Enricher interface {
	SearchMedia(ctx context.Context, title, year string) (*enrichment.Match, error)
	Checkpoint(ctx context.Context)
}

// Parser turns posts into structured media items.
type Parser struct {
	extractor     *extract.Extractor
	segmenter     *textproc.Segmenter
	urlPattern    *regexp.Regexp
	titleWithYear *regexp.Regexp

	urlDomains     []string
	watchTriggers  []string
	leftoverPolicy string
	saveEvery      int

	enricher Enricher
	logger   *slog.Logger
	fs       afero.Fs
	now      func() time.Time
}

// Option configures a Parser.
type Option func(*Parser)

// WithEnricher enables lookups for titles carrying a year or type.
func WithEnricher(e Enricher) Option {
	return func(p *Parser) {
		p.enricher = e
	}
}

// WithFs replaces the filesystem used by ParseFile.
func WithFs(fs afero.Fs) Option {
	return func(p *Parser) {
		if fs != nil {
			p.fs = fs
		}
	}
}

// WithClock overrides the parsed_at timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		if now != nil {
			p.now = now
		}
	}
}

// New builds a Parser from a validated configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Parser, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, stageName, "init", "config is nil", nil)
	}
	extractor, err := extract.New(cfg)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, stageName, "init", "build extractor", err)
	}
	segmenter, err := textproc.NewSegmenter(cfg.BlockDelimiters)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, stageName, "init", "build segmenter", err)
	}
	urlPattern, err := config.CompilePattern(cfg.RegexPatterns.URL)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, stageName, "init", "compile url pattern", err)
	}
	titleWithYear, err := config.CompilePattern(cfg.RegexPatterns.TitleWithYear)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, stageName, "init", "compile title pattern", err)
	}

	p := &Parser{
		extractor:      extractor,
		segmenter:      segmenter,
		urlPattern:     urlPattern,
		titleWithYear:  titleWithYear,
		urlDomains:     cfg.URLDomains,
		watchTriggers:  cfg.WatchList.Triggers,
		leftoverPolicy: cfg.Finalize.LeftoverPolicy,
		saveEvery:      cfg.Wikidata.SaveEvery,
		logger:         logging.NewComponentLogger(logger, stageName),
		fs:             afero.NewOsFs(),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// ParsePost runs the full pipeline over one post. Enrichment failures are
// logged and leave the affected title un-enhanced.
func (p *Parser) ParsePost(ctx context.Context, post Post) ParsedMedia {
	logger := logging.WithContext(ctx, p.logger)

	unified := textproc.Unify(post.Text, post.QuotedText)
	pool := links.BuildPool(post.Links, post.QuotedLinks, unified, p.urlPattern)
	normalized := textproc.Normalize(unified)
	blocks := p.segmenter.Split(normalized)
	watch, watchBlocks := p.detectWatchList(normalized, blocks, len(pool) > 0)

	if len(pool) == 0 && len(watch) == 0 && !p.hasMediaIndicator(post, normalized) {
		logger.Debug("post skipped", logging.Args(logging.DecisionAttrs("skip", "skipped", SkipNoIndicators)...)...)
		parsed := emptyParsedMedia()
		parsed.SkippedReason = SkipNoIndicators
		return parsed
	}

	claims := links.NewClaimSet()
	var items []MediaItem
	for i, block := range blocks {
		if watchBlocks[i] {
			logger.Debug("block routed to watch list", logging.Args(logging.DecisionAttrs("watch_list", "interest", "trigger phrase")...)...)
			continue
		}
		if item, ok := p.processBlock(ctx, logger, block, pool, claims); ok {
			items = append(items, item)
		}
	}

	parsed := emptyParsedMedia()
	if len(pool) > 0 {
		for _, item := range items {
			if len(item.AssociatedURLs) > 0 || item.IsCollection {
				parsed.MediaItems = append(parsed.MediaItems, item)
				continue
			}
			logger.Debug("dropping item without links", logging.String("title", item.Title))
		}
		p.finalize(parsed.MediaItems, pool, claims)
	} else {
		parsed.MediaInterestItems = append(parsed.MediaInterestItems, items...)
	}

	parsed.MediaInterestItems = mergeWatchList(parsed.MediaInterestItems, parsed.MediaItems, watch)
	parsed.UnassociatedURLs = claims.Unclaimed(pool)
	return parsed
}

func (p *Parser) processBlock(ctx context.Context, logger *slog.Logger, block string, pool []string, claims *links.ClaimSet) (MediaItem, bool) {
	if split := collection.Split(block); split.IsCollection {
		return MediaItem{
			Title:          split.Franchise,
			Year:           stringPtr(split.Items[0].Year),
			Type:           stringPtr(typeCollection),
			Quality:        p.extractor.ExtractQuality(block),
			IsCollection:   true,
			ItemsIncluded:  split.Items,
			AssociatedURLs: claims.ClaimAll(pool),
		}, true
	}

	match := p.extractor.ExtractTitle(block)
	if match == nil {
		logger.Debug("no title in block", logging.Int("block_length", len(block)))
		return MediaItem{}, false
	}
	year := match.Year
	if year == "" {
		year = p.extractor.ExtractYear(block)
	}

	item := MediaItem{
		Title:             match.Title,
		Year:              stringPtr(year),
		Type:              stringPtr(p.extractor.ExtractType(block)),
		Quality:           p.extractor.ExtractQuality(block),
		SeasonEpisodeInfo: stringPtr(p.extractor.ExtractSeasonInfo(block)),
	}
	// Boilerplate keeps only URLs it names itself.
	if p.extractor.IsBoilerplate(item.Title) {
		item.AssociatedURLs = links.AssociateDirect(block, pool, claims)
		if len(item.AssociatedURLs) == 0 {
			logger.Debug("dropping boilerplate title", logging.String("title", item.Title))
			return MediaItem{}, false
		}
	} else {
		item.AssociatedURLs = links.Associate(block, pool, claims)
	}
	p.enrich(ctx, logger, &item)
	return item, true
}

func (p *Parser) enrich(ctx context.Context, logger *slog.Logger, item *MediaItem) {
	if p.enricher == nil || (item.Year == nil && item.Type == nil) {
		return
	}
	match, err := p.enricher.SearchMedia(ctx, item.Title, deref(item.Year))
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logging.WarnWithContext(logger, "wikidata lookup failed", "enrichment_failed",
			logging.String("title", item.Title),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check network access to wikidata.org or set wikidata.enabled = false"),
			logging.String(logging.FieldImpact, "title kept without wikidata metadata"),
		)
		return
	}
	if match == nil {
		return
	}

	if match.Title != "" {
		item.Title = match.Title
	}
	if item.Year == nil {
		item.Year = stringPtr(match.Year)
	}
	if item.Type == nil {
		item.Type = stringPtr(match.Type)
	}
	item.WikidataID = match.WikidataID
	item.IMDbID = match.IMDbID
	item.SteamID = match.SteamID
	confidence := match.Confidence
	item.WikidataConfidence = &confidence
	item.WikidataEnhanced = true
}

func (p *Parser) hasMediaIndicator(post Post, normalized string) bool {
	if p.extractor.HasQuality(normalized) || p.extractor.HasResolution(normalized) {
		return true
	}
	if p.hasKnownDomain(normalized) {
		return true
	}
	for _, group := range [][]string{post.Links, post.QuotedLinks} {
		for _, link := range group {
			if p.hasKnownDomain(strings.ToLower(link)) {
				return true
			}
		}
	}
	return p.extractor.HasYear(normalized)
}

func (p *Parser) hasKnownDomain(lower string) bool {
	for _, domain := range p.urlDomains {
		if domain != "" && strings.Contains(lower, domain) {
			return true
		}
	}
	return false
}
