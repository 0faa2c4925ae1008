package enrichment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/gofrs/flock"
	"github.com/spf13/afero"
	"golang.org/x/time/rate"

	"mediaparse/internal/config"
	"mediaparse/internal/logging"
	"mediaparse/internal/services"
	"mediaparse/internal/wikidata"
)

const stageName = "enrichment"

// Searcher is the subset of the Wikidata client the enricher needs.
type Searcher interface {
	SearchEntities(ctx context.Context, query string, limit int) ([]wikidata.SearchResult, error)
	GetEntities(ctx context.Context, ids []string) (map[string]wikidata.Entity, error)
}

// Enricher looks up titles on Wikidata with caching, throttling, and retries.
type Enricher struct {
	client        Searcher
	cache         *Cache
	limiter       *rate.Limiter
	logger        *slog.Logger
	cacheDir      string
	language      string
	minConfidence int
	maxRetries    int
	retryDelay    time.Duration
	fs            afero.Fs
	now           func() time.Time
	lock          *flock.Flock
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithFs replaces the filesystem the cache is read from and written to.
// File locking only applies to the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(e *Enricher) {
		if fs != nil {
			e.fs = fs
		}
	}
}

// WithClock overrides the cache clock.
func WithClock(now func() time.Time) Option {
	return func(e *Enricher) {
		if now != nil {
			e.now = now
		}
	}
}

// WithRetryDelay sets the initial backoff between retries.
func WithRetryDelay(d time.Duration) Option {
	return func(e *Enricher) {
		e.retryDelay = d
	}
}

// New constructs an Enricher from the wikidata section of cfg.
func New(cfg *config.Config, client Searcher, logger *slog.Logger, opts ...Option) (*Enricher, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, stageName, "init", "config is nil", nil)
	}
	if client == nil {
		return nil, services.Wrap(services.ErrConfiguration, stageName, "init", "wikidata client is nil", nil)
	}
	limit := rate.Inf
	if cfg.Wikidata.RequestIntervalMS > 0 {
		limit = rate.Every(time.Duration(cfg.Wikidata.RequestIntervalMS) * time.Millisecond)
	}

	e := &Enricher{
		client:        client,
		limiter:       rate.NewLimiter(limit, 1),
		logger:        logging.NewComponentLogger(logger, stageName),
		cacheDir:      cfg.Wikidata.CacheDir,
		language:      cfg.Wikidata.Language,
		minConfidence: cfg.Wikidata.MinConfidence,
		maxRetries:    cfg.Wikidata.MaxRetries,
		retryDelay:    time.Second,
		fs:            afero.NewOsFs(),
		now:           time.Now,
	}
	if e.language == "" {
		e.language = "en"
	}
	for _, opt := range opts {
		opt(e)
	}
	e.cache = NewCache(e.fs, filepath.Join(e.cacheDir, CacheFileName), logger)
	e.cache.now = e.now
	return e, nil
}

// NewFromConfig builds the Wikidata client and an Enricher around it.
func NewFromConfig(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Enricher, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, stageName, "init", "config is nil", nil)
	}
	client, err := wikidata.New(
		cfg.Wikidata.Endpoint,
		cfg.Wikidata.UserAgent,
		cfg.Wikidata.Language,
		wikidata.WithTimeout(time.Duration(cfg.Wikidata.TimeoutSeconds)*time.Second),
	)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, stageName, "init", "build wikidata client", err)
	}
	return New(cfg, client, logger, opts...)
}

// Cache exposes the underlying match cache.
func (e *Enricher) Cache() *Cache {
	return e.cache
}

// Init takes the cache lock and loads the cache. A corrupt cache file is
// logged and treated as empty. Only a held lock fails Init.
func (e *Enricher) Init(ctx context.Context) error {
	if _, onDisk := e.fs.(*afero.OsFs); onDisk {
		lock, err := AcquireLock(e.cacheDir)
		if err != nil {
			return services.Wrap(services.ErrConfiguration, stageName, "lock cache", "another run is using this cache directory", err)
		}
		e.lock = lock
	}

	loaded, err := e.cache.Load()
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, e.logger), "failed to load wikidata cache", "wikidata_cache_load_failed",
			logging.Error(err),
			logging.String("path", e.cache.Path()),
			logging.String(logging.FieldErrorHint, "delete the cache file or run 'mediaparse cache clear'"),
			logging.String(logging.FieldImpact, "previously resolved titles will be looked up again"))
		return nil
	}
	e.logger.Info("wikidata cache ready",
		logging.Int("entries", loaded),
		logging.String("path", e.cache.Path()))
	return nil
}

// Checkpoint persists the cache without releasing the lock. Failures are
// logged, not returned.
func (e *Enricher) Checkpoint(ctx context.Context) {
	if err := e.cache.Save(); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, e.logger), "failed to save wikidata cache", "wikidata_cache_save_failed",
			logging.Error(err),
			logging.String("path", e.cache.Path()),
			logging.String(logging.FieldErrorHint, "check permissions on the cache directory"),
			logging.String(logging.FieldImpact, "new matches will be looked up again next run"))
	}
}

// Shutdown saves the cache and releases the lock.
func (e *Enricher) Shutdown(ctx context.Context) {
	e.Checkpoint(ctx)
	if e.lock != nil {
		if err := e.lock.Unlock(); err != nil {
			e.logger.Warn("failed to release wikidata cache lock",
				logging.Error(err),
				logging.String(logging.FieldEventType, "wikidata_cache_unlock_failed"),
				logging.String(logging.FieldErrorHint, "remove the lock file if no run is active"),
				logging.String(logging.FieldImpact, "the next run may report the cache as locked"))
		}
		e.lock = nil
	}
}

// SearchMedia resolves title (and optional year) to the best-scoring media
// entity. It returns nil without error when nothing clears the confidence
// floor.
func (e *Enricher) SearchMedia(ctx context.Context, title, year string) (*Match, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil
	}
	logger := logging.WithContext(ctx, e.logger).With(logging.String("title", title), logging.String("year", year))

	key := CacheKey(title, year)
	if cached, ok := e.cache.Get(key); ok {
		if cached.Confidence < e.minConfidence {
			logger.Debug("cached match below confidence floor",
				logging.String("wikidata_id", cached.WikidataID),
				logging.Int("confidence", cached.Confidence),
				logging.Int("min_confidence", e.minConfidence))
			return nil, nil
		}
		logger.Debug("wikidata cache hit", logging.String("wikidata_id", cached.WikidataID))
		return &cached, nil
	}

	query := title
	if year != "" {
		query = title + " " + year
	}
	results, err := e.search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 && year != "" {
		logger.Debug("retrying wikidata search without year")
		if results, err = e.search(ctx, title); err != nil {
			return nil, err
		}
	}
	if len(results) == 0 {
		logger.Debug("no wikidata search results")
		return nil, nil
	}

	if len(results) > candidateCount {
		results = results[:candidateCount]
	}
	ids := make([]string, 0, len(results))
	for _, r := range results {
		if r.ID != "" {
			ids = append(ids, r.ID)
		}
	}
	entities, err := e.entities(ctx, ids)
	if err != nil {
		return nil, err
	}

	candidates := make([]Match, 0, len(ids))
	for _, id := range ids {
		entity, ok := entities[id]
		if !ok || !isMediaEntity(entity) {
			logger.Debug("skipping non-media candidate",
				logging.String("wikidata_id", id),
				logging.String("description", entity.Description(e.language)))
			continue
		}
		candidates = append(candidates, candidate(entity, e.language, title))
	}

	best := selectBest(candidates, title, year)
	if best == nil {
		logger.Debug("no media candidates", logging.Int("results", len(ids)))
		return nil, nil
	}
	if best.Confidence < e.minConfidence {
		logger.Debug("wikidata match below confidence floor",
			logging.String("candidate", best.Title),
			logging.Int("confidence", best.Confidence),
			logging.Int("min_confidence", e.minConfidence))
		return nil, nil
	}

	e.cache.Put(key, *best)
	logger.Debug("wikidata match accepted",
		logging.String("candidate", best.Title),
		logging.String("wikidata_id", best.WikidataID),
		logging.Int("confidence", best.Confidence))
	return best, nil
}

func (e *Enricher) search(ctx context.Context, query string) ([]wikidata.SearchResult, error) {
	var results []wikidata.SearchResult
	err := e.do(ctx, "search", func(ctx context.Context) error {
		var err error
		results, err = e.client.SearchEntities(ctx, query, searchLimit)
		return err
	})
	if err != nil {
		return nil, e.wrap("search", query, err)
	}
	return results, nil
}

func (e *Enricher) entities(ctx context.Context, ids []string) (map[string]wikidata.Entity, error) {
	var entities map[string]wikidata.Entity
	err := e.do(ctx, "get entities", func(ctx context.Context) error {
		var err error
		entities, err = e.client.GetEntities(ctx, ids)
		return err
	})
	if err != nil {
		return nil, e.wrap("get entities", strings.Join(ids, ","), err)
	}
	return entities, nil
}

// do runs fn behind the shared limiter, retrying transient failures with
// exponential backoff.
func (e *Enricher) do(ctx context.Context, operation string, fn func(context.Context) error) error {
	return retry.Do(
		func() error {
			if err := e.limiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(err)
			}
			return fn(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(uint(e.maxRetries)+1),
		retry.Delay(e.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(IsTransient),
		retry.OnRetry(func(n uint, err error) {
			e.logger.Debug("retrying wikidata request",
				logging.String("operation", operation),
				logging.Int("attempt", int(n)+1),
				logging.Error(err))
		}),
	)
}

func (e *Enricher) wrap(operation, subject string, err error) error {
	marker := services.ErrExternal
	if IsTransient(err) {
		marker = services.ErrTransient
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("wikidata %s %q: %w", operation, subject, err)
	}
	return services.Wrap(marker, stageName, operation, fmt.Sprintf("query %q", subject), err)
}
