package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"

	"mediaparse/internal/fileutil"
	"mediaparse/internal/logging"
	"mediaparse/internal/services"
)

const (
	postsKey       = "tweets"
	parsedMediaKey = "parsed_media"
	statsKey       = "parser_stats"

	progressInterval = 10
)

type rawPost struct {
	fields map[string]json.RawMessage
	post   Post
}

// ParseFile reads the document at in, parses every post, and writes the
// result to out atomically. Nothing is written when validation fails.
func (p *Parser) ParseFile(ctx context.Context, in, out string) (Stats, error) {
	data, err := afero.ReadFile(p.fs, in)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Stats{}, services.Wrap(services.ErrValidation, stageName, "read input", fmt.Sprintf("input file %q not found", in), nil)
		}
		return Stats{}, services.Wrap(services.ErrValidation, stageName, "read input", in, err)
	}

	start := time.Now()
	output, stats, err := p.ParseDocument(ctx, data)
	if err != nil {
		return stats, err
	}
	if err := fileutil.WriteFileAtomic(p.fs, out, output, 0o644); err != nil {
		return stats, fmt.Errorf("write output %q: %w", out, err)
	}

	p.logger.Info("parse complete",
		logging.String("input", in),
		logging.String("output", out),
		logging.Int("tweets_processed", stats.TweetsProcessed),
		logging.Int("tweets_with_media", stats.TweetsWithMedia),
		logging.Int("media_items", stats.TotalMediaItems),
		logging.Int("interest_items", stats.MediaInterestItems),
		logging.Int("wikidata_enhanced", stats.WikidataEnhanced),
		logging.Duration("duration", time.Since(start)),
	)
	return stats, nil
}

// ParseDocument parses an in-memory document and returns the indented output
// with parsed_media added to every post and parser_stats at the top level.
func (p *Parser) ParseDocument(ctx context.Context, data []byte) ([]byte, Stats, error) {
	doc, posts, err := decodeDocument(data)
	if err != nil {
		return nil, Stats{}, err
	}
	logger := logging.WithContext(ctx, p.logger)
	logger.Info("parsing posts", logging.Int("total", len(posts)))

	var stats Stats
	encoded := make([]json.RawMessage, len(posts))
	for i, rp := range posts {
		if err := ctx.Err(); err != nil {
			p.checkpoint(ctx)
			return nil, stats, fmt.Errorf("parse interrupted after %d posts: %w", i, err)
		}

		postCtx := services.WithPostID(ctx, string(rp.post.ID))
		parsed := p.ParsePost(postCtx, rp.post)
		stats.add(parsed)

		media, err := encodeJSON(parsed, false)
		if err != nil {
			return nil, stats, fmt.Errorf("encode parsed media for post %d: %w", i, err)
		}
		rp.fields[parsedMediaKey] = media
		if encoded[i], err = encodeJSON(rp.fields, false); err != nil {
			return nil, stats, fmt.Errorf("encode post %d: %w", i, err)
		}

		processed := i + 1
		if processed%progressInterval == 0 {
			logger.Info("parse progress",
				logging.Int("processed", processed),
				logging.Int("total", len(posts)),
				logging.Int("media_items", stats.TotalMediaItems))
		}
		if p.saveEvery > 0 && processed%p.saveEvery == 0 {
			p.checkpoint(ctx)
		}
	}
	p.checkpoint(ctx)

	stats.ParsedAt = p.now().UTC().Format(time.RFC3339)
	if doc[postsKey], err = encodeJSON(encoded, false); err != nil {
		return nil, stats, fmt.Errorf("encode posts: %w", err)
	}
	if doc[statsKey], err = encodeJSON(stats, false); err != nil {
		return nil, stats, fmt.Errorf("encode stats: %w", err)
	}
	output, err := encodeJSON(doc, true)
	if err != nil {
		return nil, stats, fmt.Errorf("encode document: %w", err)
	}
	return append(output, '\n'), stats, nil
}

func (p *Parser) checkpoint(ctx context.Context) {
	if p.enricher != nil {
		p.enricher.Checkpoint(ctx)
	}
}

func decodeDocument(data []byte) (map[string]json.RawMessage, []rawPost, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, services.Wrap(services.ErrValidation, stageName, "decode input", "document must be a JSON object", err)
	}
	rawPosts, ok := doc[postsKey]
	if !ok {
		return nil, nil, services.Wrap(services.ErrValidation, stageName, "decode input", `missing "tweets" array`, nil)
	}
	if trimmed := bytes.TrimSpace(rawPosts); len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, nil, services.Wrap(services.ErrValidation, stageName, "decode input", `"tweets" must be an array`, nil)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(rawPosts, &items); err != nil {
		return nil, nil, services.Wrap(services.ErrValidation, stageName, "decode input", `"tweets" must be an array`, err)
	}

	posts := make([]rawPost, 0, len(items))
	for i, item := range items {
		var rp rawPost
		if err := json.Unmarshal(item, &rp.fields); err != nil || rp.fields == nil {
			return nil, nil, services.Wrap(services.ErrValidation, stageName, "decode input", fmt.Sprintf("tweet %d must be an object", i), err)
		}
		if err := json.Unmarshal(item, &rp.post); err != nil {
			return nil, nil, services.Wrap(services.ErrValidation, stageName, "decode input", fmt.Sprintf("tweet %d has malformed fields", i), err)
		}
		posts = append(posts, rp)
	}
	return doc, posts, nil
}

func encodeJSON(v any, indent bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
