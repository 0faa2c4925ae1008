package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"mediaparse/internal/config"
	"mediaparse/internal/services"
)

var fixedClock = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }

const sampleDocument = `{
  "meta": {"source": "export", "count": 3},
  "tweets": [
    {
      "id": 1890011223344,
      "author": "archivist",
      "text": "Chungking Express (1994) 1080p BluRay\nhttps://mega.nz/folder/chungking",
      "links": ["https://mega.nz/folder/chungking"],
      "url": "https://x.com/archivist/status/1890011223344?s=20&t=abc"
    },
    {
      "id": "2",
      "author": "critic",
      "text": "now watching 'Paddington' (2014)"
    },
    {
      "id": "3",
      "text": "good morning everyone"
    }
  ]
}`

func decodeOutput(t *testing.T, data []byte) (map[string]json.RawMessage, []map[string]json.RawMessage) {
	t.Helper()
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	var posts []map[string]json.RawMessage
	if err := json.Unmarshal(doc["tweets"], &posts); err != nil {
		t.Fatalf("decode tweets: %v", err)
	}
	return doc, posts
}

func TestParseDocumentKeepsUnknownFieldsAndBuildsStats(t *testing.T) {
	p := newTestParser(t, nil, WithClock(fixedClock))
	output, stats, err := p.ParseDocument(context.Background(), []byte(sampleDocument))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	doc, posts := decodeOutput(t, output)
	if !bytes.Contains(doc["meta"], []byte(`"source":"export"`)) && !bytes.Contains(doc["meta"], []byte(`"source": "export"`)) {
		t.Fatalf("meta not preserved: %s", doc["meta"])
	}
	if len(posts) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(posts))
	}
	if string(posts[0]["id"]) != "1890011223344" || string(posts[0]["author"]) != `"archivist"` {
		t.Fatalf("post fields not preserved: id=%s author=%s", posts[0]["id"], posts[0]["author"])
	}
	if !strings.Contains(string(output), "?s=20&t=abc") {
		t.Fatal("expected URLs written without HTML escaping")
	}

	var first ParsedMedia
	if err := json.Unmarshal(posts[0]["parsed_media"], &first); err != nil {
		t.Fatalf("decode parsed_media: %v", err)
	}
	if len(first.MediaItems) != 1 || first.MediaItems[0].Title != "Chungking Express" {
		t.Fatalf("unexpected first post media: %+v", first)
	}
	if got := first.MediaItems[0].Quality; len(got) != 2 || got[0] != "1080p" || got[1] != "BluRay" {
		t.Fatalf("unexpected quality: %v", got)
	}

	var skipped ParsedMedia
	if err := json.Unmarshal(posts[2]["parsed_media"], &skipped); err != nil {
		t.Fatalf("decode skipped parsed_media: %v", err)
	}
	if skipped.SkippedReason != SkipNoIndicators {
		t.Fatalf("expected skipped post, got %+v", skipped)
	}

	want := Stats{
		TweetsProcessed:    3,
		TweetsWithMedia:    2,
		TotalMediaItems:    1,
		ParsedAt:           "2025-03-01T12:00:00Z",
		TweetsSkipped:      1,
		MediaInterestItems: 1,
	}
	if stats != want {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}
	var written Stats
	if err := json.Unmarshal(doc["parser_stats"], &written); err != nil {
		t.Fatalf("decode parser_stats: %v", err)
	}
	if written != want {
		t.Fatalf("parser_stats = %+v, want %+v", written, want)
	}
}

func TestParseDocumentIsIdempotent(t *testing.T) {
	p := newTestParser(t, nil, WithClock(fixedClock))
	first, _, err := p.ParseDocument(context.Background(), []byte(sampleDocument))
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	second, _, err := p.ParseDocument(context.Background(), first)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}

	_, firstPosts := decodeOutput(t, first)
	_, secondPosts := decodeOutput(t, second)
	for i := range firstPosts {
		if !bytes.Equal(firstPosts[i]["parsed_media"], secondPosts[i]["parsed_media"]) {
			t.Fatalf("post %d parsed_media differs:\n%s\n%s", i, firstPosts[i]["parsed_media"], secondPosts[i]["parsed_media"])
		}
	}
	if !bytes.Equal(first, second) {
		t.Fatal("expected identical documents on re-run")
	}
}

func TestParseDocumentRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `tweets`},
		{"not an object", `[1, 2]`},
		{"missing tweets", `{"posts": []}`},
		{"tweets is object", `{"tweets": {"id": 1}}`},
		{"tweets is null", `{"tweets": null}`},
		{"tweet is not an object", `{"tweets": ["hello"]}`},
		{"tweet is null", `{"tweets": [null]}`},
		{"text has wrong type", `{"tweets": [{"text": 42}]}`},
	}

	p := newTestParser(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := p.ParseDocument(context.Background(), []byte(tt.input))
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestParseDocumentHonoursCancellation(t *testing.T) {
	enricher := &fakeEnricher{}
	p := newTestParser(t, nil, WithEnricher(enricher))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := p.ParseDocument(ctx, []byte(sampleDocument))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if enricher.checkpoints != 1 {
		t.Fatalf("expected cache checkpoint on cancellation, got %d", enricher.checkpoints)
	}
}

func TestParseFileWritesOutputAndCheckpoints(t *testing.T) {
	fs := afero.NewMemMapFs()
	var posts []string
	for i := 0; i < 5; i++ {
		posts = append(posts, fmt.Sprintf(`{"id": "%d", "text": "Heat (1995) 4K https://mega.nz/folder/heat%d"}`, i, i))
	}
	input := `{"tweets": [` + strings.Join(posts, ",") + `]}`
	if err := afero.WriteFile(fs, "/in/posts.json", []byte(input), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	enricher := &fakeEnricher{}
	p := newTestParser(t, func(c *config.Config) { c.Wikidata.SaveEvery = 2 },
		WithFs(fs), WithClock(fixedClock), WithEnricher(enricher))

	stats, err := p.ParseFile(context.Background(), "/in/posts.json", "/out/parsed.json")
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if stats.TweetsProcessed != 5 || stats.TotalMediaItems != 5 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if enricher.checkpoints != 3 {
		t.Fatalf("expected 3 checkpoints, got %d", enricher.checkpoints)
	}
	if len(enricher.calls) != 5 {
		t.Fatalf("expected one lookup per post, got %v", enricher.calls)
	}

	data, err := afero.ReadFile(fs, "/out/parsed.json")
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	_, written := decodeOutput(t, data)
	if len(written) != 5 {
		t.Fatalf("expected 5 posts written, got %d", len(written))
	}
}

func TestParseFileMissingInput(t *testing.T) {
	fs := afero.NewMemMapFs()
	p := newTestParser(t, nil, WithFs(fs))

	_, err := p.ParseFile(context.Background(), "/missing.json", "/out.json")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if exists, _ := afero.Exists(fs, "/out.json"); exists {
		t.Fatal("output must not be written on failure")
	}
}
