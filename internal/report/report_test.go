package report

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/afero"

	"mediaparse/internal/services"
)

const parsedDocument = `{
  "parser_stats": {"tweets_processed": 3, "tweets_with_media": 2, "total_media_items": 2, "wikidata_enhanced": 1, "parsed_at": "2025-03-01T12:00:00Z", "tweets_skipped": 1, "media_interest_items": 1, "unassociated_urls": 1},
  "tweets": [
    {
      "id": "1",
      "author": "archivist",
      "url": "https://x.com/archivist/status/1",
      "parsed_media": {
        "media_items": [
          {"title": "Alien", "year": "1979", "type": "film", "quality": ["4K", "Remux"], "season_episode_info": null,
           "associated_urls": ["https://mega.nz/folder/alien"], "wikidata_enhanced": true, "wikidata_id": "Q103569", "imdb_id": "tt0078748", "wikidata_confidence": 105},
          {"title": "Kubrick Collection", "year": "1964", "type": "collection", "quality": [], "season_episode_info": null, "isCollection": true,
           "items_included": [{"title": "Dr. Strangelove", "year": "1964"}, {"title": "Paris, Texas", "year": "1984"}],
           "associated_urls": ["https://www.mega.nz/folder/kubrick", "https://drive.google.com/file/d/x"], "wikidata_enhanced": false}
        ],
        "media_interest_items": [],
        "unassociated_urls": ["https://gofile.io/d/extra"]
      }
    },
    {
      "id": 2,
      "parsed_media": {
        "media_items": [],
        "media_interest_items": [
          {"title": "Paddington", "year": "2014", "type": "media-interest", "quality": [], "season_episode_info": null, "associated_urls": [], "wikidata_enhanced": false},
          {"title": "Heat", "year": null, "type": null, "quality": [], "season_episode_info": null, "associated_urls": [], "wikidata_enhanced": false}
        ],
        "unassociated_urls": []
      }
    },
    {"id": "3", "parsed_media": {"media_items": [], "media_interest_items": [], "unassociated_urls": [], "skipped_reason": "no_media_indicators"}}
  ]
}`

func loadFixture(t *testing.T) *Document {
	t.Helper()
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/parsed.json", []byte(parsedDocument), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	doc, err := Load(fs, "/parsed.json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return doc
}

func TestSummarize(t *testing.T) {
	summary := Summarize(loadFixture(t))

	wantTypes := []Count{
		{Name: "collection", Count: 1},
		{Name: "film", Count: 1},
		{Name: "media-interest", Count: 1},
		{Name: "unknown", Count: 1},
	}
	if !reflect.DeepEqual(summary.Types, wantTypes) {
		t.Fatalf("types = %+v, want %+v", summary.Types, wantTypes)
	}
	wantDomains := []Count{
		{Name: "mega.nz", Count: 2},
		{Name: "drive.google.com", Count: 1},
		{Name: "gofile.io", Count: 1},
	}
	if !reflect.DeepEqual(summary.Domains, wantDomains) {
		t.Fatalf("domains = %+v, want %+v", summary.Domains, wantDomains)
	}
	if summary.Stats.TweetsProcessed != 3 || summary.Stats.WikidataEnhanced != 1 {
		t.Fatalf("unexpected stats: %+v", summary.Stats)
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, Summarize(loadFixture(t)), table.StyleLight); err != nil {
		t.Fatalf("RenderSummary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Overview", "Items by type", "URLs by domain", "mega.nz", "media-interest", "2025-03-01T12:00:00Z"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	doc := loadFixture(t)

	var downloads bytes.Buffer
	if err := WriteCSV(&downloads, doc, false); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(downloads.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d:\n%s", len(lines), downloads.String())
	}
	if !strings.HasPrefix(strings.ToLower(lines[0]), "id,author,title,year,type") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "1,archivist,Alien,1979,film,4K|Remux,") {
		t.Fatalf("unexpected alien row: %q", lines[1])
	}
	if !strings.Contains(lines[1], "Q103569") || !strings.HasSuffix(lines[1], "https://x.com/archivist/status/1") {
		t.Fatalf("alien row missing ids or post url: %q", lines[1])
	}
	if !strings.Contains(lines[2], "Paris, Texas (1984)") {
		t.Fatalf("collection row missing entries: %q", lines[2])
	}

	var interest bytes.Buffer
	if err := WriteCSV(&interest, doc, true); err != nil {
		t.Fatalf("WriteCSV interest: %v", err)
	}
	rows := strings.Split(strings.TrimSpace(interest.String()), "\n")
	if len(rows) != 3 || !strings.HasPrefix(rows[1], "2,,Paddington,2014,media-interest") {
		t.Fatalf("unexpected interest export:\n%s", interest.String())
	}
}

func TestDecodeRejectsUnparsedDocument(t *testing.T) {
	_, err := Decode([]byte(`{"tweets": [{"id": "1", "text": "Alien (1979)"}]}`))
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := Decode([]byte(`{"tweets": 3}`)); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for malformed document, got %v", err)
	}
}
