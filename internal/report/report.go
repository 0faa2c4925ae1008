package report

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"mediaparse/internal/parser"
	"mediaparse/internal/services"
)

const stageName = "report"

// Document is the part of a parsed document the reports read.
type Document struct {
	Posts []Post       `json:"tweets"`
	Stats parser.Stats `json:"parser_stats"`
}

// Post is one parsed post.
type Post struct {
	ID     parser.PostID       `json:"id"`
	Author string              `json:"author"`
	URL    string              `json:"url"`
	Parsed *parser.ParsedMedia `json:"parsed_media"`
}

// Count is a labelled tally.
type Count struct {
	Name  string
	Count int
}

// Summary aggregates a parsed document.
type Summary struct {
	Stats   parser.Stats
	Types   []Count
	Domains []Count
}

const unknownType = "unknown"

// Load reads and decodes a parsed document.
func Load(fs afero.Fs, path string) (*Document, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, stageName, "read", path, err)
	}
	return Decode(data)
}

// Decode parses a document produced by the parser. Documents where no post
// carries parsed_media are rejected.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, services.Wrap(services.ErrValidation, stageName, "decode", "not a parsed document", err)
	}
	if len(doc.Posts) == 0 {
		return &doc, nil
	}
	for _, post := range doc.Posts {
		if post.Parsed != nil {
			return &doc, nil
		}
	}
	return nil, services.Wrap(services.ErrValidation, stageName, "decode", "no post carries parsed_media; run `mediaparse parse` first", nil)
}

// Summarize counts items per type and URLs per host across every post.
func Summarize(doc *Document) Summary {
	types := map[string]int{}
	domains := map[string]int{}
	for _, post := range doc.Posts {
		if post.Parsed == nil {
			continue
		}
		for _, group := range [][]parser.MediaItem{post.Parsed.MediaItems, post.Parsed.MediaInterestItems} {
			for _, item := range group {
				types[itemType(item)]++
				for _, u := range item.AssociatedURLs {
					domains[host(u)]++
				}
			}
		}
		for _, u := range post.Parsed.UnassociatedURLs {
			domains[host(u)]++
		}
	}
	return Summary{
		Stats:   doc.Stats,
		Types:   sortedCounts(types),
		Domains: sortedCounts(domains),
	}
}

func itemType(item parser.MediaItem) string {
	if item.Type == nil || *item.Type == "" {
		return unknownType
	}
	return *item.Type
}

func host(raw string) string {
	if strings.HasPrefix(strings.ToLower(raw), "magnet:") {
		return "magnet"
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Hostname() == "" {
		return "(invalid)"
	}
	return strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
}

func sortedCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for name, n := range m {
		out = append(out, Count{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func joinPtr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func confidence(item parser.MediaItem) string {
	if item.WikidataConfidence == nil {
		return ""
	}
	return fmt.Sprint(*item.WikidataConfidence)
}
