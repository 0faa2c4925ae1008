package parser

import (
	"encoding/json"
	"fmt"

	"mediaparse/internal/collection"
)

// PostID accepts both string and numeric identifiers.
type PostID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *PostID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = PostID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("post id must be a string or number: %w", err)
	}
	*id = PostID(n.String())
	return nil
}

// Post is the typed view of one input post. Fields the pipeline does not
// read are carried through untouched from the raw document.
type Post struct {
	ID          PostID   `json:"id"`
	Text        string   `json:"text"`
	QuotedText  string   `json:"quoted_text"`
	Links       []string `json:"links"`
	QuotedLinks []string `json:"quoted_links"`
}

// MediaItem is one title recognised in a post.
type MediaItem struct {
	Title              string             `json:"title"`
	Year               *string            `json:"year"`
	Type               *string            `json:"type"`
	Quality            []string           `json:"quality"`
	SeasonEpisodeInfo  *string            `json:"season_episode_info"`
	IsCollection       bool               `json:"isCollection,omitempty"`
	ItemsIncluded      []collection.Entry `json:"items_included,omitempty"`
	AssociatedURLs     []string           `json:"associated_urls"`
	WikidataEnhanced   bool               `json:"wikidata_enhanced"`
	WikidataID         string             `json:"wikidata_id,omitempty"`
	IMDbID             string             `json:"imdb_id,omitempty"`
	SteamID            string             `json:"steam_id,omitempty"`
	WikidataConfidence *int               `json:"wikidata_confidence,omitempty"`
}

// ParsedMedia is attached to every output post under "parsed_media".
type ParsedMedia struct {
	MediaItems         []MediaItem `json:"media_items"`
	MediaInterestItems []MediaItem `json:"media_interest_items"`
	UnassociatedURLs   []string    `json:"unassociated_urls"`
	SkippedReason      string      `json:"skipped_reason,omitempty"`
}

// Stats summarises one document run under "parser_stats".
type Stats struct {
	TweetsProcessed    int    `json:"tweets_processed"`
	TweetsWithMedia    int    `json:"tweets_with_media"`
	TotalMediaItems    int    `json:"total_media_items"`
	WikidataEnhanced   int    `json:"wikidata_enhanced"`
	ParsedAt           string `json:"parsed_at"`
	TweetsSkipped      int    `json:"tweets_skipped"`
	MediaInterestItems int    `json:"media_interest_items"`
	UnassociatedURLs   int    `json:"unassociated_urls"`
}

// SkipNoIndicators marks posts that carry nothing resembling media.
const SkipNoIndicators = "no_media_indicators"

const (
	typeCollection = "collection"
	typeInterest   = "media-interest"
)

func (s *Stats) add(parsed ParsedMedia) {
	s.TweetsProcessed++
	if parsed.SkippedReason != "" {
		s.TweetsSkipped++
	}
	if len(parsed.MediaItems) > 0 || len(parsed.MediaInterestItems) > 0 {
		s.TweetsWithMedia++
	}
	s.TotalMediaItems += len(parsed.MediaItems)
	s.MediaInterestItems += len(parsed.MediaInterestItems)
	s.UnassociatedURLs += len(parsed.UnassociatedURLs)
	for _, group := range [][]MediaItem{parsed.MediaItems, parsed.MediaInterestItems} {
		for _, item := range group {
			if item.WikidataEnhanced {
				s.WikidataEnhanced++
			}
		}
	}
}

func emptyParsedMedia() ParsedMedia {
	return ParsedMedia{
		MediaItems:         make([]MediaItem, 0),
		MediaInterestItems: make([]MediaItem, 0),
		UnassociatedURLs:   make([]string, 0),
	}
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
