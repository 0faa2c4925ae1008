package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"mediaparse/internal/parser"
)

var csvHeader = table.Row{
	"id", "author", "title", "year", "type", "quality", "season_episode_info",
	"items_included", "urls", "wikidata_id", "imdb_id", "steam_id",
	"wikidata_confidence", "tweet_url",
}

// RenderSummary writes the overview, type, and domain tables.
func RenderSummary(w io.Writer, s Summary, style table.Style) error {
	overview := newTable(style, "Overview", table.Row{"Metric", "Value"}, 2)
	overview.AppendRows([]table.Row{
		{"Posts processed", s.Stats.TweetsProcessed},
		{"Posts with media", s.Stats.TweetsWithMedia},
		{"Posts skipped", s.Stats.TweetsSkipped},
		{"Media items", s.Stats.TotalMediaItems},
		{"Interest items", s.Stats.MediaInterestItems},
		{"Wikidata enhanced", s.Stats.WikidataEnhanced},
		{"Unassociated URLs", s.Stats.UnassociatedURLs},
		{"Parsed at", s.Stats.ParsedAt},
	})

	types := newTable(style, "Items by type", table.Row{"Type", "Items"}, 2)
	types.AppendRows(countRows(s.Types))

	domains := newTable(style, "URLs by domain", table.Row{"Domain", "URLs"}, 2)
	domains.AppendRows(countRows(s.Domains))

	for i, tw := range []table.Writer{overview, types, domains} {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, tw.Render()); err != nil {
			return err
		}
	}
	return nil
}

// WriteCSV writes one row per media item. With interest set, interest items
// are exported instead of download items.
func WriteCSV(w io.Writer, doc *Document, interest bool) error {
	tw := table.NewWriter()
	tw.AppendHeader(csvHeader)
	for _, post := range doc.Posts {
		if post.Parsed == nil {
			continue
		}
		items := post.Parsed.MediaItems
		if interest {
			items = post.Parsed.MediaInterestItems
		}
		for _, item := range items {
			tw.AppendRow(csvRow(post, item))
		}
	}
	_, err := fmt.Fprintln(w, tw.RenderCSV())
	return err
}

func csvRow(post Post, item parser.MediaItem) table.Row {
	included := make([]string, 0, len(item.ItemsIncluded))
	for _, entry := range item.ItemsIncluded {
		included = append(included, fmt.Sprintf("%s (%s)", entry.Title, entry.Year))
	}
	return table.Row{
		string(post.ID),
		post.Author,
		item.Title,
		joinPtr(item.Year),
		joinPtr(item.Type),
		strings.Join(item.Quality, "|"),
		joinPtr(item.SeasonEpisodeInfo),
		strings.Join(included, "|"),
		strings.Join(item.AssociatedURLs, "|"),
		item.WikidataID,
		item.IMDbID,
		item.SteamID,
		confidence(item),
		post.URL,
	}
}

func newTable(style table.Style, title string, header table.Row, rightColumn int) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(style)
	tw.SetTitle("%s", title)
	tw.AppendHeader(header)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: rightColumn, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw
}

func countRows(counts []Count) []table.Row {
	if len(counts) == 0 {
		return []table.Row{{"(none)", 0}}
	}
	rows := make([]table.Row, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, table.Row{c.Name, c.Count})
	}
	return rows
}
