package extract

import (
	"reflect"
	"testing"

	"mediaparse/internal/config"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	cfg := config.Default()
	e, err := New(&cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestExtractTitleStrategies(t *testing.T) {
	e := newTestExtractor(t)
	tests := []struct {
		name  string
		block string
		want  *TitleMatch
	}{
		{"title with year", "dragon ball (1986)\nhttps://mega.nz/folder/abc", &TitleMatch{Title: "Dragon Ball", Year: "1986"}},
		{"year range keeps start", "the man from london (2007-2008) 1080p", &TitleMatch{Title: "The Man From London", Year: "2007"}},
		{"quoted title", `finally found "the witches" in hd`, &TitleMatch{Title: "The Witches"}},
		{"line fallback with colon", "gantz: complete\nhttps://transfer.it/x", &TitleMatch{Title: "Gantz"}},
		{"line fallback skips urls and counts", "https://vk.com/video1\n26 episodes\nrosemberg", &TitleMatch{Title: "Rosemberg"}},
		{"quality line is not a title", "4k uhd remux (72.84gb)\nhttps://pixeldrain.com/u/x", nil},
		{"stopword only", "download\nhttps://mega.nz/x", nil},
		{"nothing", "https://mega.nz/x", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.ExtractTitle(tt.block)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ExtractTitle(%q) = %+v, want %+v", tt.block, got, tt.want)
			}
		})
	}
}

func TestTitleFromYearPatternRejectsStopword(t *testing.T) {
	e := newTestExtractor(t)
	if m := e.titleFromYearPattern("links (2020)"); m != nil {
		t.Fatalf("expected stopword title to be rejected, got %+v", m)
	}
	if m := e.ExtractTitle(`links (2020) "akira"`); m == nil || m.Title != "Akira" || m.Year != "" {
		t.Fatalf("expected fallback to quoted title, got %+v", m)
	}
}

func TestTitleFromLineColonRules(t *testing.T) {
	e := newTestExtractor(t)
	tests := []struct {
		line string
		want string
	}{
		{"alien: director's cut (1979)", "alien"},
		{"up: the movie", "up: the movie"},
		{"season 2: the return", "season 2: the return"},
		{"blade runner -", "blade runner"},
	}
	for _, tt := range tests {
		got, ok := e.titleFromLine(tt.line)
		if !ok || got != tt.want {
			t.Errorf("titleFromLine(%q) = %q, %v; want %q", tt.line, got, ok, tt.want)
		}
	}
}

func TestLooksLikeTitle(t *testing.T) {
	e := newTestExtractor(t)
	tests := []struct {
		line string
		want bool
	}{
		{"akira", true},
		{"---quoted tweet---", false},
		{"http://example.com", false},
		{"two special episodes included", false},
		{"(there are lots of extras)", false},
		{"complete series box", false},
		{"12 volumes", false},
		{"1080p 23.4gb", false},
		{"x1 2 3 4 5", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := e.looksLikeTitle(tt.line); got != tt.want {
			t.Errorf("looksLikeTitle(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestExtractQualityKeepsOrderCasingAndDedupes(t *testing.T) {
	e := newTestExtractor(t)
	got := e.ExtractQuality("remux 4k uhd, 4K again and hdr dolby vision")
	want := []string{"4K", "UHD", "HDR", "Dolby Vision", "Remux"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractQuality = %v, want %v", got, want)
	}
	if got := e.ExtractQuality("plain text"); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestExtractType(t *testing.T) {
	e := newTestExtractor(t)
	tests := []struct {
		block string
		want  string
	}{
		{"king kong video game (2005)", "game"},
		{"a tv film from 1990", "tv film"},
		{"season 1 complete", "tv series"},
		{"great movie", "film"},
		{"nothing to see", ""},
	}
	for _, tt := range tests {
		if got := e.ExtractType(tt.block); got != tt.want {
			t.Errorf("ExtractType(%q) = %q, want %q", tt.block, got, tt.want)
		}
	}
}

func TestExtractYearAndSeason(t *testing.T) {
	e := newTestExtractor(t)
	if got := e.ExtractYear("released in 1999, remastered 2019"); got != "1999" {
		t.Fatalf("ExtractYear = %q", got)
	}
	if got := e.ExtractYear("no year here 123"); got != "" {
		t.Fatalf("expected empty year, got %q", got)
	}
	if got := e.ExtractSeasonInfo("dragon ball s01e05 1080p"); got != "s01e05" {
		t.Fatalf("ExtractSeasonInfo = %q", got)
	}
	if got := e.ExtractSeasonInfo("the sopranos seasons 1-6"); got != "seasons 1-6" {
		t.Fatalf("ExtractSeasonInfo = %q", got)
	}
	if got := e.ExtractSeasonInfo("a film"); got != "" {
		t.Fatalf("expected no season info, got %q", got)
	}
}

func TestIndicators(t *testing.T) {
	e := newTestExtractor(t)
	if !e.HasResolution("grab the 2160p copy") || e.HasResolution("2160 pixels") {
		t.Fatal("unexpected resolution detection")
	}
	if !e.HasYear("from 1984") || e.HasYear("room 1234") {
		t.Fatal("unexpected year detection")
	}
	if !e.HasQuality("bluray rip") {
		t.Fatal("expected quality detection")
	}
}

func TestIsBoilerplate(t *testing.T) {
	e := newTestExtractor(t)
	if !e.IsBoilerplate("Download Links Below") {
		t.Fatal("expected boilerplate opener to match")
	}
	if e.IsBoilerplate("Ballerina") {
		t.Fatal("expected real title to pass")
	}
}
