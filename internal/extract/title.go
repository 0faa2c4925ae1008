package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"mediaparse/internal/textutil"
)

var (
	trailingYearPattern   = regexp.MustCompile(`\s*\(\d{4}(?:-\d{2,4})?\)\s*$`)
	trailingPunctPattern  = regexp.MustCompile(`[:\-,]+$`)
	sequenceMarkerPattern = regexp.MustCompile(`(?i)^(season|episode|part)\s*\d+$`)
	sizeTokenPattern      = regexp.MustCompile(`^\d+(?:\.\d+)?(?:gb|mb|tb|gib|mib|tib)$`)
	resolutionToken       = regexp.MustCompile(`^(?:\d{3,4}p|[48]k)$`)

	// Lines that describe contents rather than name them.
	descriptiveLinePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\d+\s+(episodes|volumes|seasons)`),
		regexp.MustCompile(`^two special episodes`),
		regexp.MustCompile(`^\(there are lots of`),
		regexp.MustCompile(`^complete series`),
		regexp.MustCompile(`bonus materials are included`),
		regexp.MustCompile(`extract and enjoy`),
	}
)

var baseQualityTokens = []string{
	"uhd", "hdr", "hdr10", "hdr10+", "dv", "dolby", "vision", "atmos", "remux",
	"bluray", "blu-ray", "bdrip", "web-dl", "webrip", "web", "hevc", "avc",
	"x264", "x265", "h264", "h265", "10bit", "sdr", "dts", "dts-hd", "truehd",
	"aac", "ac3", "flac", "ma", "imax",
}

const quotedMarkerLine = "---quoted tweet---"

// ExtractTitle runs the title strategies in order and returns the first
// usable title, or nil when the block names nothing.
func (e *Extractor) ExtractTitle(block string) *TitleMatch {
	if m := e.titleFromYearPattern(block); m != nil {
		return m
	}
	if m := e.titleFromQuotes(block); m != nil {
		return m
	}
	return e.titleFromLines(block)
}

func (e *Extractor) titleFromYearPattern(block string) *TitleMatch {
	m := e.titleWithYear.FindStringSubmatch(block)
	if len(m) < 3 {
		return nil
	}
	title, ok := e.CleanTitle(m[1])
	if !ok {
		return nil
	}
	return &TitleMatch{Title: textutil.TitleCase(title), Year: m[2]}
}

func (e *Extractor) titleFromQuotes(block string) *TitleMatch {
	m := e.quotedTitle.FindStringSubmatch(block)
	if len(m) < 2 {
		return nil
	}
	title, ok := e.CleanTitle(m[1])
	if !ok {
		return nil
	}
	return &TitleMatch{Title: textutil.TitleCase(title)}
}

func (e *Extractor) titleFromLines(block string) *TitleMatch {
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if !e.looksLikeTitle(line) {
			continue
		}
		if title, ok := e.titleFromLine(line); ok {
			return &TitleMatch{Title: textutil.TitleCase(title)}
		}
	}
	return nil
}

func (e *Extractor) titleFromLine(line string) (string, bool) {
	title := strings.TrimSpace(trailingYearPattern.ReplaceAllString(line, ""))
	if head, _, found := strings.Cut(title, ":"); found && !strings.HasPrefix(strings.ToLower(title), "http") {
		if utf8.RuneCountInString(head) > 3 && !sequenceMarkerPattern.MatchString(head) {
			title = strings.TrimSpace(head)
		}
	}
	return e.CleanTitle(title)
}

func (e *Extractor) looksLikeTitle(line string) bool {
	if line == "" {
		return false
	}
	lower := strings.ToLower(line)
	if strings.HasPrefix(lower, "http") || lower == quotedMarkerLine {
		return false
	}
	for _, p := range descriptiveLinePatterns {
		if p.MatchString(lower) {
			return false
		}
	}

	letters, total := 0, 0
	for _, r := range line {
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if letters == 0 || float64(letters) < float64(total)*0.4 {
		return false
	}
	return !e.isQualityLine(lower)
}

// isQualityLine reports whether every token on the line is a release
// descriptor such as a resolution, codec, or file size.
func (e *Extractor) isQualityLine(lower string) bool {
	tokens := strings.FieldsFunc(lower, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' || r == '+')
	})
	if len(tokens) == 0 {
		return false
	}
	for _, token := range tokens {
		if _, ok := e.qualityTokens[token]; ok {
			continue
		}
		if sizeTokenPattern.MatchString(token) || resolutionToken.MatchString(token) {
			continue
		}
		return false
	}
	return true
}

func (e *Extractor) CleanTitle(text string) (string, bool) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimSpace(trailingPunctPattern.ReplaceAllString(cleaned, ""))
	if _, stop := e.stopwords[strings.ToLower(cleaned)]; stop {
		return "", false
	}
	if utf8.RuneCountInString(cleaned) < 2 {
		return "", false
	}
	return cleaned, true
}
