package enrichment

import (
	"sort"
	"strings"

	"mediaparse/internal/textutil"
	"mediaparse/internal/wikidata"
)

const (
	scoreBase       = 20
	scoreExactTitle = 50
	scorePartial    = 25
	scoreYearMatch  = 25
	scoreExternalID = 10
	candidateCount  = 3
	searchLimit     = 10
	typeUnknown     = "unknown"
	typeFilm        = "film"
	typeTVSeries    = "tv series"
	typeGame        = "game"
)

// mediaClasses lists the instance-of classes accepted as media: film, TV
// series, animated film, animated series, anime television series, TV film
// series, video game, video game series, TV miniseries, web series, TV
// program, short film, anime, and comics/manga.
var mediaClasses = map[string]struct{}{
	"Q11424": {}, "Q5398426": {}, "Q506240": {}, "Q336144": {}, "Q1366112": {},
	"Q21191270": {}, "Q7889": {}, "Q16070115": {}, "Q7058673": {}, "Q63952888": {},
	"Q220898": {}, "Q581714": {}, "Q202866": {}, "Q8274": {},
}

var classTypes = map[string]string{
	"Q11424":    typeFilm,
	"Q581714":   typeFilm,
	"Q5398426":  typeTVSeries,
	"Q63952888": typeTVSeries,
	"Q220898":   typeTVSeries,
	"Q7889":     typeGame,
	"Q16070115": typeGame,
}

func isMediaEntity(entity wikidata.Entity) bool {
	for _, id := range entity.EntityIDs(wikidata.PropInstanceOf) {
		if _, ok := mediaClasses[id]; ok {
			return true
		}
	}
	return false
}

// candidate builds an unscored match from an entity.
func candidate(entity wikidata.Entity, language, searchTitle string) Match {
	m := Match{
		Title:      entity.Label(language),
		Type:       typeUnknown,
		WikidataID: entity.ID,
	}
	if m.Title == "" {
		m.Title = searchTitle
	}
	for _, prop := range []string{wikidata.PropPublication, wikidata.PropInception} {
		if year := entity.FirstYear(prop); year != "" {
			m.Year = year
			break
		}
	}
	if t, ok := classTypes[entity.FirstEntityID(wikidata.PropInstanceOf)]; ok {
		m.Type = t
	}
	if entity.HasClaim(wikidata.PropIMDbID) {
		m.IMDbID = entity.FirstString(wikidata.PropIMDbID)
	} else if entity.HasClaim(wikidata.PropSteamID) {
		m.SteamID = entity.FirstString(wikidata.PropSteamID)
	}
	return m
}

func score(m Match, searchTitle, searchYear string) int {
	total := scoreBase

	title := strings.ToLower(m.Title)
	search := strings.ToLower(searchTitle)
	switch {
	case title == search || textutil.EqualFold(m.Title, searchTitle):
		total += scoreExactTitle
	case strings.Contains(title, search) || strings.Contains(search, title):
		total += scorePartial
	}

	if searchYear != "" && m.Year == searchYear {
		total += scoreYearMatch
	}
	if m.IMDbID != "" || m.SteamID != "" {
		total += scoreExternalID
	}
	return total
}

// selectBest scores candidates and returns the highest, preferring earlier
// search results on ties. It returns nil for no candidates.
func selectBest(candidates []Match, searchTitle, searchYear string) *Match {
	if len(candidates) == 0 {
		return nil
	}
	scored := make([]Match, len(candidates))
	for i, c := range candidates {
		c.Confidence = score(c, searchTitle, searchYear)
		scored[i] = c
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Confidence > scored[j].Confidence
	})
	best := scored[0]
	return &best
}
