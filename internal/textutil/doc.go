// Package textutil provides the casing and folding helpers shared by the
// extractors, the collection splitter, and enrichment scoring.
//
// TitleCase leaves already mixed-case text alone so that titles written with
// deliberate capitalization survive. Fold strips accents through a
// transliteration table so that comparisons ignore diacritics.
package textutil
