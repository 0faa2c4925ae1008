// Package wikidata provides the minimal Wikidata API client used for
// reference enrichment.
//
// It exposes entity search (wbsearchentities) and batched entity retrieval
// (wbgetentities). Claims are decoded lazily so malformed or unexpected
// snaks never fail a whole response. Options allow tests to supply custom
// HTTP clients.
package wikidata
