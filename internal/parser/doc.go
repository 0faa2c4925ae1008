// Package parser runs the per-post media extraction pipeline and the
// document-level batch around it.
//
// ParsePost unifies a post's text with its quote, builds the URL pool, and
// splits the normalized text into blocks. Each block becomes a collection or a
// single titled item, with links claimed from the pool so no URL lands on two
// items. Posts with links produce download items; posts without links produce
// interest items, merged with any watch-list mentions. Leftover links are
// handed out by the configured finalize policy and the rest are reported as
// unassociated.
//
// ParseFile wraps that in document handling: it validates the input, keeps
// every unknown post field, checkpoints the enrichment cache, and writes the
// output with parser_stats atomically.
package parser
