// Package extract pulls individual fields out of a normalized text block:
// title, year, media type, quality keywords, and season/episode markers.
//
// An Extractor is built once from configuration and is safe for concurrent
// use; every method is a pure function of its input block.
package extract
