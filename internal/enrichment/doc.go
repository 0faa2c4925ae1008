// Package enrichment resolves extracted titles against Wikidata.
//
// An Enricher searches for candidate entities, keeps only those whose
// instance-of claim names a media type, scores them against the extracted
// title and year, and returns the best candidate when it clears the
// configured confidence floor. Accepted matches are cached on disk for a week
// so repeated runs over overlapping exports stay cheap.
//
// Requests share one rate limiter and transient failures are retried with
// backoff. The cache directory is guarded by a file lock so two runs cannot
// interleave writes.
package enrichment
