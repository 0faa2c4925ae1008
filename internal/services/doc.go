// Package services holds the cross-cutting pieces every pipeline stage
// shares: context helpers that carry the run and post identifiers into log
// records, and the classified Error type with its failure markers.
//
// Fatal markers (ErrValidation, ErrConfiguration) abort a run; the rest
// describe per-title misses that the parser logs and skips.
package services
