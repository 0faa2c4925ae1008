// Package logging builds the slog loggers used by the CLI and the parser
// pipeline.
//
// Console output is one line per record with the component as prefix; JSON
// output shortens the built-in keys. Setting logging.dir adds a size-rotated
// log file. WithContext tags records with the run and post identifiers stored
// on a context, and WarnWithContext/ErrorWithContext enforce the event_type,
// error_hint and impact fields on problem reports.
package logging
