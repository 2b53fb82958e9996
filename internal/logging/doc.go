// Package logging assembles the structured slog loggers used across
// dupecheck.
//
// It owns the console and JSON handlers, level parsing and output routing,
// and exposes context helpers so matcher and server code tag every line with
// the correlation ID, item ID and content type of the submission being
// evaluated. NewNop provides a silent logger for tests and optional wiring.
package logging
