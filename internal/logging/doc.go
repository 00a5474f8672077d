// Package logging builds the slog logger used for diagnostics. User facing
// progress is printed directly; this logger carries warnings about skipped
// candidates and debug detail about searches and scoring.
package logging
