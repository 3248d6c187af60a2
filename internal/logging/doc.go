// Package logging assembles the structured slog loggers used across stashdup.
//
// It owns the console and JSON handlers and centralizes level and output
// plumbing. The console handler colors level labels when writing to a
// terminal and falls back to plain text when piped. Prefer these
// constructors over hand-rolled slog setup so every component emits log
// lines with the same shape; NewNop returns a discard logger for tests and
// wiring code that cannot fail.
package logging
