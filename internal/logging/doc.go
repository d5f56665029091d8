// Package logging builds the slog loggers used by stayer and its mock API.
//
// The terminal client writes to a file (the TUI owns the terminal) in tint's
// uncolored text format, which internal/logtail parses back for the activity
// view. The mock API logs in color to stderr.
package logging
