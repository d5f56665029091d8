// Package logtail reads the tail of stayer's log file for the activity view.
//
// Read keeps a ring buffer of the last maxLines, so memory stays bounded by
// the number of lines shown rather than the size of the file. A missing file
// reads as empty.
//
// Parse understands the two formats internal/logging writes:
//
//	2025-10-08 21:01:05 WRN action failed action="fetch offers"
//	{"time":"2025-10-08T21:01:05Z","level":"WARN","msg":"action failed"}
//
// Anything else (panics, stray output) is kept as an unparsed entry with
// LevelUnknown, which Filter never drops.
package logtail
