// Package logging builds the slog handler used by habitd.
//
// Format "json" writes one JSON object per record. Any other format uses a
// compact, colorized single-line handler intended for terminals:
//
//	15:04:05 INF habit created component=habits habit_id=... title=Exercise
//
// Colors are disabled automatically when the output is not a terminal (see
// github.com/fatih/color).
package logging
