// Package calendar provides day-granularity dates for habit scheduling.
//
// # Why not time.Time
//
// A time.Time is an instant. Truncating it to "start of day" depends on the
// location it is viewed in, so two processes with different TZ settings can
// disagree on which weekday an instant falls on. Date carries only year,
// month and day; Weekday is a pure function of those fields.
//
// Instants enter the package through FromTime (and Today / Parse, which call
// it) with an explicit *time.Location. Nothing else in this package reads
// time.Local.
//
// # Text form
//
// Dates marshal to and from YYYY-MM-DD, both as JSON strings and as SQLite
// column values:
//
//	d := calendar.New(2024, time.January, 15)
//	d.String()  // "2024-01-15"
//	d.Weekday() // time.Monday
//
// # Weekday sets
//
// WeekdaySet is the recurrence mask of a habit, using the Sunday = 0 numbering
// of time.Weekday. ParseWeekdays validates client input and normalizes it to
// a sorted, duplicate-free set.
package calendar
