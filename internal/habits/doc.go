// Package habits implements habit scheduling, completion toggling and the
// completion summary.
//
// # Scheduling
//
// A habit is possible on a date when the date is on or after the habit's
// creation date and the date's weekday is in the habit's WeekDays:
//
//	IsPossible(h, d) == !d.Before(h.CreatedAt) && h.WeekDays.Contains(d.Weekday())
//
// Possible and Summarize are pure functions over already loaded habits, so
// the scheduling rules can be tested without a store.
//
// # Toggling
//
// Toggle flips whether a habit is completed on a date. The Day row for the
// date is created on first use. The read-then-write sequence runs inside one
// store transaction, and uniqueness constraints on days.date and
// (day_id, habit_id) catch concurrent toggles that slip between the read and
// the write. Those surface as store.ErrConflict and the whole attempt is
// retried, up to WithMaxToggleAttempts times.
//
// Toggling a habit that does not exist fails with ErrHabitNotFound before any
// ledger row is written.
//
// # Summary
//
// Summary emits one entry per Day row, ordered by date. Completed counts come
// from a single aggregate query; Possible counts are recomputed from the
// current catalog. A habit completed outside its schedule can make Completed
// exceed Possible. The value is reported as is.
package habits
