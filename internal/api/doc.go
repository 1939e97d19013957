// Package api exposes the habit service over HTTP.
//
// # Routes
//
//	GET   /                    list all habits
//	GET   /habits/{id}         one habit
//	GET   /day?date=...        possible habits and completed habit ids for a date
//	GET   /filter?filter=...   habits whose title starts with the prefix
//	POST  /habits              create a habit active from today
//	PATCH /habits/{id}/toggle  flip today's completion of a habit
//	GET   /summary             per-day completed and possible counts
//
// Dates are YYYY-MM-DD. The day query also accepts an RFC 3339 timestamp,
// which is converted to the configured timezone before its date is taken.
//
// # Errors
//
// Failures are JSON objects of the form {"error": "..."}:
//
//   - 400: malformed date, weekday outside 0..6, malformed UUID, bad body
//   - 404: unknown habit
//   - 409: a toggle kept losing races with concurrent toggles
//   - 500: anything else; details are logged, not returned
package api
