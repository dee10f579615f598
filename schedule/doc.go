// Package schedule validates the cron expressions attached to flows.
//
// Only the standard 5-field form is accepted: minute, hour, day-of-month,
// month and day-of-week. Each field takes wildcards, numbers, ranges, steps,
// lists and (for month and day-of-week) three-letter names:
//
//	s, err := schedule.Parse("0 9 * * MON")
//	next := s.Next(time.Now())
//
// Parsing is backed by github.com/robfig/cron/v3. Descriptors such as
// "@daily" and the 6-field seconds form are rejected.
package schedule
