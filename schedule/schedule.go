package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kbukum/flowkit/errors"
)

// FieldCount is the number of fields in a standard cron expression.
const FieldCount = 5

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Schedule is a parsed cron expression.
type Schedule struct {
	expr  string
	inner cron.Schedule
}

// Parse validates expr and returns its parsed form. The error is an
// INVALID_SCHEDULE AppError naming expr.
func Parse(expr string) (*Schedule, error) {
	trimmed := strings.TrimSpace(expr)
	fields := strings.Fields(trimmed)
	if n := len(fields); n != FieldCount {
		return nil, errors.InvalidSchedule(expr, fmt.Errorf("expected exactly %d fields, found %d", FieldCount, n))
	}
	fields[FieldCount-1] = normalizeDow(fields[FieldCount-1])

	inner, err := parser.Parse(strings.Join(fields, " "))
	if err != nil {
		return nil, errors.InvalidSchedule(expr, err)
	}
	return &Schedule{expr: trimmed, inner: inner}, nil
}

// normalizeDow rewrites day-of-week 7 (Sunday) as 0, the only Sunday value
// the parser knows. Ranges ending in 7 are expanded into a list, so "5-7"
// becomes "5,6,0". Parts it does not understand are left for the parser.
func normalizeDow(field string) string {
	parts := strings.Split(field, ",")
	for i, part := range parts {
		parts[i] = normalizeDowPart(part)
	}
	return strings.Join(parts, ",")
}

func normalizeDowPart(part string) string {
	rng, stepStr, hasStep := strings.Cut(part, "/")
	lo, hi, isRange := strings.Cut(rng, "-")
	if !isRange {
		if rng == "7" {
			return "0"
		}
		return part
	}
	if hi != "7" {
		return part
	}

	start, err := strconv.Atoi(lo)
	if err != nil || start < 0 || start > 7 {
		return part
	}
	step := 1
	if hasStep {
		step, err = strconv.Atoi(stepStr)
		if err != nil || step <= 0 {
			return part
		}
	}

	var days []string
	for d := start; d <= 7; d += step {
		days = append(days, strconv.Itoa(d%7))
	}
	return strings.Join(days, ",")
}

// MustParse is like Parse but panics on an invalid expression.
func MustParse(expr string) *Schedule {
	s, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return s
}

// IsValid reports whether expr is a valid 5-field cron expression.
func IsValid(expr string) bool {
	_, err := Parse(expr)
	return err == nil
}

// String returns the expression the schedule was parsed from.
func (s *Schedule) String() string { return s.expr }

// Next returns the first activation strictly after t, or the zero time if
// the expression can never fire (e.g. "0 0 30 2 *").
func (s *Schedule) Next(t time.Time) time.Time {
	return s.inner.Next(t)
}

// Upcoming returns the next n activations after t.
func (s *Schedule) Upcoming(t time.Time, n int) []time.Time {
	out := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		t = s.Next(t)
		if t.IsZero() {
			break
		}
		out = append(out, t)
	}
	return out
}
