// Package duedate classifies a work package due date against a reference
// day. The reference day is always supplied by the caller so the
// classification stays pure.
package duedate

import "time"

const dateLayout = "2006-01-02"

// Status is the calendar position of a due date relative to today.
type Status string

const (
	StatusPast   Status = "past"
	StatusToday  Status = "today"
	StatusFuture Status = "future"
	StatusNone   Status = "none"
)

// Classify parses raw as YYYY-MM-DD and compares it to today by calendar
// date only. Absent or unparseable input classifies as StatusNone.
func Classify(raw string, today time.Time) Status {
	if raw == "" {
		return StatusNone
	}
	due, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return StatusNone
	}

	year, month, day := today.Date()
	ref := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

	switch {
	case due.Before(ref):
		return StatusPast
	case due.Equal(ref):
		return StatusToday
	default:
		return StatusFuture
	}
}
