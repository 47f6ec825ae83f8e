// internal/app/system/workday/workday.go

// Package workday maps timestamps to the business-day partition key used
// for uniqueness constraints and day-scoped queries. Days are anchored to
// a fixed UTC+6 offset with a 10:00 cutover: anything at or before 10:00
// local belongs to the previous calendar day, so a "working day" runs
// from just after 10:00 one morning through 10:00 the next.
//
// The anchor is a fixed offset, not an IANA zone; DST and leap-second
// irregularities are intentionally ignored.
package workday

import "time"

const (
	// CutoverHour is the local hour at which a new working day begins.
	CutoverHour = 10

	// Layout is the working-day string format.
	Layout = "2006-01-02"
)

// Zone is the fixed business timezone (UTC+6).
var Zone = time.FixedZone("UTC+6", 6*60*60)

// Resolve returns the working day for t as YYYY-MM-DD. Exactly 10:00:00.0
// local still belongs to the previous day; the first instant of a new
// working day is one nanosecond later.
func Resolve(t time.Time) string {
	lt := t.In(Zone)
	h, m, s := lt.Clock()
	if h < CutoverHour || (h == CutoverHour && m == 0 && s == 0 && lt.Nanosecond() == 0) {
		lt = lt.AddDate(0, 0, -1)
	}
	return lt.Format(Layout)
}

// Today returns the current working day.
func Today() string {
	return Resolve(time.Now())
}

// Previous returns the calendar day before the given working day.
// Returns an error when day is not a valid YYYY-MM-DD string.
func Previous(day string) (string, error) {
	d, err := time.ParseInLocation(Layout, day, Zone)
	if err != nil {
		return "", err
	}
	return d.AddDate(0, 0, -1).Format(Layout), nil
}

// Valid reports whether day parses as a YYYY-MM-DD working-day string.
func Valid(day string) bool {
	_, err := time.ParseInLocation(Layout, day, Zone)
	return err == nil
}
