package engine

import (
	"strings"
	"time"
)

// DateStatus is the urgency of a single due or start timestamp relative to a
// reference instant.
type DateStatus string

const (
	NoDate      DateStatus = "no-date"
	Overdue     DateStatus = "overdue"
	DueSoon     DateStatus = "due-soon"
	Upcoming    DateStatus = "upcoming"
	InvalidDate DateStatus = "invalid-date"
)

// DueSoonWindow is how far ahead of now a timestamp counts as due soon.
const DueSoonWindow = 24 * time.Hour

// Classify compares at against now. The overdue boundary is the exact
// instant: at == now is due soon, not overdue.
func Classify(at *time.Time, now time.Time) DateStatus {
	if at == nil {
		return NoDate
	}
	switch {
	case at.Before(now):
		return Overdue
	case at.Before(now.Add(DueSoonWindow)):
		return DueSoon
	default:
		return Upcoming
	}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp accepts RFC 3339 and the date/date-time forms users type.
// Layouts without a zone are interpreted in loc.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ClassifyRaw classifies a timestamp that has not been parsed yet. Blank
// input is NoDate, anything unparseable is InvalidDate.
func ClassifyRaw(raw string, now time.Time) DateStatus {
	if strings.TrimSpace(raw) == "" {
		return NoDate
	}
	t, ok := ParseTimestamp(raw, now.Location())
	if !ok {
		return InvalidDate
	}
	return Classify(&t, now)
}

// Label renders the classification for humans, in now's location:
// "Overdue (Jan 2)", "Due today at 3:04 PM" or "Due Jan 2". No date gives "".
func Label(at *time.Time, now time.Time) string {
	status := Classify(at, now)
	if status == NoDate {
		return ""
	}
	local := at.In(now.Location())
	if status == Overdue {
		return "Overdue (" + local.Format("Jan 2") + ")"
	}
	if sameDay(local, now) {
		return "Due today at " + local.Format("3:04 PM")
	}
	return "Due " + local.Format("Jan 2")
}

// LabelRaw is Label for unparsed input.
func LabelRaw(raw string, now time.Time) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	t, ok := ParseTimestamp(raw, now.Location())
	if !ok {
		return "Invalid date"
	}
	return Label(&t, now)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
