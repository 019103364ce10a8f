package engine

import (
	"strings"

	"cloud.google.com/go/civil"
)

// MaxStreak caps the backward walk. Longer streaks report MaxStreak.
const MaxStreak = 365

// DateSet is a set of calendar dates.
type DateSet map[civil.Date]struct{}

// Has reports whether d is in the set.
func (s DateSet) Has(d civil.Date) bool {
	_, ok := s[d]
	return ok
}

// DateSetOf builds a set from stored YYYY-MM-DD strings. Entries that do not
// parse are skipped and counted in invalid.
func DateSetOf(days []string) (set DateSet, invalid int) {
	set = make(DateSet, len(days))
	for _, raw := range days {
		d, err := civil.ParseDate(strings.TrimSpace(raw))
		if err != nil || !d.IsValid() {
			invalid++
			continue
		}
		set[d] = struct{}{}
	}
	return set, invalid
}

// Streak counts consecutive dates present in dates, walking backward from
// ref and stopping at the first missing day.
func Streak(dates DateSet, ref civil.Date) int {
	count := 0
	day := ref
	for count < MaxStreak && dates.Has(day) {
		count++
		day = day.AddDays(-1)
	}
	return count
}
