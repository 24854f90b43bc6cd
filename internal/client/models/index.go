package models

import "time"

// MonthIndex maps ISO day keys to mood labels for one (owner, year, month)
// triple. It is a read cache for calendar annotation only; it is rebuilt
// wholesale from the remote store and never patched optimistically.
type MonthIndex struct {
	Owner string
	Year  int
	Month time.Month
	Moods map[string]string
}

// Covers reports whether date falls inside the indexed month.
func (mi *MonthIndex) Covers(date time.Time) bool {
	if mi == nil {
		return false
	}
	return date.Year() == mi.Year && date.Month() == mi.Month
}

// MoodFor returns the mood label recorded for a day key.
func (mi *MonthIndex) MoodFor(dateKey string) (string, bool) {
	if mi == nil {
		return "", false
	}
	mood, ok := mi.Moods[dateKey]
	return mood, ok
}

// Bounds returns the inclusive first and last day of the indexed month.
func (mi *MonthIndex) Bounds() (time.Time, time.Time) {
	first := time.Date(mi.Year, mi.Month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last
}
