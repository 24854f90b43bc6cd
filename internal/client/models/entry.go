// Package models defines the client-side diary types: the entry record, the
// staged/committed media variants and the month index cache.
package models

import (
	"time"

	"github.com/dmitrijs2005/mooddiary/internal/common"
	"github.com/dmitrijs2005/mooddiary/internal/journal"
)

// Entry is one calendar day's journal record for one owner. Date has day
// granularity; the time component is always midnight UTC.
type Entry struct {
	Owner     string
	Date      time.Time
	Text      string
	Mood      journal.Mood
	UpdatedAt time.Time
}

// EmptyEntry returns the blank template used when no record exists for a
// date: empty text, default mood. Absence of a saved entry is a normal
// case, not an error.
func EmptyEntry(owner string, date time.Time) *Entry {
	return &Entry{Owner: owner, Date: Day(date), Mood: journal.Default()}
}

// Day truncates t to day granularity in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateKey formats t as the canonical ISO day key.
func DateKey(t time.Time) string {
	return t.Format(common.DateLayout)
}

// ParseDateKey parses a canonical ISO day key.
func ParseDateKey(s string) (time.Time, error) {
	return time.Parse(common.DateLayout, s)
}
