package models

import "time"

// Entry is one diary day. Rows are unique per (UserID, Date); an upsert
// for an existing date overwrites text and mood in place.
type Entry struct {
	ID        string
	UserID    string
	Date      string
	Text      string
	Mood      string
	UpdatedAt time.Time
}

// EntrySummary is the (date, mood) projection used by calendar queries.
type EntrySummary struct {
	Date string
	Mood string
}
