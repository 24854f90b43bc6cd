package models

import "time"

// Media is an attachment row binding a blob-storage locator to an entry.
type Media struct {
	ID        string
	EntryID   string
	Kind      string
	Locator   string
	CreatedAt time.Time
}

// Memory is a media row joined with its owning entry, for the slideshow.
type Memory struct {
	MediaID string
	Locator string
	Date    string
	Text    string
	Mood    string
}
