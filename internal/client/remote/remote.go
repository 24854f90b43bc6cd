// Package remote defines the contract the diary core needs from the remote
// persistence service, plus an HTTP implementation of it. The backing
// technology (rows, object storage, credentials) is the collaborator's
// concern; the core only sees this interface.
package remote

import (
	"context"
	"time"
)

// EntryRecord is the persisted form of one day's entry.
type EntryRecord struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Text      string    `json:"text"`
	Mood      string    `json:"mood"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntrySummary is the (date, mood) projection used for the month index.
type EntrySummary struct {
	Date string `json:"date"`
	Mood string `json:"mood"`
}

// CommittedMedia is a persisted attachment row.
type CommittedMedia struct {
	MediaID string `json:"id"`
	Kind    string `json:"kind"`
	Locator string `json:"locator"`
}

// Memory is one image attachment joined with its owning entry, for the
// memories slideshow.
type Memory struct {
	MediaID string `json:"id"`
	Locator string `json:"locator"`
	Date    string `json:"date"`
	Text    string `json:"text"`
	Mood    string `json:"mood"`
}

// Store is the remote persistence contract. Every method is a suspension
// point. Implementations scope all data to the authenticated owner; Owner
// returns the owner id, or "" when not authenticated.
type Store interface {
	Close() error

	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) error
	Logout()
	Owner() string
	Ping(ctx context.Context) error

	// UpsertEntry is idempotent by (owner, date): a second call for the
	// same date overwrites rather than duplicates.
	UpsertEntry(ctx context.Context, date, text, mood string) (string, error)

	// GetEntry returns common.ErrNotFound for a date with no record.
	GetEntry(ctx context.Context, date string) (*EntryRecord, error)

	// ListEntries returns (date, mood) summaries for the inclusive range.
	ListEntries(ctx context.Context, from, to string) ([]EntrySummary, error)

	ListMedia(ctx context.Context, entryID string) ([]CommittedMedia, error)

	// UploadBlob stores data under path in durable object storage and
	// returns its durable locator.
	UploadBlob(ctx context.Context, path string, data []byte, contentType string) (string, error)

	// LinkMedia creates the attachment row binding locator to entryID.
	LinkMedia(ctx context.Context, entryID, locator, kind string) (string, error)

	DeleteMedia(ctx context.Context, mediaID string) error

	ListMemories(ctx context.Context) ([]Memory, error)

	// GetSecret returns common.ErrNotFound while no PIN is configured.
	GetSecret(ctx context.Context) (string, error)
	SetSecret(ctx context.Context, pin string) error

	SetAvatar(ctx context.Context, locator string) error
}
