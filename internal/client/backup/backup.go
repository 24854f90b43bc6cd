// Package backup produces cloud backups: a JSON snapshot of every entry and
// its media locators, uploaded to the owner's backups folder in blob
// storage. Payload bytes are not duplicated; committed media is referenced
// by locator.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/mooddiary/internal/client/remote"
	"github.com/dmitrijs2005/mooddiary/internal/common"
)

type SnapshotMedia struct {
	Kind    string `json:"kind"`
	Locator string `json:"locator"`
}

type SnapshotEntry struct {
	Date  string          `json:"date"`
	Text  string          `json:"text"`
	Mood  string          `json:"mood"`
	Media []SnapshotMedia `json:"media,omitempty"`
}

type Snapshot struct {
	Owner   string          `json:"owner"`
	TakenAt time.Time       `json:"taken_at"`
	Entries []SnapshotEntry `json:"entries"`
}

// Service builds and uploads snapshots.
type Service struct {
	store remote.Store
	now   func() time.Time
}

func NewService(store remote.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// allTime is the inclusive range covering every possible entry date.
var allTimeFrom, allTimeTo = "0001-01-01", "9999-12-31"

// Run collects all entries with their media locators, uploads the snapshot
// and returns its durable locator.
func (s *Service) Run(ctx context.Context) (string, error) {
	owner := s.store.Owner()
	if owner == "" {
		return "", common.ErrNotAuthenticated
	}

	summaries, err := s.store.ListEntries(ctx, allTimeFrom, allTimeTo)
	if err != nil {
		return "", fmt.Errorf("listing entries: %w", err)
	}

	snap := Snapshot{Owner: owner, TakenAt: s.now().UTC()}
	for _, sum := range summaries {
		rec, err := s.store.GetEntry(ctx, sum.Date)
		if err != nil {
			return "", fmt.Errorf("reading entry %s: %w", sum.Date, err)
		}
		entry := SnapshotEntry{Date: rec.Date, Text: rec.Text, Mood: rec.Mood}

		media, err := s.store.ListMedia(ctx, rec.ID)
		if err != nil {
			return "", fmt.Errorf("reading media for %s: %w", sum.Date, err)
		}
		for _, m := range media {
			entry.Media = append(entry.Media, SnapshotMedia{Kind: m.Kind, Locator: m.Locator})
		}
		snap.Entries = append(snap.Entries, entry)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}

	path := fmt.Sprintf("%s/backups/backup-%d.json", owner, s.now().UnixMilli())
	locator, err := s.store.UploadBlob(ctx, path, data, "application/json")
	if err != nil {
		return "", fmt.Errorf("uploading snapshot: %w", err)
	}
	return locator, nil
}
