// Package memories builds the slideshow feed: every committed photo joined
// with its owning entry's date, text and mood, newest first.
package memories

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/mooddiary/internal/client/remote"
	"github.com/dmitrijs2005/mooddiary/internal/common"
	"github.com/dmitrijs2005/mooddiary/internal/journal"
)

// Item is one slide.
type Item struct {
	MediaID string
	Locator string
	Date    string
	Text    string
	Mood    journal.Mood
}

// Feed is a loaded slideshow with a wraparound cursor. An empty feed is a
// normal state, not an error.
type Feed struct {
	store  remote.Store
	items  []Item
	cursor int
}

func NewFeed(store remote.Store) *Feed {
	return &Feed{store: store}
}

// Load fetches the memories from the remote store and resets the cursor.
func (f *Feed) Load(ctx context.Context) error {
	if f.store.Owner() == "" {
		return common.ErrNotAuthenticated
	}

	rows, err := f.store.ListMemories(ctx)
	if err != nil {
		return fmt.Errorf("loading memories: %w", err)
	}

	items := make([]Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, Item{
			MediaID: r.MediaID,
			Locator: r.Locator,
			Date:    r.Date,
			Text:    r.Text,
			Mood:    journal.NormalizeMood(r.Mood),
		})
	}
	f.items = items
	f.cursor = 0
	return nil
}

func (f *Feed) Len() int { return len(f.items) }

// Current returns the slide under the cursor.
func (f *Feed) Current() (Item, bool) {
	if len(f.items) == 0 {
		return Item{}, false
	}
	return f.items[f.cursor], true
}

// Next advances the cursor, wrapping past the end.
func (f *Feed) Next() {
	if len(f.items) == 0 {
		return
	}
	f.cursor = (f.cursor + 1) % len(f.items)
}

// Prev moves the cursor back, wrapping past the start.
func (f *Feed) Prev() {
	if len(f.items) == 0 {
		return
	}
	f.cursor = (f.cursor - 1 + len(f.items)) % len(f.items)
}
