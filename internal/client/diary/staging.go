package diary

import (
	"github.com/dmitrijs2005/mooddiary/internal/client/models"
)

// Staging holds the working set of media for the open entry: committed
// items loaded from the remote store and locally captured items that have
// not been uploaded yet. It is owned by the Session and never accessed
// concurrently (single active-edit model); the Save protocol applies all
// mutations after its uploads have settled.
type Staging struct {
	items []models.MediaItem
}

// Reset replaces the working set, discarding any staged items.
func (s *Staging) Reset(committed []models.MediaItem) {
	s.items = append([]models.MediaItem(nil), committed...)
}

// Append adds an item to the working set.
func (s *Staging) Append(item models.MediaItem) {
	s.items = append(s.items, item)
}

// Items returns a copy of the working set in insertion order.
func (s *Staging) Items() []models.MediaItem {
	return append([]models.MediaItem(nil), s.items...)
}

// Get returns the item with the given id (temporary or remote-issued).
func (s *Staging) Get(id string) (models.MediaItem, bool) {
	for _, item := range s.items {
		if item.ID() == id {
			return item, true
		}
	}
	return models.MediaItem{}, false
}

// Remove deletes the item with the given id from the working set.
func (s *Staging) Remove(id string) bool {
	for i, item := range s.items {
		if item.ID() == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Commit swaps a staged item for its committed form, releasing the payload.
func (s *Staging) Commit(tempID string, committed models.MediaItem) bool {
	for i, item := range s.items {
		if item.IsStaged() && item.Staged.TempID == tempID {
			s.items[i] = committed
			return true
		}
	}
	return false
}

// SetLocator records the durable locator on a staged item whose payload was
// uploaded but whose link call failed, so the next save retries the link
// without re-uploading.
func (s *Staging) SetLocator(tempID, locator string) bool {
	for i, item := range s.items {
		if item.IsStaged() && item.Staged.TempID == tempID {
			s.items[i].Staged.Locator = locator
			return true
		}
	}
	return false
}

// StagedCount reports how many items still need the commit protocol.
func (s *Staging) StagedCount() int {
	n := 0
	for _, item := range s.items {
		if item.IsStaged() {
			n++
		}
	}
	return n
}
