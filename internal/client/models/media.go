package models

import (
	"github.com/google/uuid"
)

// MediaKind classifies an attachment.
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindAudio MediaKind = "audio"
)

// Ext returns the storage filename suffix for the kind.
func (k MediaKind) Ext() string {
	if k == MediaKindAudio {
		return "audio.webm"
	}
	return "image.jpg"
}

// TempIDPrefix marks locally issued ids. Staged-ness is carried by the
// variant, never inferred from the id format.
const TempIDPrefix = "staged-"

// MediaItem is an attachment belonging to the open entry, in exactly one of
// two states: Staged (captured locally, payload in memory, nothing
// persisted) or Committed (uploaded and linked, durable locator known).
// Exactly one of the two pointers is non-nil.
type MediaItem struct {
	Kind      MediaKind
	Staged    *StagedMedia
	Committed *CommittedMedia
}

// StagedMedia holds the local working state of a not-yet-persisted item.
type StagedMedia struct {
	TempID   string
	Payload  []byte
	LocalRef string

	// Locator is set when the payload was uploaded but the link call
	// failed. The next save retries the link without re-uploading.
	Locator string
}

// CommittedMedia holds the durable state of a persisted item. The raw
// payload is discarded once committed; the locator suffices.
type CommittedMedia struct {
	MediaID string
	Locator string
}

// NewStaged creates a staged item with a locally generated temporary id.
// This is a pure local constructor; it never touches the remote store.
func NewStaged(kind MediaKind, payload []byte, localRef string) MediaItem {
	return MediaItem{
		Kind: kind,
		Staged: &StagedMedia{
			TempID:   TempIDPrefix + uuid.NewString(),
			Payload:  payload,
			LocalRef: localRef,
		},
	}
}

// NewCommitted wraps an already persisted item.
func NewCommitted(kind MediaKind, mediaID, locator string) MediaItem {
	return MediaItem{
		Kind:      kind,
		Committed: &CommittedMedia{MediaID: mediaID, Locator: locator},
	}
}

// IsStaged reports whether the item still needs the commit protocol.
func (m MediaItem) IsStaged() bool {
	return m.Staged != nil
}

// ID returns the temporary id while staged and the remote-issued id once
// committed.
func (m MediaItem) ID() string {
	if m.Staged != nil {
		return m.Staged.TempID
	}
	return m.Committed.MediaID
}

// Ref returns the playable/displayable reference: the local transient ref
// while staged, the durable locator once committed.
func (m MediaItem) Ref() string {
	if m.Staged != nil {
		return m.Staged.LocalRef
	}
	return m.Committed.Locator
}
