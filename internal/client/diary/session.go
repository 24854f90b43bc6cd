// Package diary implements the client core: the entry record cache, the
// media staging store, the month index and the synchronization engine that
// commits local edits to the remote store.
package diary

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/mooddiary/internal/client/models"
	"github.com/dmitrijs2005/mooddiary/internal/client/remote"
	"github.com/dmitrijs2005/mooddiary/internal/common"
	"github.com/dmitrijs2005/mooddiary/internal/journal"
	"github.com/dmitrijs2005/mooddiary/internal/logging"
	"golang.org/x/sync/errgroup"
)

// uploadConcurrency bounds the fan-out of media uploads within one save.
const uploadConcurrency = 4

// Session owns the state of the currently open date: the entry record
// cache, the media staging store and the month index. At most one date is
// open per session; switching dates discards uncommitted staged state. The
// caller must not navigate or start a second Save while one is in flight.
type Session struct {
	store remote.Store
	log   logging.Logger
	now   func() time.Time

	date    time.Time
	entry   *models.Entry
	entryID string
	staging Staging
	index   *models.MonthIndex

	saving atomic.Bool
}

func NewSession(store remote.Store, log logging.Logger) *Session {
	// The entry cache starts as an unowned empty template so local edits
	// before the first successful Open cannot crash; they are discarded by
	// the next Open, and Save refuses to run until a date is open.
	return &Session{
		store: store,
		log:   log,
		now:   time.Now,
		entry: models.EmptyEntry("", time.Time{}),
	}
}

// Date returns the currently open date.
func (s *Session) Date() time.Time { return s.date }

// Entry returns a copy of the cached entry record.
func (s *Session) Entry() models.Entry { return *s.entry }

// Media returns the working media set for the open entry.
func (s *Session) Media() []models.MediaItem { return s.staging.Items() }

// Index returns the current month index, which may cover a different month
// than the open date if the calendar was navigated independently.
func (s *Session) Index() *models.MonthIndex { return s.index }

// Open loads the entry for date, or the empty template if none was ever
// saved — absence is a normal case, not an error. Staged media belonging to
// the previously open date is discarded. The month index is refreshed when
// the displayed month changes.
func (s *Session) Open(ctx context.Context, date time.Time) error {
	owner := s.store.Owner()
	if owner == "" {
		return common.ErrNotAuthenticated
	}

	date = models.Day(date)

	if err := s.load(ctx, owner, date); err != nil {
		return err
	}
	s.date = date

	if !s.index.Covers(date) {
		if err := s.LoadMonthIndex(ctx, date.Year(), date.Month()); err != nil {
			return err
		}
	}
	return nil
}

// load replaces the entry cache and the committed media set for date.
// Staged items are dropped; keepStaged collected by the caller survive via
// reloadAfterSave.
func (s *Session) load(ctx context.Context, owner string, date time.Time) error {
	rec, err := s.store.GetEntry(ctx, models.DateKey(date))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.entry = models.EmptyEntry(owner, date)
			s.entryID = ""
			s.staging.Reset(nil)
			return nil
		}
		return fmt.Errorf("loading entry: %w", err)
	}

	s.entry = &models.Entry{
		Owner:     owner,
		Date:      date,
		Text:      rec.Text,
		Mood:      journal.NormalizeMood(rec.Mood),
		UpdatedAt: rec.UpdatedAt,
	}
	s.entryID = rec.ID

	media, err := s.store.ListMedia(ctx, rec.ID)
	if err != nil {
		return fmt.Errorf("loading media: %w", err)
	}
	committed := make([]models.MediaItem, 0, len(media))
	for _, m := range media {
		committed = append(committed, models.NewCommitted(models.MediaKind(m.Kind), m.MediaID, m.Locator))
	}
	s.staging.Reset(committed)
	return nil
}

// LoadMonthIndex rebuilds the month index from the remote store. The index
// is never patched client-side; this wholesale rebuild is the only way it
// changes.
func (s *Session) LoadMonthIndex(ctx context.Context, year int, month time.Month) error {
	owner := s.store.Owner()
	if owner == "" {
		return common.ErrNotAuthenticated
	}

	idx := &models.MonthIndex{Owner: owner, Year: year, Month: month, Moods: map[string]string{}}
	first, last := idx.Bounds()

	summaries, err := s.store.ListEntries(ctx, models.DateKey(first), models.DateKey(last))
	if err != nil {
		return fmt.Errorf("loading month index: %w", err)
	}
	for _, sum := range summaries {
		idx.Moods[sum.Date] = journal.NormalizeMood(sum.Mood).Label
	}
	s.index = idx
	return nil
}

// SetText updates the entry text locally. Nothing is persisted until Save.
func (s *Session) SetText(text string) { s.entry.Text = text }

// SetMood updates the entry mood locally. Nothing is persisted until Save.
func (s *Session) SetMood(mood journal.Mood) { s.entry.Mood = mood }

// StagePhoto appends a captured photo to the staging store. Pure local
// append; the remote store is not touched.
func (s *Session) StagePhoto(payload []byte, localRef string) models.MediaItem {
	item := models.NewStaged(models.MediaKindImage, payload, localRef)
	s.staging.Append(item)
	return item
}

// StageRecording appends a finished voice recording to the staging store.
func (s *Session) StageRecording(payload []byte, localRef string) models.MediaItem {
	item := models.NewStaged(models.MediaKindAudio, payload, localRef)
	s.staging.Append(item)
	return item
}

// ItemResult is the per-item outcome of one save. ID is the item's
// temporary id; Err is nil when the item was committed, or wraps
// common.ErrUploadFailed / common.ErrLinkFailed otherwise.
type ItemResult struct {
	ID      string
	MediaID string
	Err     error
}

// SaveReport describes what one save accomplished. The entry text/mood are
// persisted whenever Save returns a report; individual media items may
// still have failed.
type SaveReport struct {
	EntryID string
	Items   []ItemResult
}

// Failed returns the results of items that remain staged.
func (r *SaveReport) Failed() []ItemResult {
	var out []ItemResult
	for _, it := range r.Items {
		if it.Err != nil {
			out = append(out, it)
		}
	}
	return out
}

// Save runs the commit protocol for the open entry:
//
//  1. Upsert the entry row keyed by (owner, date). On failure the save is
//     aborted with no side effects.
//  2. Upload each staged item's payload and link it to the entry id.
//     Items are independent: a failure leaves that item staged with its
//     payload intact and does not roll back siblings.
//  3. After all uploads settle, refresh the entry and the month index from
//     the remote store. The cache is never patched speculatively.
//
// The protocol is deliberately not atomic across media items; collapsing it
// into a transaction would discard successful uploads on an unrelated
// failure and change the retry semantics.
//
// A second Save while one is in flight returns common.ErrSaveInFlight; the
// caller is expected to disable the save trigger for the duration.
func (s *Session) Save(ctx context.Context) (*SaveReport, error) {
	owner := s.store.Owner()
	if owner == "" {
		return nil, common.ErrNotAuthenticated
	}
	if s.date.IsZero() {
		return nil, common.ErrEntryNotOpen
	}
	if !s.saving.CompareAndSwap(false, true) {
		return nil, common.ErrSaveInFlight
	}
	defer s.saving.Store(false)

	dateKey := models.DateKey(s.date)

	// Step 1: entry upsert. Conflict target is (owner, date) — a second
	// save overwrites rather than duplicates.
	entryID, err := s.store.UpsertEntry(ctx, dateKey, s.entry.Text, s.entry.Mood.Label)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpsertFailed, err)
	}
	s.entryID = entryID

	// Step 2: upload and link staged items concurrently. Results are
	// collected per item and applied only after every upload has settled.
	staged := make([]models.MediaItem, 0)
	for _, item := range s.staging.Items() {
		if item.IsStaged() {
			staged = append(staged, item)
		}
	}

	report := &SaveReport{EntryID: entryID, Items: make([]ItemResult, len(staged))}
	locators := make([]string, len(staged))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadConcurrency)
	for i, item := range staged {
		g.Go(func() error {
			report.Items[i], locators[i] = s.commitItem(gctx, owner, entryID, item)
			return nil
		})
	}
	_ = g.Wait()

	for i, item := range staged {
		res := report.Items[i]
		switch {
		case res.Err == nil:
			s.staging.Commit(item.Staged.TempID, models.NewCommitted(item.Kind, res.MediaID, locators[i]))
		case locators[i] != "":
			// Uploaded but not linked: keep the locator so the next save
			// retries the link without re-uploading.
			s.staging.SetLocator(item.Staged.TempID, locators[i])
		}
	}

	if failed := report.Failed(); len(failed) > 0 {
		s.log.Warn(ctx, "save completed with media failures",
			"date", dateKey, "failed", len(failed), "total", len(staged))
	}

	// Step 3: refresh from the remote store, carrying staged failures over.
	if err := s.reloadAfterSave(ctx, owner); err != nil {
		return report, err
	}
	if err := s.LoadMonthIndex(ctx, s.date.Year(), s.date.Month()); err != nil {
		return report, err
	}

	s.log.Info(ctx, "entry saved", "date", dateKey, "entry_id", entryID, "media", len(staged))
	return report, nil
}

// commitItem uploads one staged item and links it to the entry. The second
// return value is the durable locator when the upload succeeded, whether or
// not the link did.
func (s *Session) commitItem(ctx context.Context, owner, entryID string, item models.MediaItem) (ItemResult, string) {
	res := ItemResult{ID: item.Staged.TempID}

	locator := item.Staged.Locator
	if locator == "" {
		// Path is namespaced by (owner, entry, timestamp, kind) so writes
		// from concurrent devices cannot collide.
		path := fmt.Sprintf("%s/%s/%d-%s", owner, entryID, s.now().UnixNano(), item.Kind.Ext())
		loc, err := s.store.UploadBlob(ctx, path, item.Staged.Payload, contentType(item.Kind))
		if err != nil {
			res.Err = fmt.Errorf("%w: %v", common.ErrUploadFailed, err)
			return res, ""
		}
		locator = loc
	}

	mediaID, err := s.store.LinkMedia(ctx, entryID, locator, string(item.Kind))
	if err != nil {
		res.Err = fmt.Errorf("%w: %v", common.ErrLinkFailed, err)
		return res, locator
	}
	res.MediaID = mediaID
	return res, locator
}

func contentType(kind models.MediaKind) string {
	if kind == models.MediaKindAudio {
		return "audio/webm"
	}
	return "image/jpeg"
}

// reloadAfterSave refreshes the entry and committed media from the remote
// store while keeping items that are still staged (failed uploads or
// links) in the working set so the user can retry.
func (s *Session) reloadAfterSave(ctx context.Context, owner string) error {
	var keep []models.MediaItem
	for _, item := range s.staging.Items() {
		if item.IsStaged() {
			keep = append(keep, item)
		}
	}

	if err := s.load(ctx, owner, s.date); err != nil {
		return err
	}
	for _, item := range keep {
		s.staging.Append(item)
	}
	return nil
}

// DeleteMedia removes an attachment. A staged item vanishes locally with no
// network call. A committed item is deleted remotely first; local state
// changes only after that call succeeds, so a failed delete leaves the item
// visible for retry.
func (s *Session) DeleteMedia(ctx context.Context, id string) error {
	if s.store.Owner() == "" {
		return common.ErrNotAuthenticated
	}

	item, ok := s.staging.Get(id)
	if !ok {
		return common.ErrNotFound
	}

	if item.IsStaged() {
		s.staging.Remove(id)
		return nil
	}

	if err := s.store.DeleteMedia(ctx, item.Committed.MediaID); err != nil {
		return fmt.Errorf("%w: %v", common.ErrDeleteFailed, err)
	}
	s.staging.Remove(id)
	return nil
}
