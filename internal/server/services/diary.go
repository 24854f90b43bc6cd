package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/mooddiary/internal/dbx"
	"github.com/dmitrijs2005/mooddiary/internal/server/models"
	"github.com/dmitrijs2005/mooddiary/internal/server/repositories/repomanager"
)

// DiaryService wraps entry, media and secret persistence for one
// authenticated user id per call. All repository queries are owner-scoped;
// a foreign entry or media id behaves like a missing one.
type DiaryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewDiaryService(db *sql.DB, m repomanager.RepositoryManager) *DiaryService {
	return &DiaryService{db: db, repomanager: m}
}

func (s *DiaryService) UpsertEntry(ctx context.Context, userID, date, text, mood string) (string, error) {
	return s.repomanager.Entries(s.db).Upsert(ctx, userID, date, text, mood)
}

func (s *DiaryService) GetEntryByDate(ctx context.Context, userID, date string) (*models.Entry, error) {
	return s.repomanager.Entries(s.db).GetByDate(ctx, userID, date)
}

func (s *DiaryService) ListEntries(ctx context.Context, userID, from, to string) ([]models.EntrySummary, error) {
	return s.repomanager.Entries(s.db).ListRange(ctx, userID, from, to)
}

func (s *DiaryService) ListMedia(ctx context.Context, userID, entryID string) ([]models.Media, error) {
	return s.repomanager.Media(s.db).ListByEntry(ctx, userID, entryID)
}

// LinkMedia creates the attachment row and bumps the owning entry's
// updated_at in one transaction, so an entry never reports stale freshness
// for a visible attachment.
func (s *DiaryService) LinkMedia(ctx context.Context, userID, entryID, locator, kind string) (string, error) {
	var id string
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if id, err = s.repomanager.Media(tx).Create(ctx, userID, entryID, locator, kind); err != nil {
			return err
		}
		return s.repomanager.Entries(tx).Touch(ctx, userID, entryID)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// DeleteMedia removes the attachment row and touches the owning entry in
// one transaction.
func (s *DiaryService) DeleteMedia(ctx context.Context, userID, mediaID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		entryID, err := s.repomanager.Media(tx).Delete(ctx, userID, mediaID)
		if err != nil {
			return err
		}
		return s.repomanager.Entries(tx).Touch(ctx, userID, entryID)
	})
}

func (s *DiaryService) ListMemories(ctx context.Context, userID string) ([]models.Memory, error) {
	return s.repomanager.Media(s.db).ListMemories(ctx, userID)
}

func (s *DiaryService) GetSecret(ctx context.Context, userID string) (string, error) {
	return s.repomanager.Secrets(s.db).Get(ctx, userID)
}

func (s *DiaryService) SetSecret(ctx context.Context, userID, pin string) error {
	return s.repomanager.Secrets(s.db).Set(ctx, userID, pin)
}

func (s *DiaryService) SetAvatar(ctx context.Context, userID, locator string) error {
	return s.repomanager.Users(s.db).SetAvatar(ctx, userID, locator)
}
