package entries

import (
	"context"

	"github.com/dmitrijs2005/mooddiary/internal/server/models"
)

type Repository interface {
	// Upsert inserts or overwrites the entry for (userID, date) and
	// returns the row id.
	Upsert(ctx context.Context, userID, date, text, mood string) (string, error)
	GetByDate(ctx context.Context, userID, date string) (*models.Entry, error)
	ListRange(ctx context.Context, userID, from, to string) ([]models.EntrySummary, error)
	GetByID(ctx context.Context, userID, entryID string) (*models.Entry, error)
	// Touch bumps updated_at for the entry, marking attachment changes.
	Touch(ctx context.Context, userID, entryID string) error
}
