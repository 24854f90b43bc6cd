package media

import (
	"context"

	"github.com/dmitrijs2005/mooddiary/internal/server/models"
)

type Repository interface {
	// Create links a blob locator to an entry and returns the new row id.
	// The entry must belong to userID.
	Create(ctx context.Context, userID, entryID, locator, kind string) (string, error)
	ListByEntry(ctx context.Context, userID, entryID string) ([]models.Media, error)
	// Delete removes the row, scoped to userID through the owning entry,
	// and returns the owning entry id.
	Delete(ctx context.Context, userID, mediaID string) (string, error)
	// ListMemories returns every image attachment joined with its entry,
	// newest entries first.
	ListMemories(ctx context.Context, userID string) ([]models.Memory, error)
}
