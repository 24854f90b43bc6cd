package secrets

import "context"

type Repository interface {
	// Get returns the user's PIN, or common.ErrNotFound when none is set.
	Get(ctx context.Context, userID string) (string, error)
	// Set stores or replaces the user's PIN.
	Set(ctx context.Context, userID, pin string) error
}
