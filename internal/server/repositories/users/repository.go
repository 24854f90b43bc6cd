package users

import (
	"context"

	"github.com/dmitrijs2005/mooddiary/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	SetAvatar(ctx context.Context, userID, locator string) error
}
