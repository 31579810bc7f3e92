package users

import (
	"context"

	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

// Repository persists User records. Implementations return
// common.ErrorNotFound for missing users and common.ErrAlreadyExists when
// the email unique constraint rejects an insert.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Count(ctx context.Context) (int64, error)
}
