package files

import (
	"context"

	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

// Repository persists File nodes. Lookups that find nothing return
// common.ErrorNotFound. Owner-scoped methods treat a node of another user
// exactly like a missing one.
type Repository interface {
	Create(ctx context.Context, file *models.File) (*models.File, error)
	GetByID(ctx context.Context, id string) (*models.File, error)
	GetByOwner(ctx context.Context, userID, id string) (*models.File, error)
	// ListByParent returns at most limit direct children of parentID owned by
	// userID, skipping the first skip, in insertion order.
	ListByParent(ctx context.Context, userID, parentID string, skip, limit int) ([]*models.File, error)
	SetPublic(ctx context.Context, userID, id string, value bool) (*models.File, error)
	Count(ctx context.Context) (int64, error)
}
