package repomanager

import (
	"context"

	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/files"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/users"
)

// RepositoryManager owns a metadata store connection and vends the
// repositories bound to it.
type RepositoryManager interface {
	Users() users.Repository
	Files() files.Repository
	// RunMigrations brings the schema (tables, indexes) up to date.
	RunMigrations(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
