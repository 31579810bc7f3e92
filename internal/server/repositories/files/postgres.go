package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/dbx"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

const columns = `id, user_id, name, type, parent_id, is_public, blob_ref, created_at`

// PostgresRepository implements file storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, file *models.File) (*models.File, error) {

	query :=
		`INSERT INTO files (id, user_id, name, type, parent_id, is_public, blob_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
		`

	var blobRef sql.NullString
	if file.BlobRef != "" {
		blobRef = sql.NullString{String: file.BlobRef, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		file.ID, file.UserID, file.Name, string(file.Type), file.ParentID, file.IsPublic, blobRef).Scan(&file.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return file, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	query := `SELECT ` + columns + ` FROM files
		WHERE id=$1
		`
	return scanFile(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByOwner(ctx context.Context, userID, id string) (*models.File, error) {
	query := `SELECT ` + columns + ` FROM files
		WHERE id=$1 AND user_id=$2
		`
	return scanFile(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *PostgresRepository) ListByParent(ctx context.Context, userID, parentID string, skip, limit int) ([]*models.File, error) {
	query := `SELECT ` + columns + ` FROM files
		WHERE user_id=$1 AND parent_id=$2
		ORDER BY seq
		OFFSET $3 LIMIT $4
		`
	rows, err := r.db.QueryContext(ctx, query, userID, parentID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	result := make([]*models.File, 0, limit)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PostgresRepository) SetPublic(ctx context.Context, userID, id string, value bool) (*models.File, error) {
	query := `UPDATE files SET is_public=$3
		WHERE id=$1 AND user_id=$2
		RETURNING ` + columns

	return scanFile(r.db.QueryRowContext(ctx, query, id, userID, value))
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM files`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFile(row scanner) (*models.File, error) {
	var (
		f       models.File
		kind    string
		blobRef sql.NullString
	)

	err := row.Scan(&f.ID, &f.UserID, &f.Name, &kind, &f.ParentID, &f.IsPublic, &blobRef, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	f.Type = models.FileType(kind)
	f.BlobRef = blobRef.String
	return &f, nil
}
