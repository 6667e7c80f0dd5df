package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mkravets/filehub/internal/common"
	"github.com/mkravets/filehub/internal/dbx"
	"github.com/mkravets/filehub/internal/models"
)

// PostgresRepository implements file metadata storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new file record and returns it with the assigned id.
func (r *PostgresRepository) Create(ctx context.Context, file *models.File) (*models.File, error) {
	query :=
		`INSERT INTO files (user_id, name, type, is_public, parent_id, storage_key)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		file.UserID, file.Name, string(file.Type), file.IsPublic,
		nullable(file.ParentID), nullable(file.StorageKey)).
		Scan(&file.ID, &file.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return file, nil
}

// GetByID returns the file with the given id, or common.ErrNotFound.
// Ids that are not valid UUIDs cannot match any row and map to the same error.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	if !validUUID(id) {
		return nil, common.ErrNotFound
	}

	query :=
		`SELECT id, user_id, name, type, is_public, parent_id, storage_key, created_at
		 FROM files
		 WHERE id = $1
		 `

	file, err := scanFile(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return file, nil
}

// ListByParent returns one page of the caller's files under the given parent,
// ordered by (created_at, id).
func (r *PostgresRepository) ListByParent(ctx context.Context, userID, parentID string, page, pageSize int) ([]*models.File, error) {
	query :=
		`SELECT id, user_id, name, type, is_public, parent_id, storage_key, created_at
		 FROM files
		 WHERE user_id = $1 AND parent_id IS NOT DISTINCT FROM $2
		 ORDER BY created_at, id
		 LIMIT $3 OFFSET $4
		 `

	rows, err := r.db.QueryContext(ctx, query,
		userID, nullable(parentID), pageSize, page*pageSize)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.File
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// SetVisibility updates the public flag and returns the updated record,
// or common.ErrNotFound if the file is absent.
func (r *PostgresRepository) SetVisibility(ctx context.Context, id string, public bool) (*models.File, error) {
	if !validUUID(id) {
		return nil, common.ErrNotFound
	}

	query :=
		`UPDATE files SET is_public = $2
		 WHERE id = $1
		 RETURNING id, user_id, name, type, is_public, parent_id, storage_key, created_at
		 `

	file, err := scanFile(r.db.QueryRowContext(ctx, query, id, public))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return file, nil
}

// Count returns the total number of file records.
func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM files`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanFile(s scanner) (*models.File, error) {
	var (
		file       models.File
		fileType   string
		parentID   sql.NullString
		storageKey sql.NullString
	)
	if err := s.Scan(&file.ID, &file.UserID, &file.Name, &fileType,
		&file.IsPublic, &parentID, &storageKey, &file.CreatedAt); err != nil {
		return nil, err
	}
	file.Type = models.FileType(fileType)
	file.ParentID = parentID.String
	file.StorageKey = storageKey.String
	return &file, nil
}

// nullable maps the empty string to NULL; the root parent and folder storage
// keys are stored as NULL rather than empty strings.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func validUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
