// Package files provides a PostgreSQL-backed repository for file metadata.
package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/i2clabs/fileserver/internal/common"
	"github.com/i2clabs/fileserver/internal/dbx"
	"github.com/i2clabs/fileserver/internal/server/models"
	"github.com/i2clabs/fileserver/internal/server/repositories/folders"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const fileColumns = `id, filename, storage_key, mimetype, size, is_public, share_token, share_expiry, uploaded_at, folder_id, owner_id`

func (r *PostgresRepository) Create(ctx context.Context, file *models.File) (*models.File, error) {
	query := `
		INSERT INTO files (filename, storage_key, mimetype, size, folder_id, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, uploaded_at
	`
	err := r.db.QueryRowContext(ctx, query,
		file.Filename, file.StorageKey, file.Mimetype, file.Size, file.FolderID, file.OwnerID).
		Scan(&file.ID, &file.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return file, nil
}

func (r *PostgresRepository) scanFile(row *sql.Row) (*models.File, error) {
	file := &models.File{}
	err := row.Scan(&file.ID, &file.Filename, &file.StorageKey, &file.Mimetype, &file.Size,
		&file.IsPublic, &file.ShareToken, &file.ShareExpiry, &file.UploadedAt,
		&file.FolderID, &file.OwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return file, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1`
	return r.scanFile(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByShareToken(ctx context.Context, token string) (*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE share_token = $1`
	return r.scanFile(r.db.QueryRowContext(ctx, query, token))
}

func (r *PostgresRepository) ExistsName(ctx context.Context, ownerID int64, folderID *int64, name string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM files
			WHERE owner_id = $1 AND folder_id IS NOT DISTINCT FROM $2 AND filename = $3
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, ownerID, folderID, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) ListByFolder(ctx context.Context, ownerID int64, folderID *int64) ([]*models.File, error) {
	query := `
		SELECT ` + fileColumns + `
		FROM files
		WHERE owner_id = $1 AND folder_id IS NOT DISTINCT FROM $2
		ORDER BY LOWER(filename), filename
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID, folderID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.File
	for rows.Next() {
		file := &models.File{}
		if err := rows.Scan(&file.ID, &file.Filename, &file.StorageKey, &file.Mimetype, &file.Size,
			&file.IsPublic, &file.ShareToken, &file.ShareExpiry, &file.UploadedAt,
			&file.FolderID, &file.OwnerID); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) HasFilesInFolders(ctx context.Context, folderIDs []int64) (bool, error) {
	if len(folderIDs) == 0 {
		return false, nil
	}
	query := `SELECT EXISTS (SELECT 1 FROM files WHERE folder_id = ANY($1::bigint[]))`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, folders.Int64Array(folderIDs)).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) StorageKeysInFolders(ctx context.Context, folderIDs []int64) ([]string, error) {
	if len(folderIDs) == 0 {
		return nil, nil
	}
	query := `SELECT storage_key FROM files WHERE folder_id = ANY($1::bigint[])`
	rows, err := r.db.QueryContext(ctx, query, folders.Int64Array(folderIDs))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return keys, nil
}

func (r *PostgresRepository) UpdateFolder(ctx context.Context, id int64, folderID *int64) error {
	return r.execOne(ctx, `UPDATE files SET folder_id = $2 WHERE id = $1`, id, folderID)
}

func (r *PostgresRepository) Rename(ctx context.Context, id int64, name string) error {
	return r.execOne(ctx, `UPDATE files SET filename = $2 WHERE id = $1`, id, name)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return r.execOne(ctx, `DELETE FROM files WHERE id = $1`, id)
}

func (r *PostgresRepository) DeleteByFolderIDs(ctx context.Context, folderIDs []int64) error {
	if len(folderIDs) == 0 {
		return nil
	}
	query := `DELETE FROM files WHERE folder_id = ANY($1::bigint[])`
	if _, err := r.db.ExecContext(ctx, query, folders.Int64Array(folderIDs)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// SetShare overwrites any previous token in the same statement, so at most
// one token is ever live for a file.
func (r *PostgresRepository) SetShare(ctx context.Context, fileID int64, token string, expiry *time.Time) error {
	query := `
		UPDATE files
		SET share_token = $2, share_expiry = $3, is_public = TRUE
		WHERE id = $1
	`
	return r.execOne(ctx, query, fileID, token, expiry)
}

func (r *PostgresRepository) ClearShare(ctx context.Context, fileID int64) (bool, error) {
	query := `
		UPDATE files
		SET share_token = NULL, share_expiry = NULL, is_public = FALSE
		WHERE id = $1 AND share_token IS NOT NULL
	`
	res, err := r.db.ExecContext(ctx, query, fileID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
