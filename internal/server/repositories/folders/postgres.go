// Package folders provides a PostgreSQL-backed repository for the folder
// tree. Parent references are plain ids; NULL parent means a root folder.
package folders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/i2clabs/fileserver/internal/common"
	"github.com/i2clabs/fileserver/internal/dbx"
	"github.com/i2clabs/fileserver/internal/server/models"
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

func (r *PostgresRepository) Create(ctx context.Context, folder *models.Folder) (*models.Folder, error) {
	query := `
		INSERT INTO folders (name, parent_id, owner_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, folder.Name, folder.ParentID, folder.OwnerID).
		Scan(&folder.ID, &folder.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return folder, nil
}

func (r *PostgresRepository) scanFolder(row *sql.Row) (*models.Folder, error) {
	folder := &models.Folder{}
	err := row.Scan(&folder.ID, &folder.Name, &folder.ParentID, &folder.OwnerID, &folder.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return folder, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Folder, error) {
	query := `SELECT id, name, parent_id, owner_id, created_at FROM folders WHERE id = $1`
	return r.scanFolder(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Folder, error) {
	query := `SELECT id, name, parent_id, owner_id, created_at FROM folders WHERE id = $1 FOR UPDATE`
	return r.scanFolder(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) ExistsName(ctx context.Context, ownerID int64, parentID *int64, name string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM folders
			WHERE owner_id = $1 AND parent_id IS NOT DISTINCT FROM $2 AND name = $3
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, ownerID, parentID, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) ListByParent(ctx context.Context, ownerID int64, parentID *int64) ([]*models.Folder, error) {
	query := `
		SELECT id, name, parent_id, owner_id, created_at
		FROM folders
		WHERE owner_id = $1 AND parent_id IS NOT DISTINCT FROM $2
		ORDER BY LOWER(name), name
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID, parentID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Folder
	for rows.Next() {
		folder := &models.Folder{}
		if err := rows.Scan(&folder.ID, &folder.Name, &folder.ParentID, &folder.OwnerID, &folder.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, folder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) SubtreeIDs(ctx context.Context, rootID int64) ([]int64, error) {
	query := `
		WITH RECURSIVE subtree AS (
			SELECT id FROM folders WHERE id = $1
			UNION ALL
			SELECT f.id FROM folders f JOIN subtree s ON f.parent_id = s.id
		)
		SELECT id FROM subtree
	`
	rows, err := r.db.QueryContext(ctx, query, rootID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ids, nil
}

func (r *PostgresRepository) HasChildFolders(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM folders WHERE parent_id = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) UpdateParent(ctx context.Context, id int64, parentID *int64) error {
	query := `UPDATE folders SET parent_id = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, parentID)
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

func (r *PostgresRepository) Rename(ctx context.Context, id int64, name string) error {
	query := `UPDATE folders SET name = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, name)
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

func (r *PostgresRepository) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	// A single statement deletes in any order; the self-referencing FK is
	// satisfied because the whole set goes at once.
	query := `DELETE FROM folders WHERE id = ANY($1::bigint[])`
	if _, err := r.db.ExecContext(ctx, query, Int64Array(ids)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Int64Array renders ids as a Postgres array literal ("{1,2,3}") so it can
// be bound as a single parameter and cast to bigint[].
func Int64Array(ids []int64) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(id, 10))
	}
	b.WriteByte('}')
	return b.String()
}
