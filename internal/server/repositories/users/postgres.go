// Package users provides a PostgreSQL-backed repository for user accounts.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/i2clabs/fileserver/internal/common"
	"github.com/i2clabs/fileserver/internal/dbx"
	"github.com/i2clabs/fileserver/internal/server/models"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint breaks.
const uniqueViolation = "23505"

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (username, email, hashed_password, is_admin, privilege)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_active, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.HashedPassword, user.IsAdmin, user.Privilege).
		Scan(&user.ID, &user.IsActive, &user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

const userColumns = `id, username, email, hashed_password, is_admin, privilege, is_active, failed_attempts, locked_until, created_at`

func (r *PostgresRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.HashedPassword,
		&user.IsAdmin, &user.Privilege, &user.IsActive,
		&user.FailedAttempts, &user.LockedUntil, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, username))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY username`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.HashedPassword,
			&user.IsAdmin, &user.Privilege, &user.IsActive,
			&user.FailedAttempts, &user.LockedUntil, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return users, nil
}

func (r *PostgresRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET username = $2, email = $3, is_admin = $4, privilege = $5, is_active = $6
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.IsAdmin, user.Privilege, user.IsActive)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrAlreadyExists
		}
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

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
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

func (r *PostgresRepository) CountOwnedContent(ctx context.Context, userID int64) (int64, error) {
	query := `
		SELECT (SELECT COUNT(*) FROM folders WHERE owner_id = $1)
		     + (SELECT COUNT(*) FROM files WHERE owner_id = $1)
	`
	var n int64
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// RegisterFailedAttempt is a single atomic read-modify-write so that
// concurrent failed logins never under-count. The WHERE clause skips
// accounts already inside a lockout window.
func (r *PostgresRepository) RegisterFailedAttempt(ctx context.Context, userID int64, threshold int, lockedUntil time.Time) (int, *time.Time, error) {
	query := `
		UPDATE users
		SET failed_attempts = failed_attempts + 1,
		    locked_until = CASE WHEN failed_attempts + 1 >= $2 THEN $3 ELSE locked_until END
		WHERE id = $1 AND (locked_until IS NULL OR locked_until <= now())
		RETURNING failed_attempts, locked_until
	`
	var attempts int
	var until *time.Time
	err := r.db.QueryRowContext(ctx, query, userID, threshold, lockedUntil).Scan(&attempts, &until)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Row exists but is locked; nothing was incremented.
			return 0, nil, common.ErrAccountLocked
		}
		return 0, nil, fmt.Errorf("db error: %w", err)
	}
	return attempts, until, nil
}

func (r *PostgresRepository) ResetLockout(ctx context.Context, userID int64) error {
	query := `UPDATE users SET failed_attempts = 0, locked_until = NULL WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
