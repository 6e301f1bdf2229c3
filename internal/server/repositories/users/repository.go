package users

import (
	"context"
	"time"

	"github.com/i2clabs/fileserver/internal/server/models"
)

// Repository persists user accounts and their lockout state.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error

	// CountOwnedContent returns the number of folders plus files owned by
	// the user. A non-zero count forbids hard deletion.
	CountOwnedContent(ctx context.Context, userID int64) (int64, error)

	// RegisterFailedAttempt atomically increments the failure counter and,
	// when it reaches threshold, stamps locked_until = lockedUntil. Accounts
	// already inside a lockout window are left untouched. Returns the
	// post-increment counter and lockout timestamp.
	RegisterFailedAttempt(ctx context.Context, userID int64, threshold int, lockedUntil time.Time) (int, *time.Time, error)

	// ResetLockout clears the failure counter and lockout timestamp.
	ResetLockout(ctx context.Context, userID int64) error
}
