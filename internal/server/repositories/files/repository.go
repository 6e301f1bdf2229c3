package files

import (
	"context"
	"time"

	"github.com/i2clabs/fileserver/internal/server/models"
)

// Repository persists file metadata. Blob bytes live in the storage backend
// and are addressed by storage key.
type Repository interface {
	Create(ctx context.Context, file *models.File) (*models.File, error)
	GetByID(ctx context.Context, id int64) (*models.File, error)

	// GetByShareToken fetches a file row by its share token, whether or not
	// the share has expired. Expiry policy is the caller's concern.
	GetByShareToken(ctx context.Context, token string) (*models.File, error)

	// ExistsName reports whether the owner already has a file with this
	// name in folderID (nil folderID means the owner's root).
	ExistsName(ctx context.Context, ownerID int64, folderID *int64, name string) (bool, error)

	// ListByFolder returns files in the folder ordered case-insensitively
	// by name.
	ListByFolder(ctx context.Context, ownerID int64, folderID *int64) ([]*models.File, error)

	HasFilesInFolders(ctx context.Context, folderIDs []int64) (bool, error)

	// StorageKeysInFolders returns the storage keys of every file placed in
	// the given folders, for blob cleanup after a recursive delete.
	StorageKeysInFolders(ctx context.Context, folderIDs []int64) ([]string, error)

	UpdateFolder(ctx context.Context, id int64, folderID *int64) error
	Rename(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
	DeleteByFolderIDs(ctx context.Context, folderIDs []int64) error

	// SetShare atomically installs a share token, invalidating any previous
	// one, and flips is_public on.
	SetShare(ctx context.Context, fileID int64, token string, expiry *time.Time) error

	// ClearShare removes the share token and flips is_public off. Returns
	// false when the file had no active token.
	ClearShare(ctx context.Context, fileID int64) (bool, error)
}
