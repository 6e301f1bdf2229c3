package folders

import (
	"context"

	"github.com/i2clabs/fileserver/internal/server/models"
)

// Repository persists the folder forest.
type Repository interface {
	Create(ctx context.Context, folder *models.Folder) (*models.Folder, error)
	GetByID(ctx context.Context, id int64) (*models.Folder, error)

	// GetByIDForUpdate fetches the folder row with a FOR UPDATE lock. Only
	// meaningful inside a transaction; used to serialize concurrent moves.
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Folder, error)

	// ExistsName reports whether the owner already has a sibling with this
	// name under parentID (nil parentID means the owner's root).
	ExistsName(ctx context.Context, ownerID int64, parentID *int64, name string) (bool, error)

	// ListByParent returns the immediate child folders ordered
	// case-insensitively by name.
	ListByParent(ctx context.Context, ownerID int64, parentID *int64) ([]*models.Folder, error)

	// SubtreeIDs returns the ids of the folder and all its descendants.
	SubtreeIDs(ctx context.Context, rootID int64) ([]int64, error)

	HasChildFolders(ctx context.Context, id int64) (bool, error)
	UpdateParent(ctx context.Context, id int64, parentID *int64) error
	Rename(ctx context.Context, id int64, name string) error
	DeleteByIDs(ctx context.Context, ids []int64) error
}
