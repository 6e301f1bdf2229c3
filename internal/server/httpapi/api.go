// Package httpapi exposes the file server over HTTP using gin. Handlers
// translate JSON/multipart requests into service calls and map sentinel
// errors to status codes; all business rules live in the services.
package httpapi

import (
	"context"
	"io"
	"time"

	"github.com/i2clabs/fileserver/internal/logging"
	"github.com/i2clabs/fileserver/internal/server/models"
	"github.com/i2clabs/fileserver/internal/server/services"
	"github.com/i2clabs/fileserver/internal/storage"
)

// AuthAPI is the slice of AuthService the handlers consume.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, username, email, password string, isAdmin bool, privilege string) (*models.User, error)
	IssueToken(user *models.User) (string, error)
	ValidateToken(tokenString string) (*models.Principal, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, id int64, upd services.UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// HierarchyAPI is the slice of HierarchyService the handlers consume.
type HierarchyAPI interface {
	CreateFolder(ctx context.Context, p *models.Principal, parentID *int64, name string) (*models.Folder, error)
	MoveFolder(ctx context.Context, p *models.Principal, folderID int64, newParentID *int64) error
	RenameFolder(ctx context.Context, p *models.Principal, folderID int64, newName string) error
	DeleteFolder(ctx context.Context, p *models.Principal, folderID int64, mode models.DeleteMode) error
	ListChildren(ctx context.Context, p *models.Principal, folderID *int64) (*models.DirectoryListing, error)
	SaveFile(ctx context.Context, p *models.Principal, folderID *int64, filename, mimetype string, r io.Reader) (*models.File, error)
	CopyFolder(ctx context.Context, p *models.Principal, folderID int64, destParentID *int64) (*models.Folder, error)
	MoveFile(ctx context.Context, p *models.Principal, fileID int64, destFolderID *int64) error
	CopyFile(ctx context.Context, p *models.Principal, fileID int64, destFolderID *int64) (*models.File, error)
	RenameFile(ctx context.Context, p *models.Principal, fileID int64, newName string) error
	DeleteFile(ctx context.Context, p *models.Principal, fileID int64) error
	GetFile(ctx context.Context, p *models.Principal, fileID int64) (*models.File, error)
	OpenFile(ctx context.Context, p *models.Principal, fileID int64) (*models.File, io.ReadCloser, error)
}

// ShareAPI is the slice of ShareService the handlers consume.
type ShareAPI interface {
	CreateShare(ctx context.Context, p *models.Principal, fileID int64, validity *time.Duration, confirmNoExpiry bool) (*models.File, error)
	RevokeShare(ctx context.Context, p *models.Principal, fileID int64) error
	ResolveShare(ctx context.Context, token string) (*models.File, error)
	OpenShared(ctx context.Context, token string) (*models.File, io.ReadCloser, error)
}

// SystemAPI is the slice of SystemService the handlers consume.
type SystemAPI interface {
	StorageUsage(ctx context.Context) (storage.DiskUsage, error)
}

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	auth      AuthAPI
	hierarchy HierarchyAPI
	share     ShareAPI
	system    SystemAPI
	logger    logging.Logger
}

// NewHandler constructs a Handler.
func NewHandler(auth AuthAPI, hierarchy HierarchyAPI, share ShareAPI, system SystemAPI, logger logging.Logger) *Handler {
	return &Handler{
		auth:      auth,
		hierarchy: hierarchy,
		share:     share,
		system:    system,
		logger:    logger.With("module", "httpapi"),
	}
}
