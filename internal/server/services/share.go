package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/i2clabs/fileserver/internal/common"
	"github.com/i2clabs/fileserver/internal/logging"
	"github.com/i2clabs/fileserver/internal/server/access"
	"github.com/i2clabs/fileserver/internal/server/models"
	"github.com/i2clabs/fileserver/internal/server/repositories/repomanager"
	"github.com/i2clabs/fileserver/internal/storage"
)

// shareTokenBytes is the entropy of a share token; the hex token itself is
// twice as long.
const shareTokenBytes = 32

// ShareService manages public share tokens on files. A file holds at most
// one live token; issuing a new one atomically invalidates its predecessor.
type ShareService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.Store
	logger      logging.Logger
	now         func() time.Time
}

// NewShareService constructs a ShareService.
func NewShareService(db *sql.DB, m repomanager.RepositoryManager, store storage.Store, logger logging.Logger) *ShareService {
	return &ShareService{
		db:          db,
		repomanager: m,
		store:       store,
		logger:      logger.With("module", "share"),
		now:         time.Now,
	}
}

// CreateShare issues a fresh share token for a file. A non-nil validity sets
// expiry that far in the future; a nil validity creates a non-expiring share
// and requires confirmNoExpiry, so the dangerous case is always deliberate.
// Any previously live token on the file stops resolving the moment the new
// one is installed.
func (s *ShareService) CreateShare(ctx context.Context, p *models.Principal, fileID int64, validity *time.Duration, confirmNoExpiry bool) (*models.File, error) {
	if validity == nil && !confirmNoExpiry {
		return nil, fmt.Errorf("%w: non-expiring share requires confirmation", common.ErrInvalidArgument)
	}
	if validity != nil && *validity <= 0 {
		return nil, fmt.Errorf("%w: share validity must be positive", common.ErrInvalidArgument)
	}

	file, err := s.repomanager.Files(s.db).GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if !access.CanAccess(p, file.OwnerID, access.ActionShare) {
		return nil, common.ErrNotOwned
	}

	token, err := common.MakeRandHexString(shareTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: generating share token", common.ErrInternal)
	}

	var expiry *time.Time
	if validity != nil {
		t := s.now().Add(*validity)
		expiry = &t
	}

	if err := s.repomanager.Files(s.db).SetShare(ctx, fileID, token, expiry); err != nil {
		return nil, err
	}

	file.IsPublic = true
	file.ShareToken = &token
	file.ShareExpiry = expiry

	s.logger.Info(ctx, "share created", "file_id", fileID, "expiring", expiry != nil)
	return file, nil
}

// RevokeShare removes a file's live share token. Revoking a file with no
// active share returns ErrNoActiveShare.
func (s *ShareService) RevokeShare(ctx context.Context, p *models.Principal, fileID int64) error {
	file, err := s.repomanager.Files(s.db).GetByID(ctx, fileID)
	if err != nil {
		return err
	}
	if !access.CanAccess(p, file.OwnerID, access.ActionShare) {
		return common.ErrNotOwned
	}

	cleared, err := s.repomanager.Files(s.db).ClearShare(ctx, fileID)
	if err != nil {
		return err
	}
	if !cleared {
		return common.ErrNoActiveShare
	}

	s.logger.Info(ctx, "share revoked", "file_id", fileID)
	return nil
}

// ResolveShare resolves a public token to its file without any
// authentication. Unknown, revoked, and expired tokens are indistinguishable
// to the caller: all return ErrShareNotFound.
func (s *ShareService) ResolveShare(ctx context.Context, token string) (*models.File, error) {
	if token == "" {
		return nil, common.ErrShareNotFound
	}

	file, err := s.repomanager.Files(s.db).GetByShareToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrShareNotFound
		}
		return nil, err
	}

	// The lookup is by indexed equality; the extra constant-time compare
	// guards against a backend matching tokens case-insensitively or with
	// trailing-space tolerance.
	if file.ShareToken == nil || subtle.ConstantTimeCompare([]byte(*file.ShareToken), []byte(token)) != 1 {
		return nil, common.ErrShareNotFound
	}
	if !file.ShareActive(s.now()) {
		return nil, common.ErrShareNotFound
	}

	return file, nil
}

// OpenShared resolves a token and opens the underlying blob for download.
// The caller must close the reader.
func (s *ShareService) OpenShared(ctx context.Context, token string) (*models.File, io.ReadCloser, error) {
	file, err := s.ResolveShare(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.store.Get(ctx, file.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	return file, rc, nil
}
