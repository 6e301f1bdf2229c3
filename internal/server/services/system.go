package services

import (
	"context"
	"fmt"

	"github.com/i2clabs/fileserver/internal/common"
	"github.com/i2clabs/fileserver/internal/logging"
	"github.com/i2clabs/fileserver/internal/storage"
)

// SystemService reports operational facts about the deployment, currently
// the capacity of the volume backing the blob store.
type SystemService struct {
	store  storage.Store
	logger logging.Logger
}

// NewSystemService constructs a SystemService.
func NewSystemService(store storage.Store, logger logging.Logger) *SystemService {
	return &SystemService{
		store:  store,
		logger: logger.With("module", "system"),
	}
}

// StorageUsage returns disk usage of the store's backing volume. Backends
// without a local volume to measure report ErrStoreUnavailable.
func (s *SystemService) StorageUsage(ctx context.Context) (storage.DiskUsage, error) {
	reporter, ok := s.store.(storage.UsageReporter)
	if !ok {
		return storage.DiskUsage{}, fmt.Errorf("%w: backend reports no capacity", common.ErrStoreUnavailable)
	}

	usage, err := reporter.Usage(ctx)
	if err != nil {
		return storage.DiskUsage{}, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	return usage, nil
}
