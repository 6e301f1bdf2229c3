//go:build !unix

package storage

import (
	"context"
	"errors"
)

func (s *LocalStore) Usage(ctx context.Context) (DiskUsage, error) {
	return DiskUsage{}, errors.ErrUnsupported
}
