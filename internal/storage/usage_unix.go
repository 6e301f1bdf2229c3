//go:build unix

package storage

import (
	"context"
	"fmt"

	"golang.org/x/sys/unix"
)

// Usage reports the capacity of the filesystem holding the store root.
func (s *LocalStore) Usage(ctx context.Context) (DiskUsage, error) {
	if err := ctx.Err(); err != nil {
		return DiskUsage{}, err
	}

	var st unix.Statfs_t
	if err := unix.Statfs(s.root, &st); err != nil {
		return DiskUsage{}, fmt.Errorf("statfs %s: %w", s.root, err)
	}

	total := st.Blocks * uint64(st.Bsize)
	free := st.Bavail * uint64(st.Bsize)
	return DiskUsage{
		TotalBytes: total,
		UsedBytes:  total - free,
		FreeBytes:  free,
	}, nil
}
