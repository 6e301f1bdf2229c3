// Package storage abstracts the backend holding file bytes. The database
// only ever sees opaque storage keys; backends never interpret them beyond
// using them as locations.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// Store is the contract for blob backends.
type Store interface {
	// Put writes the blob under key and returns the number of bytes stored.
	Put(ctx context.Context, key string, r io.Reader) (int64, error)

	// Get opens the blob for reading. The caller must close the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the blob. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// DiskUsage describes the capacity of the volume backing a store.
type DiskUsage struct {
	TotalBytes uint64
	UsedBytes  uint64
	FreeBytes  uint64
}

// UsageReporter is implemented by stores that can report the capacity of
// their backing volume.
type UsageReporter interface {
	Usage(ctx context.Context) (DiskUsage, error)
}

// NewStorageKey produces a fresh, never-reused key for an owner's blob.
// Keys embed a UUID so a deleted file's location is never handed to a later
// upload, which keeps stale cached share links from exposing new content.
func NewStorageKey(ownerID int64) string {
	d := time.Now()
	return fmt.Sprintf("users/%d/%d/%02d/%v", ownerID, d.Year(), int(d.Month()), uuid.New())
}
