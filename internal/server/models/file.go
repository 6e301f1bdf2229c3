package models

import "time"

// File describes metadata for a stored blob. The bytes themselves live in
// the storage backend under StorageKey; the row never embeds content.
//
// Share invariant: IsPublic is true exactly when ShareToken is set and
// ShareExpiry is either nil (non-expiring share) or in the future.
type File struct {
	ID          int64
	Filename    string
	StorageKey  string
	Mimetype    string
	Size        int64
	IsPublic    bool
	ShareToken  *string
	ShareExpiry *time.Time
	UploadedAt  time.Time
	FolderID    *int64
	OwnerID     int64
}

// ShareActive reports whether the file currently has a resolvable share.
func (f *File) ShareActive(now time.Time) bool {
	if f.ShareToken == nil {
		return false
	}
	return f.ShareExpiry == nil || now.Before(*f.ShareExpiry)
}
