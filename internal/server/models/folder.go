package models

import "time"

// Folder is a node in a per-owner forest. ParentID == nil means the folder
// sits at the owner's root. CreatedAt is set once at creation.
type Folder struct {
	ID        int64
	Name      string
	ParentID  *int64
	OwnerID   int64
	CreatedAt time.Time
}

// IsRoot reports whether the folder has no parent.
func (f *Folder) IsRoot() bool {
	return f.ParentID == nil
}

// DeleteMode selects the policy for deleting a non-empty folder.
type DeleteMode int

const (
	// DeleteRejectIfNonEmpty refuses to delete a folder that still has
	// child folders or files.
	DeleteRejectIfNonEmpty DeleteMode = iota
	// DeleteRecursive removes the folder and its entire subtree atomically.
	DeleteRecursive
)

// DirectoryListing is the result of listing a folder's immediate children.
type DirectoryListing struct {
	Path           string
	ParentFolderID *int64
	Folders        []*Folder
	Files          []*File
	TotalFiles     int
	TotalSize      int64
}
