package httpapi

import (
	"path"
	"time"

	"github.com/i2clabs/fileserver/internal/server/models"
)

// tokenResponse is the login/registration payload.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
	Privilege string `json:"privilege"`
	IsActive  bool   `json:"is_active"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		Privilege: u.Privilege,
		IsActive:  u.IsActive,
	}
}

type folderInfo struct {
	FolderID   int64     `json:"folder_id"`
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Type       string    `json:"type"`
	OwnerID    int64     `json:"owner_id"`
	ModifiedAt time.Time `json:"modified_at"`
}

type fileInfo struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Type       string    `json:"type"`
	Size       int64     `json:"size"`
	MimeType   string    `json:"mime_type"`
	IsPublic   bool      `json:"is_public"`
	OwnerID    int64     `json:"owner_id"`
	ModifiedAt time.Time `json:"modified_at"`
}

func toFileInfo(f *models.File, dirPath string) fileInfo {
	return fileInfo{
		ID:         f.ID,
		Name:       f.Filename,
		Path:       path.Join(dirPath, f.Filename),
		Type:       "file",
		Size:       f.Size,
		MimeType:   f.Mimetype,
		IsPublic:   f.IsPublic,
		OwnerID:    f.OwnerID,
		ModifiedAt: f.UploadedAt,
	}
}

// sharedFileInfo is the payload for anonymous share resolution. It exposes
// only what a downloader needs; in particular no owner identity and no
// share bookkeeping.
type sharedFileInfo struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Size        int64      `json:"size"`
	MimeType    string     `json:"mime_type"`
	ModifiedAt  time.Time  `json:"modified_at"`
	ShareExpiry *time.Time `json:"share_expiry,omitempty"`
}

func toSharedFileInfo(f *models.File) sharedFileInfo {
	return sharedFileInfo{
		ID:          f.ID,
		Name:        f.Filename,
		Type:        "file",
		Size:        f.Size,
		MimeType:    f.Mimetype,
		ModifiedAt:  f.UploadedAt,
		ShareExpiry: f.ShareExpiry,
	}
}

// directoryListing mirrors models.DirectoryListing on the wire.
type directoryListing struct {
	Path           string       `json:"path"`
	Files          []fileInfo   `json:"files"`
	Folders        []folderInfo `json:"folders"`
	ParentFolderID *int64       `json:"parent_folder_id"`
	TotalFiles     int          `json:"total_files"`
	TotalSize      int64        `json:"total_size"`
}

func toDirectoryListing(l *models.DirectoryListing) directoryListing {
	out := directoryListing{
		Path:           l.Path,
		Files:          make([]fileInfo, 0, len(l.Files)),
		Folders:        make([]folderInfo, 0, len(l.Folders)),
		ParentFolderID: l.ParentFolderID,
		TotalFiles:     l.TotalFiles,
		TotalSize:      l.TotalSize,
	}
	for _, f := range l.Files {
		out.Files = append(out.Files, toFileInfo(f, l.Path))
	}
	for _, f := range l.Folders {
		out.Folders = append(out.Folders, folderInfo{
			FolderID:   f.ID,
			Name:       f.Name,
			Path:       path.Join(l.Path, f.Name),
			Type:       "folder",
			OwnerID:    f.OwnerID,
			ModifiedAt: f.CreatedAt,
		})
	}
	return out
}
