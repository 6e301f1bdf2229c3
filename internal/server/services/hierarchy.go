package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sethvargo/go-retry"

	"github.com/i2clabs/fileserver/internal/common"
	"github.com/i2clabs/fileserver/internal/dbx"
	"github.com/i2clabs/fileserver/internal/logging"
	"github.com/i2clabs/fileserver/internal/server/access"
	"github.com/i2clabs/fileserver/internal/server/models"
	"github.com/i2clabs/fileserver/internal/server/repositories/repomanager"
	"github.com/i2clabs/fileserver/internal/storage"
)

// maxTreeDepth bounds every ancestor walk. Cycles are prevented by
// construction; hitting the bound means the tree is corrupt and the request
// is aborted rather than repaired.
const maxTreeDepth = 256

// maxNameSuffix bounds the duplicate-upload rename search (report.pdf ->
// report_1.pdf -> ...).
const maxNameSuffix = 1000

// Postgres SQLSTATEs treated as transient lock conflicts during a move.
const (
	serializationFailure = "40001"
	deadlockDetected     = "40P01"
)

// HierarchyService maintains the folder forest and file placement,
// enforcing ownership, sibling name uniqueness, and acyclicity.
type HierarchyService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.Store
	logger      logging.Logger
}

// NewHierarchyService constructs a HierarchyService.
func NewHierarchyService(db *sql.DB, m repomanager.RepositoryManager, store storage.Store, logger logging.Logger) *HierarchyService {
	return &HierarchyService{
		db:          db,
		repomanager: m,
		store:       store,
		logger:      logger.With("module", "hierarchy"),
	}
}

// requireFolderWrite loads a folder and checks the actor may mutate it.
func (s *HierarchyService) requireFolderWrite(ctx context.Context, db dbx.DBTX, p *models.Principal, folderID int64) (*models.Folder, error) {
	folder, err := s.repomanager.Folders(db).GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if !access.CanAccess(p, folder.OwnerID, access.ActionWrite) {
		return nil, common.ErrNotOwned
	}
	return folder, nil
}

// CreateFolder creates a folder under parentID (nil means the owner's
// root). The folder's owner always equals the parent's owner; name
// uniqueness is scoped to siblings.
func (s *HierarchyService) CreateFolder(ctx context.Context, p *models.Principal, parentID *int64, name string) (*models.Folder, error) {
	var created *models.Folder

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Folders(tx)

		if parentID != nil {
			parent, err := repo.GetByID(ctx, *parentID)
			if err != nil {
				return err
			}
			if parent.OwnerID != p.UserID {
				return common.ErrNotOwned
			}
		}

		exists, err := repo.ExistsName(ctx, p.UserID, parentID, name)
		if err != nil {
			return err
		}
		if exists {
			return common.ErrNameConflict
		}

		folder := &models.Folder{Name: name, ParentID: parentID, OwnerID: p.UserID}
		created, err = repo.Create(ctx, folder)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "folder created", "folder_id", created.ID, "owner_id", created.OwnerID)
	return created, nil
}

// MoveFolder re-parents a folder. The cycle check walks the destination's
// ancestor chain under row locks inside one transaction, so two concurrent
// moves that would jointly form a cycle serialize: one commits, the other
// re-walks the updated chain and fails with ErrWouldCreateCycle. Lock
// conflicts (deadlock between opposing walks) retry a bounded number of
// times before surfacing.
func (s *HierarchyService) MoveFolder(ctx context.Context, p *models.Principal, folderID int64, newParentID *int64) error {
	backoff := retry.WithMaxRetries(3, retry.NewFibonacci(25*time.Millisecond))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := s.moveFolderTx(ctx, p, folderID, newParentID)
		if isLockConflict(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (s *HierarchyService) moveFolderTx(ctx context.Context, p *models.Principal, folderID int64, newParentID *int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Folders(tx)

		folder, err := repo.GetByIDForUpdate(ctx, folderID)
		if err != nil {
			return err
		}
		if folder.OwnerID != p.UserID {
			return common.ErrNotOwned
		}
		if sameFolderID(folder.ParentID, newParentID) {
			return nil
		}

		if newParentID != nil {
			if *newParentID == folderID {
				return common.ErrWouldCreateCycle
			}

			// Walk the destination's ancestor chain to the root, locking
			// each row so a concurrent move of this subtree cannot slip a
			// new ancestor in behind the check.
			cursor := newParentID
			for depth := 0; cursor != nil; depth++ {
				if depth >= maxTreeDepth {
					return fmt.Errorf("%w: ancestor chain exceeds depth bound", common.ErrInternal)
				}
				ancestor, err := repo.GetByIDForUpdate(ctx, *cursor)
				if err != nil {
					return err
				}
				if ancestor.OwnerID != p.UserID {
					return common.ErrNotOwned
				}
				if ancestor.ID == folderID {
					return common.ErrWouldCreateCycle
				}
				cursor = ancestor.ParentID
			}
		}

		exists, err := repo.ExistsName(ctx, p.UserID, newParentID, folder.Name)
		if err != nil {
			return err
		}
		if exists {
			return common.ErrNameConflict
		}

		return repo.UpdateParent(ctx, folderID, newParentID)
	})
}

// sameFolderID treats two folder references as equal when both are nil
// (root) or both point at the same id.
func sameFolderID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func isLockConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == serializationFailure || pgErr.Code == deadlockDetected
	}
	return false
}

// RenameFolder renames a folder in place, keeping sibling uniqueness.
func (s *HierarchyService) RenameFolder(ctx context.Context, p *models.Principal, folderID int64, newName string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Folders(tx)

		folder, err := s.requireFolderWrite(ctx, tx, p, folderID)
		if err != nil {
			return err
		}
		if folder.Name == newName {
			return nil
		}

		exists, err := repo.ExistsName(ctx, folder.OwnerID, folder.ParentID, newName)
		if err != nil {
			return err
		}
		if exists {
			return common.ErrNameConflict
		}

		return repo.Rename(ctx, folderID, newName)
	})
}

// DeleteFolder removes a folder. DeleteRejectIfNonEmpty fails with
// ErrNonEmpty when the folder has any child folder or file;
// DeleteRecursive removes the whole subtree and its files in one
// transaction, then cleans up blobs after commit.
func (s *HierarchyService) DeleteFolder(ctx context.Context, p *models.Principal, folderID int64, mode models.DeleteMode) error {
	var blobKeys []string

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		folderRepo := s.repomanager.Folders(tx)
		fileRepo := s.repomanager.Files(tx)

		folder, err := folderRepo.GetByIDForUpdate(ctx, folderID)
		if err != nil {
			return err
		}
		if !access.CanAccess(p, folder.OwnerID, access.ActionDelete) {
			return common.ErrNotOwned
		}

		subtree, err := folderRepo.SubtreeIDs(ctx, folderID)
		if err != nil {
			return err
		}
		if len(subtree) > maxTreeDepth*maxTreeDepth {
			return fmt.Errorf("%w: subtree unexpectedly large", common.ErrInternal)
		}

		if mode == models.DeleteRejectIfNonEmpty {
			if len(subtree) > 1 {
				return common.ErrNonEmpty
			}
			hasFiles, err := fileRepo.HasFilesInFolders(ctx, subtree)
			if err != nil {
				return err
			}
			if hasFiles {
				return common.ErrNonEmpty
			}
		}

		blobKeys, err = fileRepo.StorageKeysInFolders(ctx, subtree)
		if err != nil {
			return err
		}
		if err := fileRepo.DeleteByFolderIDs(ctx, subtree); err != nil {
			return err
		}
		return folderRepo.DeleteByIDs(ctx, subtree)
	})
	if err != nil {
		return err
	}

	// Blob cleanup happens only after the metadata commit; an interrupted
	// request therefore never leaves rows pointing at deleted bytes.
	for _, key := range blobKeys {
		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.Warn(ctx, "orphan blob left behind", "storage_key", key, "error", err.Error())
		}
	}

	s.logger.Info(ctx, "folder deleted", "folder_id", folderID, "recursive", mode == models.DeleteRecursive)
	return nil
}

// ListChildren lists a folder's immediate children, folders before files,
// each ordered case-insensitively by name. A nil folderID lists the actor's
// root. Admins may list other users' folders read-only.
func (s *HierarchyService) ListChildren(ctx context.Context, p *models.Principal, folderID *int64) (*models.DirectoryListing, error) {
	ownerID := p.UserID
	var parentFolderID *int64
	var listingPath string

	if folderID != nil {
		folder, err := s.repomanager.Folders(s.db).GetByID(ctx, *folderID)
		if err != nil {
			return nil, err
		}
		if !access.CanAccess(p, folder.OwnerID, access.ActionRead) {
			return nil, common.ErrNotOwned
		}
		ownerID = folder.OwnerID
		parentFolderID = folder.ParentID

		listingPath, err = s.folderPath(ctx, folder)
		if err != nil {
			return nil, err
		}
	} else {
		listingPath = "/"
	}

	childFolders, err := s.repomanager.Folders(s.db).ListByParent(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}
	childFiles, err := s.repomanager.Files(s.db).ListByFolder(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}

	var totalSize int64
	for _, f := range childFiles {
		totalSize += f.Size
	}

	return &models.DirectoryListing{
		Path:           listingPath,
		ParentFolderID: parentFolderID,
		Folders:        childFolders,
		Files:          childFiles,
		TotalFiles:     len(childFiles),
		TotalSize:      totalSize,
	}, nil
}

// folderPath builds the logical path of a folder by walking its ancestor
// chain, at most maxTreeDepth steps.
func (s *HierarchyService) folderPath(ctx context.Context, folder *models.Folder) (string, error) {
	repo := s.repomanager.Folders(s.db)

	segments := []string{folder.Name}
	cursor := folder.ParentID
	for depth := 0; cursor != nil; depth++ {
		if depth >= maxTreeDepth {
			return "", fmt.Errorf("%w: ancestor chain exceeds depth bound", common.ErrInternal)
		}
		ancestor, err := repo.GetByID(ctx, *cursor)
		if err != nil {
			return "", err
		}
		segments = append([]string{ancestor.Name}, segments...)
		cursor = ancestor.ParentID
	}

	return "/" + path.Join(segments...), nil
}

// SaveFile stores an uploaded blob and its metadata. When the target folder
// already holds a file with the same name, the name gets a numeric suffix
// (report.pdf -> report_1.pdf) as the original service did.
func (s *HierarchyService) SaveFile(ctx context.Context, p *models.Principal, folderID *int64, filename, mimetype string, r io.Reader) (*models.File, error) {
	if folderID != nil {
		if _, err := s.requireFolderWrite(ctx, s.db, p, *folderID); err != nil {
			return nil, err
		}
	}

	fileRepo := s.repomanager.Files(s.db)

	finalName, err := s.dedupeFilename(ctx, p.UserID, folderID, filename)
	if err != nil {
		return nil, err
	}

	key := storage.NewStorageKey(p.UserID)
	size, err := s.store.Put(ctx, key, r)
	if err != nil {
		return nil, fmt.Errorf("saving blob: %w", err)
	}

	file := &models.File{
		Filename:   finalName,
		StorageKey: key,
		Mimetype:   mimetype,
		Size:       size,
		FolderID:   folderID,
		OwnerID:    p.UserID,
	}
	created, err := fileRepo.Create(ctx, file)
	if err != nil {
		// Roll the blob back so the storage layer does not accumulate
		// unreferenced objects.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Warn(ctx, "orphan blob left behind", "storage_key", key, "error", delErr.Error())
		}
		return nil, err
	}

	s.logger.Info(ctx, "file uploaded", "file_id", created.ID, "size", created.Size)
	return created, nil
}

func (s *HierarchyService) dedupeFilename(ctx context.Context, ownerID int64, folderID *int64, filename string) (string, error) {
	repo := s.repomanager.Files(s.db)

	exists, err := repo.ExistsName(ctx, ownerID, folderID, filename)
	if err != nil {
		return "", err
	}
	if !exists {
		return filename, nil
	}

	ext := path.Ext(filename)
	base := filename[:len(filename)-len(ext)]
	for i := 1; i <= maxNameSuffix; i++ {
		candidate := base + "_" + strconv.Itoa(i) + ext
		exists, err := repo.ExistsName(ctx, ownerID, folderID, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", common.ErrNameConflict
}

// requireFileWrite loads a file and checks the actor may mutate it.
func (s *HierarchyService) requireFileWrite(ctx context.Context, db dbx.DBTX, p *models.Principal, fileID int64) (*models.File, error) {
	file, err := s.repomanager.Files(db).GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if !access.CanAccess(p, file.OwnerID, access.ActionWrite) {
		return nil, common.ErrNotOwned
	}
	return file, nil
}

// MoveFile relocates a file into destFolderID (nil means the owner's root).
func (s *HierarchyService) MoveFile(ctx context.Context, p *models.Principal, fileID int64, destFolderID *int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		file, err := s.requireFileWrite(ctx, tx, p, fileID)
		if err != nil {
			return err
		}
		if sameFolderID(file.FolderID, destFolderID) {
			return nil
		}

		if destFolderID != nil {
			dest, err := s.repomanager.Folders(tx).GetByID(ctx, *destFolderID)
			if err != nil {
				return err
			}
			if dest.OwnerID != file.OwnerID {
				return common.ErrNotOwned
			}
		}

		exists, err := s.repomanager.Files(tx).ExistsName(ctx, file.OwnerID, destFolderID, file.Filename)
		if err != nil {
			return err
		}
		if exists {
			return common.ErrNameConflict
		}

		return s.repomanager.Files(tx).UpdateFolder(ctx, fileID, destFolderID)
	})
}

// RenameFile renames a file in place, keeping per-folder uniqueness.
func (s *HierarchyService) RenameFile(ctx context.Context, p *models.Principal, fileID int64, newName string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		file, err := s.requireFileWrite(ctx, tx, p, fileID)
		if err != nil {
			return err
		}
		if file.Filename == newName {
			return nil
		}

		exists, err := s.repomanager.Files(tx).ExistsName(ctx, file.OwnerID, file.FolderID, newName)
		if err != nil {
			return err
		}
		if exists {
			return common.ErrNameConflict
		}

		return s.repomanager.Files(tx).Rename(ctx, fileID, newName)
	})
}

// DeleteFile removes the metadata row, then the blob.
func (s *HierarchyService) DeleteFile(ctx context.Context, p *models.Principal, fileID int64) error {
	file, err := s.repomanager.Files(s.db).GetByID(ctx, fileID)
	if err != nil {
		return err
	}
	if !access.CanAccess(p, file.OwnerID, access.ActionDelete) {
		return common.ErrNotOwned
	}

	if err := s.repomanager.Files(s.db).Delete(ctx, fileID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, file.StorageKey); err != nil {
		s.logger.Warn(ctx, "orphan blob left behind", "storage_key", file.StorageKey, "error", err.Error())
	}

	s.logger.Info(ctx, "file deleted", "file_id", fileID)
	return nil
}

// GetFile returns a file's descriptor if the actor may read it.
func (s *HierarchyService) GetFile(ctx context.Context, p *models.Principal, fileID int64) (*models.File, error) {
	file, err := s.repomanager.Files(s.db).GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if !access.CanAccess(p, file.OwnerID, access.ActionRead) {
		return nil, common.ErrNotOwned
	}
	return file, nil
}

// OpenFile returns a file's descriptor together with its content stream.
// The caller must close the reader.
func (s *HierarchyService) OpenFile(ctx context.Context, p *models.Principal, fileID int64) (*models.File, io.ReadCloser, error) {
	file, err := s.GetFile(ctx, p, fileID)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.store.Get(ctx, file.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	return file, rc, nil
}

// CopyFile duplicates a file into destFolderID (nil means the owner's
// root). The copy gets a fresh blob, a "_copy" suffixed name when needed,
// and never inherits the source's public share state.
func (s *HierarchyService) CopyFile(ctx context.Context, p *models.Principal, fileID int64, destFolderID *int64) (*models.File, error) {
	file, err := s.requireFileWrite(ctx, s.db, p, fileID)
	if err != nil {
		return nil, err
	}

	if destFolderID != nil {
		dest, err := s.repomanager.Folders(s.db).GetByID(ctx, *destFolderID)
		if err != nil {
			return nil, err
		}
		if dest.OwnerID != file.OwnerID {
			return nil, common.ErrNotOwned
		}
	}

	name, err := s.copyFileName(ctx, s.db, file.OwnerID, destFolderID, file.Filename)
	if err != nil {
		return nil, err
	}

	src, err := s.store.Get(ctx, file.StorageKey)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	key := storage.NewStorageKey(file.OwnerID)
	size, err := s.store.Put(ctx, key, src)
	if err != nil {
		return nil, fmt.Errorf("copying blob: %w", err)
	}

	created, err := s.repomanager.Files(s.db).Create(ctx, &models.File{
		Filename:   name,
		StorageKey: key,
		Mimetype:   file.Mimetype,
		Size:       size,
		FolderID:   destFolderID,
		OwnerID:    file.OwnerID,
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Warn(ctx, "orphan blob left behind", "storage_key", key, "error", delErr.Error())
		}
		return nil, err
	}

	s.logger.Info(ctx, "file copied", "file_id", fileID, "copy_id", created.ID)
	return created, nil
}

// CopyFolder deep-copies a folder subtree into destParentID (nil means the
// owner's root). The top-level copy gets the "_copy" naming; descendants
// keep their names inside the fresh copy. Metadata rows are written in one
// transaction; copied blobs are removed again if it rolls back.
func (s *HierarchyService) CopyFolder(ctx context.Context, p *models.Principal, folderID int64, destParentID *int64) (*models.Folder, error) {
	var created *models.Folder
	var newKeys []string

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Folders(tx)

		src, err := repo.GetByID(ctx, folderID)
		if err != nil {
			return err
		}
		if src.OwnerID != p.UserID {
			return common.ErrNotOwned
		}

		if destParentID != nil {
			if *destParentID == folderID {
				return common.ErrWouldCreateCycle
			}
			dest, err := repo.GetByID(ctx, *destParentID)
			if err != nil {
				return err
			}
			if dest.OwnerID != p.UserID {
				return common.ErrNotOwned
			}

			// A destination inside the source subtree would make the copy
			// recurse into itself.
			cursor := dest.ParentID
			for depth := 0; cursor != nil; depth++ {
				if depth >= maxTreeDepth {
					return fmt.Errorf("%w: ancestor chain exceeds depth bound", common.ErrInternal)
				}
				if *cursor == folderID {
					return common.ErrWouldCreateCycle
				}
				ancestor, err := repo.GetByID(ctx, *cursor)
				if err != nil {
					return err
				}
				cursor = ancestor.ParentID
			}
		}

		created, err = s.copyFolderTree(ctx, tx, src, destParentID, &newKeys, 0)
		return err
	})
	if err != nil {
		for _, key := range newKeys {
			if delErr := s.store.Delete(ctx, key); delErr != nil {
				s.logger.Warn(ctx, "orphan blob left behind", "storage_key", key, "error", delErr.Error())
			}
		}
		return nil, err
	}

	s.logger.Info(ctx, "folder copied", "folder_id", folderID, "copy_id", created.ID)
	return created, nil
}

func (s *HierarchyService) copyFolderTree(ctx context.Context, tx dbx.DBTX, src *models.Folder, destParentID *int64, newKeys *[]string, depth int) (*models.Folder, error) {
	if depth >= maxTreeDepth {
		return nil, fmt.Errorf("%w: subtree exceeds depth bound", common.ErrInternal)
	}
	folderRepo := s.repomanager.Folders(tx)
	fileRepo := s.repomanager.Files(tx)

	name := src.Name
	if depth == 0 {
		var err error
		name, err = s.copyFolderName(ctx, tx, src.OwnerID, destParentID, src.Name)
		if err != nil {
			return nil, err
		}
	}
	created, err := folderRepo.Create(ctx, &models.Folder{Name: name, ParentID: destParentID, OwnerID: src.OwnerID})
	if err != nil {
		return nil, err
	}

	files, err := fileRepo.ListByFolder(ctx, src.OwnerID, &src.ID)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		rc, err := s.store.Get(ctx, f.StorageKey)
		if err != nil {
			return nil, err
		}
		key := storage.NewStorageKey(f.OwnerID)
		size, err := s.store.Put(ctx, key, rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("copying blob: %w", err)
		}
		*newKeys = append(*newKeys, key)

		if _, err := fileRepo.Create(ctx, &models.File{
			Filename:   f.Filename,
			StorageKey: key,
			Mimetype:   f.Mimetype,
			Size:       size,
			FolderID:   &created.ID,
			OwnerID:    f.OwnerID,
		}); err != nil {
			return nil, err
		}
	}

	children, err := folderRepo.ListByParent(ctx, src.OwnerID, &src.ID)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		if _, err := s.copyFolderTree(ctx, tx, child, &created.ID, newKeys, depth+1); err != nil {
			return nil, err
		}
	}
	return created, nil
}

// copyFileName applies the copy naming scheme: report.pdf ->
// report_copy.pdf, then report_copy_1.pdf and so on.
func (s *HierarchyService) copyFileName(ctx context.Context, db dbx.DBTX, ownerID int64, folderID *int64, filename string) (string, error) {
	repo := s.repomanager.Files(db)

	ext := path.Ext(filename)
	base := filename[:len(filename)-len(ext)]
	candidate := base + "_copy" + ext
	for i := 1; i <= maxNameSuffix; i++ {
		exists, err := repo.ExistsName(ctx, ownerID, folderID, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + "_copy_" + strconv.Itoa(i) + ext
	}
	return "", common.ErrNameConflict
}

func (s *HierarchyService) copyFolderName(ctx context.Context, db dbx.DBTX, ownerID int64, parentID *int64, name string) (string, error) {
	repo := s.repomanager.Folders(db)

	candidate := name + "_copy"
	for i := 1; i <= maxNameSuffix; i++ {
		exists, err := repo.ExistsName(ctx, ownerID, parentID, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = name + "_copy_" + strconv.Itoa(i)
	}
	return "", common.ErrNameConflict
}
