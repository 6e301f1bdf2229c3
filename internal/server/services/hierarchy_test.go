package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/i2clabs/fileserver/internal/common"
	"github.com/i2clabs/fileserver/internal/server/models"
)

func newHierarchyService(t *testing.T, rm *fakeRepoManager, store *fakeStore) (*HierarchyService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newSQLMockDB(t)
	t.Cleanup(func() { db.Close() })
	return NewHierarchyService(db, rm, store, testLogger()), mock
}

func owner(id int64) *models.Principal {
	return &models.Principal{UserID: id, Privilege: "user"}
}

func admin(id int64) *models.Principal {
	return &models.Principal{UserID: id, Privilege: "admin", IsAdmin: true}
}

// seedTree builds:
//
//	a (root)
//	└── b
//	    └── c
//
// owned by user 1 and returns the three folders.
func seedTree(rm *fakeRepoManager) (a, b, c *models.Folder) {
	a = rm.d.add(&models.Folder{Name: "a", OwnerID: 1})
	b = rm.d.add(&models.Folder{Name: "b", OwnerID: 1, ParentID: &a.ID})
	c = rm.d.add(&models.Folder{Name: "c", OwnerID: 1, ParentID: &b.ID})
	return a, b, c
}

func TestCreateFolder_AtRoot(t *testing.T) {
	rm := newFakeRepoManager()
	s, mock := newHierarchyService(t, rm, newFakeStore())
	mock.ExpectBegin()
	mock.ExpectCommit()

	folder, err := s.CreateFolder(context.Background(), owner(1), nil, "docs")
	if err != nil {
		t.Fatalf("CreateFolder error: %v", err)
	}
	if !folder.IsRoot() {
		t.Errorf("expected root folder")
	}
	if folder.OwnerID != 1 {
		t.Errorf("owner = %d, want 1", folder.OwnerID)
	}
}

func TestCreateFolder_InheritsParentOwner(t *testing.T) {
	rm := newFakeRepoManager()
	s, mock := newHierarchyService(t, rm, newFakeStore())
	parent := rm.d.add(&models.Folder{Name: "docs", OwnerID: 1})
	mock.ExpectBegin()
	mock.ExpectCommit()

	folder, err := s.CreateFolder(context.Background(), owner(1), &parent.ID, "inner")
	if err != nil {
		t.Fatalf("CreateFolder error: %v", err)
	}
	if folder.OwnerID != parent.OwnerID {
		t.Errorf("owner = %d, want parent owner %d", folder.OwnerID, parent.OwnerID)
	}
}

func TestCreateFolder_SiblingNameConflict(t *testing.T) {
	rm := newFakeRepoManager()
	s, mock := newHierarchyService(t, rm, newFakeStore())
	rm.d.add(&models.Folder{Name: "docs", OwnerID: 1})
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := s.CreateFolder(context.Background(), owner(1), nil, "docs")
	if !errors.Is(err, common.ErrNameConflict) {
		t.Fatalf("err = %v, want ErrNameConflict", err)
	}
}

// The same name is fine under a different parent.
func TestCreateFolder_SameNameDifferentParent(t *testing.T) {
	rm := newFakeRepoManager()
	s, mock := newHierarchyService(t, rm, newFakeStore())
	parent := rm.d.add(&models.Folder{Name: "docs", OwnerID: 1})
	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err := s.CreateFolder(context.Background(), owner(1), &parent.ID, "docs")
	if err != nil {
		t.Fatalf("CreateFolder error: %v", err)
	}
}

func TestCreateFolder_ParentNotOwned(t *testing.T) {
	rm := newFakeRepoManager()
	s, mock := newHierarchyService(t, rm, newFakeStore())
	parent := rm.d.add(&models.Folder{Name: "docs", OwnerID: 2})
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := s.CreateFolder(context.Background(), owner(1), &parent.ID, "inner")
	if !errors.Is(err, common.ErrNotOwned) {
		t.Fatalf("err = %v, want ErrNotOwned", err)
	}
}

func TestMoveFolder_IntoOwnDescendant(t *testing.T) {
	rm := newFakeRepoManager()
	s, mock := newHierarchyService(t, rm, newFakeStore())
	a, _, c := seedTree(rm)
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := s.MoveFolder(context.Background(), owner(1), a.ID, &c.ID)
	if !errors.Is(err, common.ErrWouldCreateCycle) {
		t.Fatalf("err = %v, want ErrWouldCreateCycle", err)
	}
	// Unchanged on failure.
	if rm.d.byID[a.ID].ParentID != nil {
		t.Errorf("folder reparented despite cycle rejection")
	}
}

func TestMoveFolder_IntoItself(t *testing.T) {
	rm := newFakeRepoManager()
	s, mock := newHierarchyService(t, rm, newFakeStore())
	a, _, _ := seedTree(rm)
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := s.MoveFolder(context.Background(), owner(1), a.ID, &a.ID)
	if !errors.Is(err, common.ErrWouldCreateCycle) {
		t.Fatalf("err = %v, want ErrWouldCreateCycle", err)
	}
}

func TestMoveFolder_UpTheChain(t *testing.T) {
	rm := newFakeRepoManager()
	s, mock := newHierarchyService(t, rm, newFakeStore())
	a, _, c := seedTree(rm)
	mock.ExpectBegin()
	mock.ExpectCommit()

	// Moving a leaf under the root is legal.
	if err := s.MoveFolder(context.Background(), owner(1), c.ID, &a.ID); err != nil {
		t.Fatalf("MoveFolder error: %v", err)
	}
	if got := rm.d.byID[c.ID].ParentID; got == nil || *got != a.ID {
		t.Errorf("parent after move = %v, want %d", got, a.ID)
	}
}

func TestMoveFolder_ToRoot(t *testing.T) {
	rm := newFakeRepoManager()
	s, mock := newHierarchyService(t, rm, newFakeStore())
	_, _, c := seedTree(rm)
	mock.ExpectBegin()
	mock.ExpectCommit()

	if err := s.MoveFolder(context.Background(), owner(1), c.ID, nil); err != nil {
		t.Fatalf("MoveFolder error: %v", err)
	}
	if rm.d.byID[c.ID].ParentID != nil {
		t.Errorf("expected folder at root after move")
	}
}

func TestMoveFolder_NotOwned(t *testing.T) {
	rm := newFakeRepoManager()
	s, mock := newHierarchyService(t, rm, newFakeStore())
	theirs := rm.d.add(&models.Folder{Name: "docs", OwnerID: 2})
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := s.MoveFolder(context.Background(), owner(1), theirs.ID, nil)
	if !errors.Is(err, common.ErrNotOwned) {
		t.Fatalf("err = %v, want ErrNotOwned", err)
	}
}

// Admins read other users' trees but never mutate them.
func TestMoveFolder_AdminCannotMutate(t *testing.T) {
	rm := newFakeRepoManager()
	s, mock := newHierarchyService(t, rm, newFakeStore())
	theirs := rm.d.add(&models.Folder{Name: "docs", OwnerID: 2})
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := s.MoveFolder(context.Background(), admin(99), theirs.ID, nil)
	if !errors.Is(err, common.ErrNotOwned) {
		t.Fatalf("err = %v, want ErrNotOwned", err)
	}
}

func TestMoveFolder_SameParentIsNoop(t *testing.T) {
	rm := newFakeRepoManager()
	s, mock := newHierarchyService(t, rm, newFakeStore())
	_, b, c := seedTree(rm)
	mock.ExpectBegin()
	mock.ExpectCommit()

	// c already lives under b; the name check must not trip over the
	// folder's own row.
	if err := s.MoveFolder(context.Background(), owner(1), c.ID, &b.ID); err != nil {
		t.Fatalf("MoveFolder error: %v", err)
	}
	if rm.d.updateParentCalls != 0 {
		t.Errorf("UpdateParent called %d times for a no-op move", rm.d.updateParentCalls)
	}
}

// Two moves that would jointly form a cycle deadlock on the row locks;
// Postgres aborts one, the retry re-walks the committed tree and rejects
// the move instead of corrupting the forest.
func TestMoveFolder_LockConflictRetriesThenDetectsCycle(t *testing.T) {
	rm := newFakeRepoManager()
	s, mock := newHierarchyService(t, rm, newFakeStore())
	x := rm.d.add(&models.Folder{Name: "x", OwnerID: 1})
	y := rm.d.add(&models.Folder{Name: "y", OwnerID: 1})

	rm.d.updateParentErr = &pgconn.PgError{Code: "40P01"}
	rm.d.onUpdateParentErr = func() {
		// The opposing move of y under x commits while this one aborts.
		rm.d.byID[y.ID].ParentID = &x.ID
	}

	mock.ExpectBegin()
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := s.MoveFolder(context.Background(), owner(1), x.ID, &y.ID)
	if !errors.Is(err, common.ErrWouldCreateCycle) {
		t.Fatalf("err = %v, want ErrWouldCreateCycle", err)
	}
	if rm.d.updateParentCalls != 1 {
		t.Errorf("UpdateParent called %d times, want 1 (retry must stop at the walk)", rm.d.updateParentCalls)
	}
	if rm.d.byID[x.ID].ParentID != nil {
		t.Errorf("losing move still reparented the folder")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("transaction expectations: %v", err)
	}
}

func TestRenameFolder_Conflict(t *testing.T) {
	rm := newFakeRepoManager()
	s, mock := newHierarchyService(t, rm, newFakeStore())
	rm.d.add(&models.Folder{Name: "docs", OwnerID: 1})
	other := rm.d.add(&models.Folder{Name: "pics", OwnerID: 1})
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := s.RenameFolder(context.Background(), owner(1), other.ID, "docs")
	if !errors.Is(err, common.ErrNameConflict) {
		t.Fatalf("err = %v, want ErrNameConflict", err)
	}
}

func TestRenameFolder_SameNameIsNoop(t *testing.T) {
	rm := newFakeRepoManager()
	s, mock := newHierarchyService(t, rm, newFakeStore())
	f := rm.d.add(&models.Folder{Name: "docs", OwnerID: 1})
	mock.ExpectBegin()
	mock.ExpectCommit()

	if err := s.RenameFolder(context.Background(), owner(1), f.ID, "docs"); err != nil {
		t.Fatalf("RenameFolder error: %v", err)
	}
}

func TestDeleteFolder_RejectNonEmpty(t *testing.T) {
	rm := newFakeRepoManager()
	s, mock := newHierarchyService(t, rm, newFakeStore())
	a, _, _ := seedTree(rm)
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := s.DeleteFolder(context.Background(), owner(1), a.ID, models.DeleteRejectIfNonEmpty)
	if !errors.Is(err, common.ErrNonEmpty) {
		t.Fatalf("err = %v, want ErrNonEmpty", err)
	}
	if len(rm.d.byID) != 3 {
		t.Errorf("folders deleted despite rejection")
	}
}

func TestDeleteFolder_RejectWithFilesOnly(t *testing.T) {
	rm := newFakeRepoManager()
	s, mock := newHierarchyService(t, rm, newFakeStore())
	f := rm.d.add(&models.Folder{Name: "docs", OwnerID: 1})
	rm.f.add(&models.File{Filename: "x.txt", OwnerID: 1, FolderID: &f.ID, StorageKey: "k1"})
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := s.DeleteFolder(context.Background(), owner(1), f.ID, models.DeleteRejectIfNonEmpty)
	if !errors.Is(err, common.ErrNonEmpty) {
		t.Fatalf("err = %v, want ErrNonEmpty", err)
	}
}

func TestDeleteFolder_EmptyFolder(t *testing.T) {
	rm := newFakeRepoManager()
	s, mock := newHierarchyService(t, rm, newFakeStore())
	f := rm.d.add(&models.Folder{Name: "docs", OwnerID: 1})
	mock.ExpectBegin()
	mock.ExpectCommit()

	if err := s.DeleteFolder(context.Background(), owner(1), f.ID, models.DeleteRejectIfNonEmpty); err != nil {
		t.Fatalf("DeleteFolder error: %v", err)
	}
	if len(rm.d.byID) != 0 {
		t.Errorf("folder still present")
	}
}

func TestDeleteFolder_RecursiveRemovesSubtreeAndBlobs(t *testing.T) {
	rm := newFakeRepoManager()
	store := newFakeStore()
	s, mock := newHierarchyService(t, rm, store)

	a, b, c := seedTree(rm)
	store.blobs["k1"] = []byte("one")
	store.blobs["k2"] = []byte("two")
	rm.f.add(&models.File{Filename: "one.txt", OwnerID: 1, FolderID: &b.ID, StorageKey: "k1"})
	rm.f.add(&models.File{Filename: "two.txt", OwnerID: 1, FolderID: &c.ID, StorageKey: "k2"})
	outside := rm.f.add(&models.File{Filename: "keep.txt", OwnerID: 1, StorageKey: "k3"})
	store.blobs["k3"] = []byte("keep")

	mock.ExpectBegin()
	mock.ExpectCommit()

	if err := s.DeleteFolder(context.Background(), owner(1), a.ID, models.DeleteRecursive); err != nil {
		t.Fatalf("DeleteFolder error: %v", err)
	}
	if len(rm.d.byID) != 0 {
		t.Errorf("subtree folders remain: %d", len(rm.d.byID))
	}
	if len(rm.f.byID) != 1 {
		t.Errorf("files remain = %d, want only the root file", len(rm.f.byID))
	}
	if _, ok := rm.f.byID[outside.ID]; !ok {
		t.Errorf("file outside the subtree was deleted")
	}
	if _, ok := store.blobs["k1"]; ok {
		t.Errorf("blob k1 not cleaned up")
	}
	if _, ok := store.blobs["k2"]; ok {
		t.Errorf("blob k2 not cleaned up")
	}
	if _, ok := store.blobs["k3"]; !ok {
		t.Errorf("unrelated blob k3 deleted")
	}
}

func TestListChildren_PathAndTotals(t *testing.T) {
	rm := newFakeRepoManager()
	s, _ := newHierarchyService(t, rm, newFakeStore())
	a, b, _ := seedTree(rm)
	rm.f.add(&models.File{Filename: "Zebra.txt", OwnerID: 1, FolderID: &b.ID, Size: 10, StorageKey: "k1"})
	rm.f.add(&models.File{Filename: "apple.txt", OwnerID: 1, FolderID: &b.ID, Size: 5, StorageKey: "k2"})

	listing, err := s.ListChildren(context.Background(), owner(1), &b.ID)
	if err != nil {
		t.Fatalf("ListChildren error: %v", err)
	}
	if listing.Path != "/a/b" {
		t.Errorf("path = %q, want /a/b", listing.Path)
	}
	if listing.ParentFolderID == nil || *listing.ParentFolderID != a.ID {
		t.Errorf("parent id = %v, want %d", listing.ParentFolderID, a.ID)
	}
	if listing.TotalFiles != 2 || listing.TotalSize != 15 {
		t.Errorf("totals = (%d, %d), want (2, 15)", listing.TotalFiles, listing.TotalSize)
	}
	// Case-insensitive name ordering.
	if listing.Files[0].Filename != "apple.txt" || listing.Files[1].Filename != "Zebra.txt" {
		t.Errorf("file order = [%s, %s]", listing.Files[0].Filename, listing.Files[1].Filename)
	}
	if len(listing.Folders) != 1 || listing.Folders[0].Name != "c" {
		t.Errorf("folders = %v", listing.Folders)
	}
}

func TestListChildren_Root(t *testing.T) {
	rm := newFakeRepoManager()
	s, _ := newHierarchyService(t, rm, newFakeStore())
	seedTree(rm)
	rm.f.add(&models.File{Filename: "loose.txt", OwnerID: 1, Size: 3, StorageKey: "k"})

	listing, err := s.ListChildren(context.Background(), owner(1), nil)
	if err != nil {
		t.Fatalf("ListChildren error: %v", err)
	}
	if listing.Path != "/" {
		t.Errorf("path = %q, want /", listing.Path)
	}
	if len(listing.Folders) != 1 || listing.Folders[0].Name != "a" {
		t.Errorf("root folders = %v", listing.Folders)
	}
	if listing.TotalFiles != 1 {
		t.Errorf("total files = %d, want 1", listing.TotalFiles)
	}
}

func TestListChildren_AdminReadsOthers(t *testing.T) {
	rm := newFakeRepoManager()
	s, _ := newHierarchyService(t, rm, newFakeStore())
	theirs := rm.d.add(&models.Folder{Name: "docs", OwnerID: 2})

	if _, err := s.ListChildren(context.Background(), admin(99), &theirs.ID); err != nil {
		t.Fatalf("ListChildren as admin error: %v", err)
	}
	if _, err := s.ListChildren(context.Background(), owner(3), &theirs.ID); !errors.Is(err, common.ErrNotOwned) {
		t.Fatalf("err = %v, want ErrNotOwned for unrelated user", err)
	}
}

func TestSaveFile_Basic(t *testing.T) {
	rm := newFakeRepoManager()
	store := newFakeStore()
	s, _ := newHierarchyService(t, rm, store)

	file, err := s.SaveFile(context.Background(), owner(1), nil, "report.pdf", "application/pdf", strings.NewReader("content"))
	if err != nil {
		t.Fatalf("SaveFile error: %v", err)
	}
	if file.Size != int64(len("content")) {
		t.Errorf("size = %d, want %d", file.Size, len("content"))
	}
	if _, ok := store.blobs[file.StorageKey]; !ok {
		t.Errorf("blob not stored under %q", file.StorageKey)
	}
}

func TestSaveFile_DuplicateNameGetsSuffix(t *testing.T) {
	rm := newFakeRepoManager()
	s, _ := newHierarchyService(t, rm, newFakeStore())

	first, err := s.SaveFile(context.Background(), owner(1), nil, "report.pdf", "application/pdf", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("SaveFile error: %v", err)
	}
	second, err := s.SaveFile(context.Background(), owner(1), nil, "report.pdf", "application/pdf", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("SaveFile error: %v", err)
	}
	third, err := s.SaveFile(context.Background(), owner(1), nil, "report.pdf", "application/pdf", strings.NewReader("c"))
	if err != nil {
		t.Fatalf("SaveFile error: %v", err)
	}

	if first.Filename != "report.pdf" || second.Filename != "report_1.pdf" || third.Filename != "report_2.pdf" {
		t.Errorf("names = %q, %q, %q", first.Filename, second.Filename, third.Filename)
	}
}

func TestSaveFile_BlobRolledBackOnCreateError(t *testing.T) {
	rm := newFakeRepoManager()
	store := newFakeStore()
	s, _ := newHierarchyService(t, rm, store)
	rm.f.createErr = errors.New("insert failed")

	_, err := s.SaveFile(context.Background(), owner(1), nil, "report.pdf", "application/pdf", strings.NewReader("x"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(store.blobs) != 0 {
		t.Errorf("blob left behind after metadata failure")
	}
}

func TestSaveFile_FolderNotOwned(t *testing.T) {
	rm := newFakeRepoManager()
	s, _ := newHierarchyService(t, rm, newFakeStore())
	theirs := rm.d.add(&models.Folder{Name: "docs", OwnerID: 2})

	_, err := s.SaveFile(context.Background(), owner(1), &theirs.ID, "x.txt", "text/plain", strings.NewReader("x"))
	if !errors.Is(err, common.ErrNotOwned) {
		t.Fatalf("err = %v, want ErrNotOwned", err)
	}
}

func TestMoveFile_NameConflictInDest(t *testing.T) {
	rm := newFakeRepoManager()
	s, mock := newHierarchyService(t, rm, newFakeStore())
	dest := rm.d.add(&models.Folder{Name: "docs", OwnerID: 1})
	rm.f.add(&models.File{Filename: "x.txt", OwnerID: 1, FolderID: &dest.ID, StorageKey: "k1"})
	moving := rm.f.add(&models.File{Filename: "x.txt", OwnerID: 1, StorageKey: "k2"})
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := s.MoveFile(context.Background(), owner(1), moving.ID, &dest.ID)
	if !errors.Is(err, common.ErrNameConflict) {
		t.Fatalf("err = %v, want ErrNameConflict", err)
	}
}

func TestMoveFile_Success(t *testing.T) {
	rm := newFakeRepoManager()
	s, mock := newHierarchyService(t, rm, newFakeStore())
	dest := rm.d.add(&models.Folder{Name: "docs", OwnerID: 1})
	moving := rm.f.add(&models.File{Filename: "x.txt", OwnerID: 1, StorageKey: "k"})
	mock.ExpectBegin()
	mock.ExpectCommit()

	if err := s.MoveFile(context.Background(), owner(1), moving.ID, &dest.ID); err != nil {
		t.Fatalf("MoveFile error: %v", err)
	}
	if got := rm.f.byID[moving.ID].FolderID; got == nil || *got != dest.ID {
		t.Errorf("folder after move = %v, want %d", got, dest.ID)
	}
}

func TestMoveFile_SameFolderIsNoop(t *testing.T) {
	rm := newFakeRepoManager()
	s, mock := newHierarchyService(t, rm, newFakeStore())
	dest := rm.d.add(&models.Folder{Name: "docs", OwnerID: 1})
	file := rm.f.add(&models.File{Filename: "x.txt", OwnerID: 1, FolderID: &dest.ID, StorageKey: "k"})
	mock.ExpectBegin()
	mock.ExpectCommit()

	// The file's own name in its current folder is not a conflict.
	if err := s.MoveFile(context.Background(), owner(1), file.ID, &dest.ID); err != nil {
		t.Fatalf("MoveFile error: %v", err)
	}
	if got := rm.f.byID[file.ID].FolderID; got == nil || *got != dest.ID {
		t.Errorf("folder changed by no-op move: %v", got)
	}
}

func TestCopyFile_Basic(t *testing.T) {
	rm := newFakeRepoManager()
	store := newFakeStore()
	s, _ := newHierarchyService(t, rm, store)
	store.blobs["k"] = []byte("bytes")
	dest := rm.d.add(&models.Folder{Name: "docs", OwnerID: 1})
	src := rm.f.add(&models.File{Filename: "report.pdf", OwnerID: 1, Mimetype: "application/pdf", Size: 5, StorageKey: "k"})

	cp, err := s.CopyFile(context.Background(), owner(1), src.ID, &dest.ID)
	if err != nil {
		t.Fatalf("CopyFile error: %v", err)
	}
	if cp.Filename != "report_copy.pdf" {
		t.Errorf("name = %q, want report_copy.pdf", cp.Filename)
	}
	if cp.StorageKey == src.StorageKey {
		t.Errorf("copy shares the source blob key")
	}
	if string(store.blobs[cp.StorageKey]) != "bytes" {
		t.Errorf("blob content = %q", store.blobs[cp.StorageKey])
	}
	if cp.FolderID == nil || *cp.FolderID != dest.ID {
		t.Errorf("copy folder = %v, want %d", cp.FolderID, dest.ID)
	}
}

func TestCopyFile_NameCounterAndShareReset(t *testing.T) {
	rm := newFakeRepoManager()
	store := newFakeStore()
	s, _ := newHierarchyService(t, rm, store)
	store.blobs["k"] = []byte("b")
	token := "tok"
	src := rm.f.add(&models.File{Filename: "a.txt", OwnerID: 1, StorageKey: "k", IsPublic: true, ShareToken: &token})
	rm.f.add(&models.File{Filename: "a_copy.txt", OwnerID: 1, StorageKey: "k0"})

	cp, err := s.CopyFile(context.Background(), owner(1), src.ID, nil)
	if err != nil {
		t.Fatalf("CopyFile error: %v", err)
	}
	if cp.Filename != "a_copy_1.txt" {
		t.Errorf("name = %q, want a_copy_1.txt", cp.Filename)
	}
	if cp.IsPublic || cp.ShareToken != nil {
		t.Errorf("copy inherited the source's share state")
	}
}

func TestCopyFile_NotOwned(t *testing.T) {
	rm := newFakeRepoManager()
	s, _ := newHierarchyService(t, rm, newFakeStore())
	theirs := rm.f.add(&models.File{Filename: "x.txt", OwnerID: 2, StorageKey: "k"})

	if _, err := s.CopyFile(context.Background(), owner(1), theirs.ID, nil); !errors.Is(err, common.ErrNotOwned) {
		t.Fatalf("err = %v, want ErrNotOwned", err)
	}
}

func TestCopyFile_BlobRolledBackOnCreateError(t *testing.T) {
	rm := newFakeRepoManager()
	store := newFakeStore()
	s, _ := newHierarchyService(t, rm, store)
	store.blobs["k"] = []byte("b")
	src := rm.f.add(&models.File{Filename: "x.txt", OwnerID: 1, StorageKey: "k"})
	rm.f.createErr = errors.New("insert failed")

	if _, err := s.CopyFile(context.Background(), owner(1), src.ID, nil); err == nil {
		t.Fatalf("expected error")
	}
	if len(store.blobs) != 1 {
		t.Errorf("copied blob left behind after metadata failure")
	}
}

func TestCopyFolder_Recursive(t *testing.T) {
	rm := newFakeRepoManager()
	store := newFakeStore()
	s, mock := newHierarchyService(t, rm, store)

	a, b, c := seedTree(rm)
	store.blobs["k1"] = []byte("one")
	store.blobs["k2"] = []byte("two")
	token := "tok"
	rm.f.add(&models.File{Filename: "one.txt", OwnerID: 1, FolderID: &b.ID, StorageKey: "k1", IsPublic: true, ShareToken: &token})
	rm.f.add(&models.File{Filename: "two.txt", OwnerID: 1, FolderID: &c.ID, StorageKey: "k2"})

	mock.ExpectBegin()
	mock.ExpectCommit()

	cp, err := s.CopyFolder(context.Background(), owner(1), b.ID, &a.ID)
	if err != nil {
		t.Fatalf("CopyFolder error: %v", err)
	}
	if cp.Name != "b_copy" {
		t.Errorf("name = %q, want b_copy", cp.Name)
	}
	// b and its copy, plus a, c and c's copy.
	if len(rm.d.byID) != 5 {
		t.Errorf("folder count = %d, want 5", len(rm.d.byID))
	}
	if len(rm.f.byID) != 4 {
		t.Errorf("file count = %d, want 4", len(rm.f.byID))
	}

	copied, err := rm.f.ListByFolder(context.Background(), 1, &cp.ID)
	if err != nil {
		t.Fatalf("ListByFolder error: %v", err)
	}
	if len(copied) != 1 || copied[0].Filename != "one.txt" {
		t.Fatalf("copied files = %v", copied)
	}
	if copied[0].StorageKey == "k1" {
		t.Errorf("copied file shares the source blob key")
	}
	if copied[0].IsPublic || copied[0].ShareToken != nil {
		t.Errorf("copied file inherited the source's share state")
	}

	// The nested folder keeps its name inside the fresh copy.
	children, err := rm.d.ListByParent(context.Background(), 1, &cp.ID)
	if err != nil {
		t.Fatalf("ListByParent error: %v", err)
	}
	if len(children) != 1 || children[0].Name != "c" {
		t.Fatalf("copied children = %v", children)
	}
}

func TestCopyFolder_IntoOwnSubtree(t *testing.T) {
	rm := newFakeRepoManager()
	s, mock := newHierarchyService(t, rm, newFakeStore())
	a, _, c := seedTree(rm)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := s.CopyFolder(context.Background(), owner(1), a.ID, &c.ID)
	if !errors.Is(err, common.ErrWouldCreateCycle) {
		t.Fatalf("err = %v, want ErrWouldCreateCycle", err)
	}
	if len(rm.d.byID) != 3 {
		t.Errorf("folders created despite rejection: %d", len(rm.d.byID))
	}
}

func TestCopyFolder_BlobsRemovedOnRollback(t *testing.T) {
	rm := newFakeRepoManager()
	store := newFakeStore()
	s, mock := newHierarchyService(t, rm, store)
	src := rm.d.add(&models.Folder{Name: "docs", OwnerID: 1})
	store.blobs["k"] = []byte("b")
	rm.f.add(&models.File{Filename: "x.txt", OwnerID: 1, FolderID: &src.ID, StorageKey: "k"})
	rm.f.createErr = errors.New("insert failed")

	mock.ExpectBegin()
	mock.ExpectRollback()

	if _, err := s.CopyFolder(context.Background(), owner(1), src.ID, nil); err == nil {
		t.Fatalf("expected error")
	}
	if len(store.blobs) != 1 {
		t.Errorf("copied blobs left behind after rollback: %d", len(store.blobs))
	}
}

func TestDeleteFile_RemovesBlob(t *testing.T) {
	rm := newFakeRepoManager()
	store := newFakeStore()
	s, _ := newHierarchyService(t, rm, store)
	store.blobs["k"] = []byte("bytes")
	file := rm.f.add(&models.File{Filename: "x.txt", OwnerID: 1, StorageKey: "k"})

	if err := s.DeleteFile(context.Background(), owner(1), file.ID); err != nil {
		t.Fatalf("DeleteFile error: %v", err)
	}
	if _, ok := rm.f.byID[file.ID]; ok {
		t.Errorf("file row still present")
	}
	if _, ok := store.blobs["k"]; ok {
		t.Errorf("blob still present")
	}
}

func TestOpenFile_StreamsContent(t *testing.T) {
	rm := newFakeRepoManager()
	store := newFakeStore()
	s, _ := newHierarchyService(t, rm, store)
	store.blobs["k"] = []byte("hello")
	file := rm.f.add(&models.File{Filename: "x.txt", OwnerID: 1, StorageKey: "k"})

	got, rc, err := s.OpenFile(context.Background(), owner(1), file.ID)
	if err != nil {
		t.Fatalf("OpenFile error: %v", err)
	}
	defer rc.Close()
	if got.ID != file.ID {
		t.Errorf("file id = %d, want %d", got.ID, file.ID)
	}
	buf := make([]byte, 16)
	n, _ := rc.Read(buf)
	if string(buf[:n]) != "hello" {
		t.Errorf("content = %q, want hello", buf[:n])
	}
}

func TestGetFile_AdminReadOnly(t *testing.T) {
	rm := newFakeRepoManager()
	s, _ := newHierarchyService(t, rm, newFakeStore())
	file := rm.f.add(&models.File{Filename: "x.txt", OwnerID: 2, StorageKey: "k"})

	if _, err := s.GetFile(context.Background(), admin(99), file.ID); err != nil {
		t.Fatalf("GetFile as admin error: %v", err)
	}
	if err := s.DeleteFile(context.Background(), admin(99), file.ID); !errors.Is(err, common.ErrNotOwned) {
		t.Fatalf("err = %v, want ErrNotOwned for admin delete", err)
	}
}
