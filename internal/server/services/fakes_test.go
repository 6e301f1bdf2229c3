package services

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/i2clabs/fileserver/internal/common"
	"github.com/i2clabs/fileserver/internal/dbx"
	"github.com/i2clabs/fileserver/internal/logging"
	"github.com/i2clabs/fileserver/internal/server/models"
	filesrepo "github.com/i2clabs/fileserver/internal/server/repositories/files"
	foldersrepo "github.com/i2clabs/fileserver/internal/server/repositories/folders"
	usersrepo "github.com/i2clabs/fileserver/internal/server/repositories/users"
)

// --- shared helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func testLogger() logging.Logger {
	return logging.NewJSONLogger("error")
}

// --- in-memory users repository ---

type fakeUsersRepo struct {
	byID   map[int64]*models.User
	nextID int64

	createErr    error
	getErr       error
	updateErr    error
	ownedContent int64
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[int64]*models.User{}, nextID: 1}
}

func (f *fakeUsersRepo) add(u *models.User) *models.User {
	cp := *u
	if cp.ID == 0 {
		cp.ID = f.nextID
		f.nextID++
	}
	f.byID[cp.ID] = &cp
	return &cp
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.byID {
		if existing.Username == u.Username || existing.Email == u.Email {
			return nil, common.ErrAlreadyExists
		}
	}
	u.IsActive = true
	return f.add(u), nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]*models.User, error) {
	out := make([]*models.User, 0, len(f.byID))
	for _, u := range f.byID {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (f *fakeUsersRepo) Update(ctx context.Context, u *models.User) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.byID[u.ID]; !ok {
		return common.ErrNotFound
	}
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeUsersRepo) CountOwnedContent(ctx context.Context, userID int64) (int64, error) {
	return f.ownedContent, nil
}

func (f *fakeUsersRepo) RegisterFailedAttempt(ctx context.Context, userID int64, threshold int, lockedUntil time.Time) (int, *time.Time, error) {
	u, ok := f.byID[userID]
	if !ok {
		return 0, nil, common.ErrNotFound
	}
	if u.Locked(time.Now()) {
		return 0, nil, common.ErrAccountLocked
	}
	u.FailedAttempts++
	if u.FailedAttempts >= threshold {
		lu := lockedUntil
		u.LockedUntil = &lu
	}
	return u.FailedAttempts, u.LockedUntil, nil
}

func (f *fakeUsersRepo) ResetLockout(ctx context.Context, userID int64) error {
	u, ok := f.byID[userID]
	if !ok {
		return common.ErrNotFound
	}
	u.FailedAttempts = 0
	u.LockedUntil = nil
	return nil
}

// --- in-memory folders repository ---

type fakeFoldersRepo struct {
	byID   map[int64]*models.Folder
	nextID int64

	// updateParentErr is returned by the next UpdateParent call and then
	// cleared; onUpdateParentErr mutates the tree at that moment, standing
	// in for a concurrent move that won the race.
	updateParentErr   error
	onUpdateParentErr func()
	updateParentCalls int
}

func newFakeFoldersRepo() *fakeFoldersRepo {
	return &fakeFoldersRepo{byID: map[int64]*models.Folder{}, nextID: 1}
}

func (f *fakeFoldersRepo) add(folder *models.Folder) *models.Folder {
	cp := *folder
	if cp.ID == 0 {
		cp.ID = f.nextID
		f.nextID++
	}
	f.byID[cp.ID] = &cp
	out := cp
	return &out
}

func (f *fakeFoldersRepo) Create(ctx context.Context, folder *models.Folder) (*models.Folder, error) {
	return f.add(folder), nil
}

func (f *fakeFoldersRepo) GetByID(ctx context.Context, id int64) (*models.Folder, error) {
	folder, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *folder
	return &cp, nil
}

func (f *fakeFoldersRepo) GetByIDForUpdate(ctx context.Context, id int64) (*models.Folder, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeFoldersRepo) ExistsName(ctx context.Context, ownerID int64, parentID *int64, name string) (bool, error) {
	for _, folder := range f.byID {
		if folder.OwnerID == ownerID && folder.Name == name && sameFolderID(folder.ParentID, parentID) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFoldersRepo) ListByParent(ctx context.Context, ownerID int64, parentID *int64) ([]*models.Folder, error) {
	var out []*models.Folder
	for _, folder := range f.byID {
		if folder.OwnerID == ownerID && sameFolderID(folder.ParentID, parentID) {
			cp := *folder
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (f *fakeFoldersRepo) SubtreeIDs(ctx context.Context, rootID int64) ([]int64, error) {
	out := []int64{rootID}
	for i := 0; i < len(out); i++ {
		for _, folder := range f.byID {
			if folder.ParentID != nil && *folder.ParentID == out[i] {
				out = append(out, folder.ID)
			}
		}
	}
	return out, nil
}

func (f *fakeFoldersRepo) HasChildFolders(ctx context.Context, id int64) (bool, error) {
	for _, folder := range f.byID {
		if folder.ParentID != nil && *folder.ParentID == id {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFoldersRepo) UpdateParent(ctx context.Context, id int64, parentID *int64) error {
	f.updateParentCalls++
	if f.updateParentErr != nil {
		err := f.updateParentErr
		f.updateParentErr = nil
		if f.onUpdateParentErr != nil {
			f.onUpdateParentErr()
		}
		return err
	}
	folder, ok := f.byID[id]
	if !ok {
		return common.ErrNotFound
	}
	folder.ParentID = parentID
	return nil
}

func (f *fakeFoldersRepo) Rename(ctx context.Context, id int64, name string) error {
	folder, ok := f.byID[id]
	if !ok {
		return common.ErrNotFound
	}
	folder.Name = name
	return nil
}

func (f *fakeFoldersRepo) DeleteByIDs(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		delete(f.byID, id)
	}
	return nil
}

// --- in-memory files repository ---

type fakeFilesRepo struct {
	byID   map[int64]*models.File
	nextID int64

	createErr error
}

func newFakeFilesRepo() *fakeFilesRepo {
	return &fakeFilesRepo{byID: map[int64]*models.File{}, nextID: 1}
}

func (f *fakeFilesRepo) add(file *models.File) *models.File {
	cp := *file
	if cp.ID == 0 {
		cp.ID = f.nextID
		f.nextID++
	}
	f.byID[cp.ID] = &cp
	out := cp
	return &out
}

func (f *fakeFilesRepo) Create(ctx context.Context, file *models.File) (*models.File, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.add(file), nil
}

func (f *fakeFilesRepo) GetByID(ctx context.Context, id int64) (*models.File, error) {
	file, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *file
	return &cp, nil
}

func (f *fakeFilesRepo) GetByShareToken(ctx context.Context, token string) (*models.File, error) {
	for _, file := range f.byID {
		if file.ShareToken != nil && *file.ShareToken == token {
			cp := *file
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeFilesRepo) ExistsName(ctx context.Context, ownerID int64, folderID *int64, name string) (bool, error) {
	for _, file := range f.byID {
		if file.OwnerID == ownerID && file.Filename == name && sameFolderID(file.FolderID, folderID) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFilesRepo) ListByFolder(ctx context.Context, ownerID int64, folderID *int64) ([]*models.File, error) {
	var out []*models.File
	for _, file := range f.byID {
		if file.OwnerID == ownerID && sameFolderID(file.FolderID, folderID) {
			cp := *file
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Filename) < strings.ToLower(out[j].Filename)
	})
	return out, nil
}

func (f *fakeFilesRepo) HasFilesInFolders(ctx context.Context, folderIDs []int64) (bool, error) {
	for _, file := range f.byID {
		if file.FolderID == nil {
			continue
		}
		for _, id := range folderIDs {
			if *file.FolderID == id {
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeFilesRepo) StorageKeysInFolders(ctx context.Context, folderIDs []int64) ([]string, error) {
	var out []string
	for _, file := range f.byID {
		if file.FolderID == nil {
			continue
		}
		for _, id := range folderIDs {
			if *file.FolderID == id {
				out = append(out, file.StorageKey)
			}
		}
	}
	return out, nil
}

func (f *fakeFilesRepo) UpdateFolder(ctx context.Context, id int64, folderID *int64) error {
	file, ok := f.byID[id]
	if !ok {
		return common.ErrNotFound
	}
	file.FolderID = folderID
	return nil
}

func (f *fakeFilesRepo) Rename(ctx context.Context, id int64, name string) error {
	file, ok := f.byID[id]
	if !ok {
		return common.ErrNotFound
	}
	file.Filename = name
	return nil
}

func (f *fakeFilesRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeFilesRepo) DeleteByFolderIDs(ctx context.Context, folderIDs []int64) error {
	for id, file := range f.byID {
		if file.FolderID == nil {
			continue
		}
		for _, fid := range folderIDs {
			if *file.FolderID == fid {
				delete(f.byID, id)
				break
			}
		}
	}
	return nil
}

func (f *fakeFilesRepo) SetShare(ctx context.Context, fileID int64, token string, expiry *time.Time) error {
	file, ok := f.byID[fileID]
	if !ok {
		return common.ErrNotFound
	}
	file.ShareToken = &token
	file.ShareExpiry = expiry
	file.IsPublic = true
	return nil
}

func (f *fakeFilesRepo) ClearShare(ctx context.Context, fileID int64) (bool, error) {
	file, ok := f.byID[fileID]
	if !ok {
		return false, common.ErrNotFound
	}
	if file.ShareToken == nil {
		return false, nil
	}
	file.ShareToken = nil
	file.ShareExpiry = nil
	file.IsPublic = false
	return true, nil
}

// --- fake repository manager ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	d *fakeFoldersRepo
	f *fakeFilesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u: newFakeUsersRepo(),
		d: newFakeFoldersRepo(),
		f: newFakeFilesRepo(),
	}
}

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }
func (m *fakeRepoManager) Folders(db dbx.DBTX) foldersrepo.Repository   { return m.d }
func (m *fakeRepoManager) Files(db dbx.DBTX) filesrepo.Repository       { return m.f }
func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

// --- in-memory blob store ---

type fakeStore struct {
	blobs map[string][]byte

	putErr error
	getErr error
	delErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{blobs: map[string][]byte{}}
}

func (s *fakeStore) Put(ctx context.Context, key string, r io.Reader) (int64, error) {
	if s.putErr != nil {
		return 0, s.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	s.blobs[key] = data
	return int64(len(data)), nil
}

func (s *fakeStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	data, ok := s.blobs[key]
	if !ok {
		return nil, common.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	if s.delErr != nil {
		return s.delErr
	}
	delete(s.blobs, key)
	return nil
}
