package repomanager

import (
	"context"
	"database/sql"

	"github.com/i2clabs/fileserver/internal/dbx"
	"github.com/i2clabs/fileserver/internal/server/repositories/files"
	"github.com/i2clabs/fileserver/internal/server/repositories/folders"
	"github.com/i2clabs/fileserver/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same
// repository code runs against the pool or inside a transaction.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Folders(db dbx.DBTX) folders.Repository
	Files(db dbx.DBTX) files.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
