package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/mooddiary/internal/dbx"
	"github.com/dmitrijs2005/mooddiary/internal/server/repositories/entries"
	"github.com/dmitrijs2005/mooddiary/internal/server/repositories/media"
	"github.com/dmitrijs2005/mooddiary/internal/server/repositories/secrets"
	"github.com/dmitrijs2005/mooddiary/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Entries(db dbx.DBTX) entries.Repository
	Media(db dbx.DBTX) media.Repository
	Secrets(db dbx.DBTX) secrets.Repository
}
