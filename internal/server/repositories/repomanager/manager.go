package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/spellcaster/internal/dbx"
	"github.com/dmitrijs2005/spellcaster/internal/server/repositories/globalstate"
	"github.com/dmitrijs2005/spellcaster/internal/server/repositories/pricing"
	"github.com/dmitrijs2005/spellcaster/internal/server/repositories/userstates"
)

// RepositoryManager vends repositories bound to either a *sql.DB or a
// transaction, so services can pick the handle per operation.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	GlobalState(db dbx.DBTX) globalstate.Repository
	Pricing(db dbx.DBTX) pricing.Repository
	UserStates(db dbx.DBTX) userstates.Repository
}
