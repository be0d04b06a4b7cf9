// Package repomanager wires the SQL repositories to a database handle and
// runs the embedded goose migrations for the configured driver.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/examkeeper/internal/dbx"
	"github.com/dmitrijs2005/examkeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/examkeeper/internal/server/repositories/problems"
	"github.com/dmitrijs2005/examkeeper/internal/server/repositories/specializations"
	"github.com/dmitrijs2005/examkeeper/internal/server/repositories/workbooks"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Workbooks(db dbx.DBTX) workbooks.Repository
	Problems(db dbx.DBTX) problems.Repository
	Specializations(db dbx.DBTX) specializations.Repository
	Accounts(db dbx.DBTX) accounts.Repository
}
