package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/examkeeper/internal/dbx"
	"github.com/dmitrijs2005/examkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/examkeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/examkeeper/internal/server/repositories/problems"
	"github.com/dmitrijs2005/examkeeper/internal/server/repositories/specializations"
	"github.com/dmitrijs2005/examkeeper/internal/server/repositories/workbooks"
	"github.com/pressly/goose/v3"
)

// SQLRepositoryManager vends database/sql repositories. The same SQL runs on
// PostgreSQL (pgx) and SQLite; only the goose dialect differs.
type SQLRepositoryManager struct {
	driver dbx.Driver
}

func (m *SQLRepositoryManager) Workbooks(db dbx.DBTX) workbooks.Repository {
	return workbooks.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Problems(db dbx.DBTX) problems.Repository {
	return problems.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Specializations(db dbx.DBTX) specializations.Repository {
	return specializations.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewSQLRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(gooseDialect(m.driver)); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

func gooseDialect(driver dbx.Driver) string {
	if driver == dbx.DriverSQLite {
		return "sqlite3"
	}
	return "pgx"
}

func NewSQLRepositoryManager(driver dbx.Driver) (RepositoryManager, error) {
	switch driver {
	case dbx.DriverPostgres, dbx.DriverSQLite:
		return &SQLRepositoryManager{driver: driver}, nil
	default:
		return nil, fmt.Errorf("unsupported driver: %q", driver)
	}
}
