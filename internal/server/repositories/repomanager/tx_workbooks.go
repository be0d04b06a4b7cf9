package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/examkeeper/internal/dbx"
	"github.com/dmitrijs2005/examkeeper/internal/server/models"
)

// TxWorkbooks runs every workbook write in its own transaction so that the
// header row and its assignments change together. Concurrent writers still
// race: the last commit wins.
type TxWorkbooks struct {
	db *sql.DB
	m  RepositoryManager
}

func NewTxWorkbooks(db *sql.DB, m RepositoryManager) *TxWorkbooks {
	return &TxWorkbooks{db: db, m: m}
}

func (t *TxWorkbooks) Insert(ctx context.Context, w *models.Workbook) error {
	return dbx.WithTx(ctx, t.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return t.m.Workbooks(tx).Insert(ctx, w)
	})
}

func (t *TxWorkbooks) FindByID(ctx context.Context, id string) (*models.Workbook, error) {
	return t.m.Workbooks(t.db).FindByID(ctx, id)
}

func (t *TxWorkbooks) Replace(ctx context.Context, w *models.Workbook) error {
	return dbx.WithTx(ctx, t.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return t.m.Workbooks(tx).Replace(ctx, w)
	})
}
