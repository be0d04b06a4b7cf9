package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/examkeeper/internal/common"
	"github.com/dmitrijs2005/examkeeper/internal/dbx"
	"github.com/dmitrijs2005/examkeeper/internal/server/models"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

// NormalizeEmail is applied on every write and lookup so that addresses
// compare case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *SQLRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	query :=
		`SELECT id, email, password_hash, status FROM accounts
		 WHERE email = $1`

	return r.findOne(ctx, query, NormalizeEmail(email))
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	query :=
		`SELECT id, email, password_hash, status FROM accounts
		 WHERE id = $1`

	return r.findOne(ctx, query, id)
}

func (r *SQLRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE accounts SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLRepository) Upsert(ctx context.Context, a *models.Account) error {
	query :=
		`INSERT INTO accounts (id, email, password_hash, status)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET
		   email = excluded.email,
		   password_hash = excluded.password_hash,
		   status = excluded.status`

	_, err := r.db.ExecContext(ctx, query, a.ID, NormalizeEmail(a.Email), a.PasswordHash, string(a.Status))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) findOne(ctx context.Context, query string, arg string) (*models.Account, error) {
	var (
		a      models.Account
		status string
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&a.ID, &a.Email, &a.PasswordHash, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	a.Status = models.AccountStatus(status)
	return &a, nil
}
