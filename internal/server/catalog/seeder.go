package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/examkeeper/internal/dbx"
	"github.com/dmitrijs2005/examkeeper/internal/logging"
	"github.com/dmitrijs2005/examkeeper/internal/server/repositories/repomanager"
)

type Seeder struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	logger logging.Logger
}

func NewSeeder(db *sql.DB, repos repomanager.RepositoryManager, l logging.Logger) *Seeder {
	return &Seeder{db: db, repos: repos, logger: l.With("module", "catalog")}
}

// Seed upserts the whole file in one transaction. Existing rows with the
// same ids are overwritten.
func (s *Seeder) Seed(ctx context.Context, f *File) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		specs := s.repos.Specializations(tx)
		for _, sp := range f.Specializations {
			if err := specs.Upsert(ctx, sp.model()); err != nil {
				return fmt.Errorf("specialization %s: %w", sp.ID, err)
			}
		}

		problems := s.repos.Problems(tx)
		for _, p := range f.Problems {
			if err := problems.Upsert(ctx, p.model()); err != nil {
				return fmt.Errorf("problem %s: %w", p.ID, err)
			}
		}

		accounts := s.repos.Accounts(tx)
		for _, a := range f.Accounts {
			if err := accounts.Upsert(ctx, a.model()); err != nil {
				return fmt.Errorf("account %s: %w", a.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "catalog seeded",
		"specializations", len(f.Specializations),
		"problems", len(f.Problems),
		"accounts", len(f.Accounts))
	return nil
}

// SeedFile loads path and seeds it.
func (s *Seeder) SeedFile(ctx context.Context, path string) error {
	f, err := LoadFile(path)
	if err != nil {
		return fmt.Errorf("load catalog %s: %w", path, err)
	}
	return s.Seed(ctx, f)
}
