package specializations

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

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

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*models.Specialization, error) {
	query :=
		`SELECT id, title, categories_json FROM specializations
		 WHERE id = $1`

	var (
		s          models.Specialization
		categories string
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Title, &categories)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal([]byte(categories), &s.ProblemCategories); err != nil {
		return nil, fmt.Errorf("decode categories of %s: %w", s.ID, err)
	}

	return &s, nil
}

func (r *SQLRepository) Upsert(ctx context.Context, s *models.Specialization) error {
	categories := s.ProblemCategories
	if categories == nil {
		categories = []models.Category{}
	}
	encoded, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("encode categories: %w", err)
	}

	query :=
		`INSERT INTO specializations (id, title, categories_json)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET title = excluded.title, categories_json = excluded.categories_json`

	if _, err := r.db.ExecContext(ctx, query, s.ID, s.Title, string(encoded)); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
