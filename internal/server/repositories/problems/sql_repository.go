package problems

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/examkeeper/internal/dbx"
	"github.com/dmitrijs2005/examkeeper/internal/server/models"
)

const problemColumns = `id, category, difficulty, expectation, introduction, question, options_json, images_json`

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Problem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + problemColumns + `
		 FROM problems
		 WHERE id IN (` + dbx.Placeholders(1, len(ids)) + `)`

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	return r.query(ctx, query, args...)
}

// FindRandom draws up to count problems of the given difficulty from any of
// the filter's categories. An empty category list matches nothing.
func (r *SQLRepository) FindRandom(ctx context.Context, filter models.ProblemFilter, count int) ([]models.Problem, error) {
	if count <= 0 || len(filter.Categories) == 0 {
		return nil, nil
	}

	args := make([]any, 0, len(filter.Categories)+2)
	args = append(args, string(filter.Difficulty))
	for _, c := range filter.Categories {
		args = append(args, string(c))
	}

	query := `SELECT ` + problemColumns + `
		 FROM problems
		 WHERE difficulty = $1 AND category IN (` + dbx.Placeholders(2, len(filter.Categories)) + `)
		 ORDER BY RANDOM()
		 LIMIT $` + fmt.Sprint(len(args)+1)
	args = append(args, count)

	return r.query(ctx, query, args...)
}

func (r *SQLRepository) Upsert(ctx context.Context, p *models.Problem) error {
	options, err := json.Marshal(nonNil(p.Options))
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}
	images, err := json.Marshal(nonNil(p.Images))
	if err != nil {
		return fmt.Errorf("encode images: %w", err)
	}

	query :=
		`INSERT INTO problems (` + problemColumns + `)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
		   category = excluded.category,
		   difficulty = excluded.difficulty,
		   expectation = excluded.expectation,
		   introduction = excluded.introduction,
		   question = excluded.question,
		   options_json = excluded.options_json,
		   images_json = excluded.images_json`

	_, err = r.db.ExecContext(ctx, query,
		p.ID, string(p.Category), string(p.Difficulty), string(p.Expectation),
		p.Introduction, p.Question, string(options), string(images))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) query(ctx context.Context, query string, args ...any) ([]models.Problem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Problem
	for rows.Next() {
		var (
			p                                  models.Problem
			category, difficulty, expectation string
			options, images                    string
		)
		if err := rows.Scan(&p.ID, &category, &difficulty, &expectation,
			&p.Introduction, &p.Question, &options, &images); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		p.Category = models.Category(category)
		p.Difficulty = models.Difficulty(difficulty)
		p.Expectation = models.Expectation(expectation)
		if err := json.Unmarshal([]byte(options), &p.Options); err != nil {
			return nil, fmt.Errorf("decode options of %s: %w", p.ID, err)
		}
		if err := json.Unmarshal([]byte(images), &p.Images); err != nil {
			return nil, fmt.Errorf("decode images of %s: %w", p.ID, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
