package problems

import (
	"context"

	"github.com/dmitrijs2005/examkeeper/internal/server/models"
)

// Repository is the problem catalog. FindRandom returns at most count
// problems in no particular order; repeated calls may overlap.
type Repository interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.Problem, error)
	FindRandom(ctx context.Context, filter models.ProblemFilter, count int) ([]models.Problem, error)
	Upsert(ctx context.Context, p *models.Problem) error
}
