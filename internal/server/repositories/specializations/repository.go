package specializations

import (
	"context"

	"github.com/dmitrijs2005/examkeeper/internal/server/models"
)

type Repository interface {
	FindByID(ctx context.Context, id string) (*models.Specialization, error)
	Upsert(ctx context.Context, s *models.Specialization) error
}
