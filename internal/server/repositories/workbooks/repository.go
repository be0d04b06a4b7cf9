package workbooks

import (
	"context"

	"github.com/dmitrijs2005/examkeeper/internal/server/models"
)

// Repository persists whole workbook documents. Replace overwrites the
// stored document including all assignments.
type Repository interface {
	Insert(ctx context.Context, w *models.Workbook) error
	FindByID(ctx context.Context, id string) (*models.Workbook, error)
	Replace(ctx context.Context, w *models.Workbook) error
}
