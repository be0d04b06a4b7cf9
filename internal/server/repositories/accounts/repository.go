package accounts

import (
	"context"

	"github.com/dmitrijs2005/examkeeper/internal/server/models"
)

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByID(ctx context.Context, id string) (*models.Account, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Upsert(ctx context.Context, a *models.Account) error
}
