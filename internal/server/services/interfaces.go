// Package services contains the server-side business logic: workbook
// lifecycle and assessment, problem sampling, authentication and the read
// model handed to the transport. Collaborators are consumed through the
// narrow interfaces below.
package services

import (
	"context"

	"github.com/dmitrijs2005/examkeeper/internal/server/models"
)

// ProblemSource draws random problems. It may return fewer than count and
// may repeat problems across calls.
type ProblemSource interface {
	FindRandom(ctx context.Context, filter models.ProblemFilter, count int) ([]models.Problem, error)
}

// ProblemFinder batch-loads problems. Unknown ids are silently skipped.
type ProblemFinder interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.Problem, error)
}

type ProblemRepository interface {
	ProblemSource
	ProblemFinder
}

type SpecializationRepository interface {
	FindByID(ctx context.Context, id string) (*models.Specialization, error)
}

type WorkbookRepository interface {
	Insert(ctx context.Context, w *models.Workbook) error
	FindByID(ctx context.Context, id string) (*models.Workbook, error)
	Replace(ctx context.Context, w *models.Workbook) error
}

type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByID(ctx context.Context, id string) (*models.Account, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Match(password, hash string) bool
}
