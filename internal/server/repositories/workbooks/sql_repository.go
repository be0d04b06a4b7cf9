package workbooks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/examkeeper/internal/common"
	"github.com/dmitrijs2005/examkeeper/internal/dbx"
	"github.com/dmitrijs2005/examkeeper/internal/server/models"
)

const assignmentColumns = 6

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Insert(ctx context.Context, w *models.Workbook) error {
	query :=
		`INSERT INTO workbooks (id, owner_id, event_id, specialization_id, maturity, status, submittable_until, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		w.ID, w.OwnerID, w.EventID, w.SpecializationID, string(w.Maturity), string(w.Status),
		w.SubmittableUntil.UnixMilli(), w.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return r.insertAssignments(ctx, w)
}

func (r *SQLRepository) FindByID(ctx context.Context, id string) (*models.Workbook, error) {
	query :=
		`SELECT id, owner_id, event_id, specialization_id, maturity, status, submittable_until, created_at
		 FROM workbooks
		 WHERE id = $1`

	var (
		w                           models.Workbook
		maturity, status            string
		submittableUntil, createdAt int64
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&w.ID, &w.OwnerID, &w.EventID, &w.SpecializationID, &maturity, &status, &submittableUntil, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	w.Maturity = models.Maturity(maturity)
	w.Status = models.WorkbookStatus(status)
	w.SubmittableUntil = time.UnixMilli(submittableUntil).UTC()
	w.CreatedAt = time.UnixMilli(createdAt).UTC()

	assignments, err := r.findAssignments(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	w.Assignments = assignments

	return &w, nil
}

// Replace is only atomic when r is bound to a transaction, see
// repomanager.TxWorkbooks.
func (r *SQLRepository) Replace(ctx context.Context, w *models.Workbook) error {
	query :=
		`UPDATE workbooks
		 SET owner_id = $1, event_id = $2, specialization_id = $3, maturity = $4, status = $5, submittable_until = $6
		 WHERE id = $7`

	res, err := r.db.ExecContext(ctx, query,
		w.OwnerID, w.EventID, w.SpecializationID, string(w.Maturity), string(w.Status),
		w.SubmittableUntil.UnixMilli(), w.ID)
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

	if _, err := r.db.ExecContext(ctx, `DELETE FROM workbook_assignments WHERE workbook_id = $1`, w.ID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return r.insertAssignments(ctx, w)
}

func (r *SQLRepository) insertAssignments(ctx context.Context, w *models.Workbook) error {
	if len(w.Assignments) == 0 {
		return nil
	}

	rows := make([]string, 0, len(w.Assignments))
	args := make([]any, 0, len(w.Assignments)*assignmentColumns)
	for i, a := range w.Assignments {
		rows = append(rows, "("+dbx.Placeholders(len(args)+1, assignmentColumns)+")")
		args = append(args, w.ID, i, a.ProblemID, nullString(a.Solution), a.Score, a.ScoreMax)
	}

	query := `INSERT INTO workbook_assignments (workbook_id, ordinal, problem_id, solution, score, score_max)
		 VALUES ` + strings.Join(rows, ", ")

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) findAssignments(ctx context.Context, workbookID string) ([]models.Assignment, error) {
	query :=
		`SELECT problem_id, solution, score, score_max
		 FROM workbook_assignments
		 WHERE workbook_id = $1
		 ORDER BY ordinal`

	rows, err := r.db.QueryContext(ctx, query, workbookID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Assignment
	for rows.Next() {
		var (
			a        models.Assignment
			solution sql.NullString
		)
		if err := rows.Scan(&a.ProblemID, &solution, &a.Score, &a.ScoreMax); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if solution.Valid {
			s := solution.String
			a.Solution = &s
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
