package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/examkeeper/internal/common"
	"github.com/dmitrijs2005/examkeeper/internal/logging"
	"github.com/dmitrijs2005/examkeeper/internal/server/config"
	"github.com/dmitrijs2005/examkeeper/internal/server/models"
	"github.com/google/uuid"
)

// DefaultWorkbookValidity is used when the configuration leaves it unset.
const DefaultWorkbookValidity = 6 * time.Hour

// SamplingPlan is what a workbook of a given maturity is built from.
type SamplingPlan struct {
	Difficulty models.Difficulty
	Count      int
}

var maturityPlans = map[models.Maturity]SamplingPlan{
	models.MaturityJunior:       {Difficulty: models.DifficultyEasy, Count: 8},
	models.MaturityIntermediate: {Difficulty: models.DifficultyModerate, Count: 6},
	models.MaturitySenior:       {Difficulty: models.DifficultyHard, Count: 4},
	models.MaturityExpert:       {Difficulty: models.DifficultyUltimate, Count: 3},
}

var defaultPlan = SamplingPlan{Difficulty: models.DifficultyModerate, Count: 5}

// PlanFor maps a maturity to its sampling plan. Unknown maturities get
// five MODERATE problems.
func PlanFor(m models.Maturity) SamplingPlan {
	if plan, ok := maturityPlans[m]; ok {
		return plan
	}
	return defaultPlan
}

var maxScores = map[models.Difficulty]int{
	models.DifficultyEasy:     10,
	models.DifficultyModerate: 20,
	models.DifficultyHard:     30,
	models.DifficultyUltimate: 40,
}

const defaultMaxScore = 30

// MaxScoreFor returns the points a correctly answered problem is worth.
func MaxScoreFor(d models.Difficulty) int {
	if s, ok := maxScores[d]; ok {
		return s
	}
	return defaultMaxScore
}

// WorkbookService owns the workbook lifecycle. Every write loads the whole
// workbook and replaces it, so concurrent writers to the same workbook race
// and the last one wins.
type WorkbookService struct {
	workbooks       WorkbookRepository
	specializations SpecializationRepository
	sampler         *ProblemSampler
	assessor        *Assessor
	projector       *WorkbookProjector
	validity        time.Duration
	logger          logging.Logger

	now   func() time.Time
	newID func() string
}

func NewWorkbookService(
	workbooks WorkbookRepository,
	specializations SpecializationRepository,
	problems ProblemRepository,
	images ImageURLSigner,
	cfg *config.Config,
	logger logging.Logger,
) *WorkbookService {
	validity := cfg.WorkbookValidityDuration
	if validity <= 0 {
		validity = DefaultWorkbookValidity
	}
	logger = logger.With("module", "workbooks")

	return &WorkbookService{
		workbooks:       workbooks,
		specializations: specializations,
		sampler:         NewProblemSampler(problems),
		assessor:        NewAssessor(problems),
		projector:       NewWorkbookProjector(problems, images, logger),
		validity:        validity,
		logger:          logger,
		now:             time.Now,
		newID:           uuid.NewString,
	}
}

// Create samples problems for the specialization and maturity and stores a
// new APPROVED workbook owned by ownerID.
func (s *WorkbookService) Create(ctx context.Context, eventID, specializationID string, maturity models.Maturity, ownerID string) (string, error) {
	spec, err := s.specializations.FindByID(ctx, specializationID)
	if err != nil {
		return "", fmt.Errorf("specialization %s: %w", specializationID, err)
	}

	plan := PlanFor(maturity)
	problems, err := s.sampler.Sample(ctx, spec.ProblemCategories, plan.Difficulty, plan.Count)
	if err != nil {
		return "", err
	}

	assignments := make([]models.Assignment, 0, len(problems))
	for _, p := range problems {
		assignments = append(assignments, models.Assignment{
			ProblemID: p.ID,
			ScoreMax:  MaxScoreFor(p.Difficulty),
		})
	}

	now := s.now().UTC()
	w := &models.Workbook{
		ID:               s.newID(),
		OwnerID:          ownerID,
		EventID:          eventID,
		SpecializationID: specializationID,
		Maturity:         maturity,
		Assignments:      assignments,
		SubmittableUntil: now.Add(s.validity),
		Status:           models.WorkbookStatusApproved,
		CreatedAt:        now,
	}

	if err := s.workbooks.Insert(ctx, w); err != nil {
		return "", fmt.Errorf("insert workbook: %w", err)
	}

	if len(assignments) < plan.Count {
		s.logger.Warn(ctx, "workbook is short of problems", "workbook_id", w.ID, "want", plan.Count, "got", len(assignments))
	}
	s.logger.Info(ctx, "workbook created", "workbook_id", w.ID, "owner_id", ownerID, "maturity", maturity)

	return w.ID, nil
}

// SubmitAnswer stores solution for the assignment at the 1-based index. A
// nil solution clears the answer.
func (s *WorkbookService) SubmitAnswer(ctx context.Context, workbookID string, index int, solution *string) error {
	w, err := s.load(ctx, workbookID)
	if err != nil {
		return err
	}

	if index < 1 || index > len(w.Assignments) {
		return fmt.Errorf("%w: assignment index %d out of range 1..%d", common.ErrorInvalidArgument, index, len(w.Assignments))
	}
	w.Assignments[index-1].Solution = solution

	if err := s.workbooks.Replace(ctx, w); err != nil {
		return fmt.Errorf("replace workbook: %w", err)
	}
	return nil
}

// UpdateStatus sets the workbook status. Moving to SUBMITTED assesses the
// workbook first so that the status and the scores are stored together.
// A workbook that has left APPROVED never goes back to it.
func (s *WorkbookService) UpdateStatus(ctx context.Context, workbookID string, status models.WorkbookStatus) error {
	w, err := s.load(ctx, workbookID)
	if err != nil {
		return err
	}
	if status == models.WorkbookStatusApproved && w.Status != models.WorkbookStatusApproved {
		s.logger.Warn(ctx, "workbook reopen rejected", "workbook_id", workbookID, "status", w.Status)
		return common.ErrorIllegalTransition
	}

	w.Status = status
	if status == models.WorkbookStatusSubmitted {
		if err := s.assessor.Assess(ctx, w); err != nil {
			s.logger.Error(ctx, "assessment failed", "workbook_id", workbookID, "error", err)
			return err
		}
	}

	if err := s.workbooks.Replace(ctx, w); err != nil {
		return fmt.Errorf("replace workbook: %w", err)
	}

	s.logger.Info(ctx, "workbook status updated", "workbook_id", workbookID, "status", status)
	return nil
}

// Retrieve returns the read model of a workbook.
func (s *WorkbookService) Retrieve(ctx context.Context, workbookID string) (*WorkbookView, error) {
	w, err := s.load(ctx, workbookID)
	if err != nil {
		return nil, err
	}
	return s.projector.Project(ctx, w)
}

// CheckOwner fails with common.ErrorPermissionDenied unless accountID owns
// the workbook.
func (s *WorkbookService) CheckOwner(ctx context.Context, workbookID, accountID string) error {
	w, err := s.load(ctx, workbookID)
	if err != nil {
		return err
	}
	if w.OwnerID != accountID {
		return common.ErrorPermissionDenied
	}
	return nil
}

func (s *WorkbookService) load(ctx context.Context, workbookID string) (*models.Workbook, error) {
	w, err := s.workbooks.FindByID(ctx, workbookID)
	if err != nil {
		return nil, fmt.Errorf("workbook %s: %w", workbookID, err)
	}
	return w, nil
}
