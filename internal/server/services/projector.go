package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/examkeeper/internal/logging"
	"github.com/dmitrijs2005/examkeeper/internal/server/models"
)

// WorkbookView is the read model of a workbook. While the workbook is
// classified (neither SUBMITTED nor ASSESSED) scores, correctness flags and
// free-text answers are left out. The participant's own solutions are
// always shown.
type WorkbookView struct {
	ID               string                `json:"id"`
	OwnerID          string                `json:"owner_id"`
	EventID          string                `json:"event_id"`
	SpecializationID string                `json:"specialization_id"`
	Maturity         models.Maturity       `json:"maturity"`
	Status           models.WorkbookStatus `json:"status"`
	Classified       bool                  `json:"classified"`
	SubmittableUntil time.Time             `json:"submittable_until"`
	Assignments      []AssignmentView      `json:"assignments"`
}

// AssignmentView carries a 1-based Index that follows the stored order.
// Problem is nil when the catalog no longer has the problem.
type AssignmentView struct {
	Index    int          `json:"index"`
	Problem  *ProblemView `json:"problem,omitempty"`
	Solution *string      `json:"solution"`
	Score    *int         `json:"score,omitempty"`
	ScoreMax int          `json:"score_max"`
}

type ProblemView struct {
	ID           string             `json:"id"`
	Category     models.Category    `json:"category"`
	Difficulty   models.Difficulty  `json:"difficulty"`
	Expectation  models.Expectation `json:"expectation"`
	Introduction string             `json:"introduction,omitempty"`
	Question     string             `json:"question"`
	Options      []OptionView       `json:"options,omitempty"`
	Images       []ImageView        `json:"images,omitempty"`
}

type OptionView struct {
	Content string `json:"content"`
	Correct *bool  `json:"correct,omitempty"`
}

type ImageView struct {
	URL    string `json:"url,omitempty"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// WorkbookProjector builds WorkbookViews. images may be nil, in which case
// image URLs stay empty.
type WorkbookProjector struct {
	problems ProblemFinder
	images   ImageURLSigner
	logger   logging.Logger
}

func NewWorkbookProjector(problems ProblemFinder, images ImageURLSigner, logger logging.Logger) *WorkbookProjector {
	return &WorkbookProjector{problems: problems, images: images, logger: logger}
}

func (p *WorkbookProjector) Project(ctx context.Context, w *models.Workbook) (*WorkbookView, error) {
	classified := w.Status.Classified()

	fetched, err := p.problems.FindByIDs(ctx, w.ProblemIDs())
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.Problem, len(fetched))
	for i := range fetched {
		byID[fetched[i].ID] = &fetched[i]
	}

	view := &WorkbookView{
		ID:               w.ID,
		OwnerID:          w.OwnerID,
		EventID:          w.EventID,
		SpecializationID: w.SpecializationID,
		Maturity:         w.Maturity,
		Status:           w.Status,
		Classified:       classified,
		SubmittableUntil: w.SubmittableUntil,
		Assignments:      make([]AssignmentView, 0, len(w.Assignments)),
	}

	for i, a := range w.Assignments {
		av := AssignmentView{
			Index:    i + 1,
			Solution: a.Solution,
			ScoreMax: a.ScoreMax,
		}
		if !classified {
			score := a.Score
			av.Score = &score
		}
		if problem, ok := byID[a.ProblemID]; ok {
			av.Problem = p.problem(ctx, problem, classified)
		} else {
			p.logger.Warn(ctx, "assignment problem is missing", "workbook_id", w.ID, "problem_id", a.ProblemID)
		}
		view.Assignments = append(view.Assignments, av)
	}

	return view, nil
}

func (p *WorkbookProjector) problem(ctx context.Context, src *models.Problem, classified bool) *ProblemView {
	pv := &ProblemView{
		ID:           src.ID,
		Category:     src.Category,
		Difficulty:   src.Difficulty,
		Expectation:  src.Expectation,
		Introduction: src.Introduction,
		Question:     src.Question,
	}

	// For free-text problems the options are the answer itself.
	if !classified || matcherFor(src.Expectation) != matcherFreeText {
		for _, o := range src.Options {
			ov := OptionView{Content: o.Content}
			if !classified {
				correct := o.Correct
				ov.Correct = &correct
			}
			pv.Options = append(pv.Options, ov)
		}
	}

	for _, img := range src.Images {
		iv := ImageView{Format: img.Format, Width: img.Width, Height: img.Height}
		if p.images != nil {
			url, err := p.images.ImageURL(ctx, img.BinaryID)
			if err != nil {
				p.logger.Warn(ctx, "presign image", "binary_id", img.BinaryID, "error", err)
			} else {
				iv.URL = url
			}
		}
		pv.Images = append(pv.Images, iv)
	}

	return pv
}
