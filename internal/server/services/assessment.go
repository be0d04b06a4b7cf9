package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/examkeeper/internal/common"
	"github.com/dmitrijs2005/examkeeper/internal/server/models"
)

// matcher is the answer-checking strategy derived from a problem's
// expectation.
type matcher int

const (
	matcherUnscorable matcher = iota
	matcherFreeText
	matcherSingleChoice
	matcherMultipleChoice
)

func matcherFor(e models.Expectation) matcher {
	switch e {
	case models.ExpectationNumber, models.ExpectationText, models.ExpectationString, models.ExpectationCode:
		return matcherFreeText
	case models.ExpectationSingle:
		return matcherSingleChoice
	case models.ExpectationMultiple:
		return matcherMultipleChoice
	default:
		return matcherUnscorable
	}
}

// Matches reports whether solution is the correct answer to p. A nil
// solution never matches.
func Matches(p *models.Problem, solution *string) bool {
	if solution == nil {
		return false
	}
	m := matcherFor(p.Expectation)
	switch m {
	case matcherFreeText:
		return matchFreeText(p.Options, *solution)
	case matcherSingleChoice:
		return matchSingleChoice(p.Options, *solution)
	case matcherMultipleChoice:
		return matchMultipleChoice(p.Options, *solution)
	case matcherUnscorable:
		return false
	default:
		panic(fmt.Sprintf("unhandled matcher %d", m))
	}
}

// The first option holds the canonical free-text answer.
func matchFreeText(options []models.Option, solution string) bool {
	if len(options) == 0 {
		return false
	}
	return solution == options[0].Content
}

func matchSingleChoice(options []models.Option, solution string) bool {
	return solution == AnswerMask(options)
}

func matchMultipleChoice(options []models.Option, solution string) bool {
	return solution == AnswerMask(options)
}

// AnswerMask encodes the correct options as '1' and the others as '0', in
// option order. Clients submit choice answers in the same encoding.
func AnswerMask(options []models.Option) string {
	var b strings.Builder
	b.Grow(len(options))
	for _, o := range options {
		if o.Correct {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Assessor scores workbooks against the problem catalog.
type Assessor struct {
	problems ProblemFinder
}

func NewAssessor(problems ProblemFinder) *Assessor {
	return &Assessor{problems: problems}
}

// Assess sets every assignment's score to its maximum on a correct
// solution and to zero otherwise. Problems are fetched in one batch. If any
// referenced problem is missing the workbook is left untouched and an error
// wrapping common.ErrorProblemMissing is returned.
func (a *Assessor) Assess(ctx context.Context, w *models.Workbook) error {
	if len(w.Assignments) == 0 {
		return nil
	}

	fetched, err := a.problems.FindByIDs(ctx, w.ProblemIDs())
	if err != nil {
		return fmt.Errorf("load problems: %w", err)
	}
	byID := make(map[string]*models.Problem, len(fetched))
	for i := range fetched {
		byID[fetched[i].ID] = &fetched[i]
	}

	scores := make([]int, len(w.Assignments))
	for i, as := range w.Assignments {
		p, ok := byID[as.ProblemID]
		if !ok {
			return fmt.Errorf("%w: %s", common.ErrorProblemMissing, as.ProblemID)
		}
		if Matches(p, as.Solution) {
			scores[i] = as.ScoreMax
		}
	}

	for i := range w.Assignments {
		w.Assignments[i].Score = scores[i]
	}
	return nil
}
