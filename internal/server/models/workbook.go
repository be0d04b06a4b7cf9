package models

import "time"

// Maturity is the participant's declared seniority.
type Maturity string

const (
	MaturityJunior       Maturity = "JUNIOR"
	MaturityIntermediate Maturity = "INTERMEDIATE"
	MaturitySenior       Maturity = "SENIOR"
	MaturityExpert       Maturity = "EXPERT"
)

// WorkbookStatus values outside the three below are carried unchanged.
type WorkbookStatus string

const (
	WorkbookStatusApproved  WorkbookStatus = "APPROVED"
	WorkbookStatusSubmitted WorkbookStatus = "SUBMITTED"
	WorkbookStatusAssessed  WorkbookStatus = "ASSESSED"
)

// Classified reports whether scores and correct answers must stay hidden.
func (s WorkbookStatus) Classified() bool {
	return s != WorkbookStatusSubmitted && s != WorkbookStatusAssessed
}

// Assignment binds one problem to a workbook. Solution is nil until answered.
type Assignment struct {
	ProblemID string
	Solution  *string
	Score     int
	ScoreMax  int
}

// Workbook is a participant's randomized problem set. The order of
// Assignments is fixed at creation.
type Workbook struct {
	ID               string
	OwnerID          string
	EventID          string
	SpecializationID string
	Maturity         Maturity
	Assignments      []Assignment
	SubmittableUntil time.Time
	Status           WorkbookStatus
	CreatedAt        time.Time
}

// ProblemIDs lists referenced problem ids in assignment order.
func (w *Workbook) ProblemIDs() []string {
	ids := make([]string, 0, len(w.Assignments))
	for _, a := range w.Assignments {
		ids = append(ids, a.ProblemID)
	}
	return ids
}

// Specialization groups the problem categories offered to participants.
type Specialization struct {
	ID                string
	Title             string
	ProblemCategories []Category
}
