// Package models defines the server-side domain and persistence models.
package models

// Difficulty is ordered: EASY < MODERATE < HARD < ULTIMATE.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "EASY"
	DifficultyModerate Difficulty = "MODERATE"
	DifficultyHard     Difficulty = "HARD"
	DifficultyUltimate Difficulty = "ULTIMATE"
)

// Expectation tells what kind of answer a problem expects.
type Expectation string

const (
	ExpectationNumber   Expectation = "NUMBER"
	ExpectationText     Expectation = "TEXT"
	ExpectationString   Expectation = "STRING"
	ExpectationCode     Expectation = "CODE"
	ExpectationSingle   Expectation = "SINGLE"
	ExpectationMultiple Expectation = "MULTIPLE"
)

// Category is an opaque problem category tag, e.g. "JAVA" or "SQL".
type Category string

// Option is one answer option of a problem. For free-text problems the first
// option holds the canonical answer.
type Option struct {
	Content string `json:"content" yaml:"content"`
	Correct bool   `json:"correct" yaml:"correct"`
}

// Image references a binary stored in object storage.
type Image struct {
	BinaryID string `json:"binary_id" yaml:"binary_id"`
	Format   string `json:"format" yaml:"format"`
	Width    int    `json:"width" yaml:"width"`
	Height   int    `json:"height" yaml:"height"`
}

// Problem is owned by the catalog and read-only to the workbook engine.
type Problem struct {
	ID           string
	Category     Category
	Difficulty   Difficulty
	Expectation  Expectation
	Introduction string
	Question     string
	Options      []Option
	Images       []Image
}

// ProblemFilter selects candidate problems for random sampling.
type ProblemFilter struct {
	Categories []Category
	Difficulty Difficulty
}
