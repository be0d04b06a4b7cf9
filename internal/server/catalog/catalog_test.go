package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/examkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `
specializations:
  - id: backend
    title: Backend engineer
    categories: [GO, SQL]
problems:
  - id: go-1
    category: GO
    difficulty: EASY
    expectation: MULTIPLE
    question: Which are Go primitives?
    options:
      - {content: goroutine, correct: true}
      - {content: thread}
      - {content: channel, correct: true}
    images:
      - {binary_id: img-1, format: png, width: 640, height: 480}
  - id: sql-1
    category: SQL
    difficulty: HARD
    expectation: NUMBER
    introduction: Aggregates
    question: SELECT COUNT(*) FROM (VALUES (1),(2)) t?
    options:
      - {content: "2", correct: true}
accounts:
  - id: acc-1
    email: Alice@Example.com
    password_hash: $2a$10$abcdefghijklmnopqrstuv
  - id: acc-2
    email: bob@example.com
    password_hash: $2a$10$abcdefghijklmnopqrstuv
    status: SUSPENDED
`

func TestParse_Sample(t *testing.T) {
	f, err := Parse(strings.NewReader(sampleCatalog))
	require.NoError(t, err)

	require.Len(t, f.Specializations, 1)
	assert.Equal(t, &models.Specialization{
		ID: "backend", Title: "Backend engineer", ProblemCategories: []models.Category{"GO", "SQL"},
	}, f.Specializations[0].model())

	require.Len(t, f.Problems, 2)
	p := f.Problems[0].model()
	assert.Equal(t, models.DifficultyEasy, p.Difficulty)
	assert.Equal(t, models.ExpectationMultiple, p.Expectation)
	assert.Equal(t, []models.Option{
		{Content: "goroutine", Correct: true}, {Content: "thread"}, {Content: "channel", Correct: true},
	}, p.Options)
	assert.Equal(t, []models.Image{{BinaryID: "img-1", Format: "png", Width: 640, Height: 480}}, p.Images)
	assert.Equal(t, "Aggregates", f.Problems[1].model().Introduction)

	require.Len(t, f.Accounts, 2)
	assert.Equal(t, models.AccountStatusApproved, f.Accounts[0].model().Status, "status defaults to APPROVED")
	assert.Equal(t, models.AccountStatusSuspended, f.Accounts[1].model().Status)
}

func TestParse_Empty(t *testing.T) {
	f, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Problems)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"unknown key", "problemz: []", "decode catalog"},
		{"malformed", "problems: [", "decode catalog"},
		{"problem without id", "problems:\n  - difficulty: EASY\n    expectation: TEXT", "problem without id"},
		{"bad difficulty", "problems:\n  - {id: p, difficulty: TRIVIAL, expectation: TEXT}", `unknown difficulty "TRIVIAL"`},
		{"bad expectation", "problems:\n  - {id: p, difficulty: EASY, expectation: ESSAY}", `unknown expectation "ESSAY"`},
		{"duplicate problem", "problems:\n  - {id: p, difficulty: EASY, expectation: TEXT}\n  - {id: p, difficulty: EASY, expectation: TEXT}", `duplicate problem "p"`},
		{"account without hash", "accounts:\n  - {id: a, email: a@example.com}", "password_hash are required"},
		{"bad status", "accounts:\n  - {id: a, email: a@example.com, password_hash: h, status: ACTIVE}", `unknown status "ACTIVE"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParse_SameIDAcrossKindsIsAllowed(t *testing.T) {
	doc := "specializations:\n  - {id: x}\nproblems:\n  - {id: x, difficulty: EASY, expectation: TEXT}"
	_, err := Parse(strings.NewReader(doc))
	assert.NoError(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o600))

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, f.Problems, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
