// Package catalog loads the YAML seed file with specializations, problems
// and accounts and upserts it into the database at start-up.
package catalog

import (
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/examkeeper/internal/server/models"
	"gopkg.in/yaml.v3"
)

type Specialization struct {
	ID         string            `yaml:"id"`
	Title      string            `yaml:"title"`
	Categories []models.Category `yaml:"categories"`
}

type Problem struct {
	ID           string          `yaml:"id"`
	Category     models.Category `yaml:"category"`
	Difficulty   string          `yaml:"difficulty"`
	Expectation  string          `yaml:"expectation"`
	Introduction string          `yaml:"introduction"`
	Question     string          `yaml:"question"`
	Options      []models.Option `yaml:"options"`
	Images       []models.Image  `yaml:"images"`
}

// Account carries a bcrypt hash produced by cmd/hashpw, never a plain
// password.
type Account struct {
	ID           string `yaml:"id"`
	Email        string `yaml:"email"`
	PasswordHash string `yaml:"password_hash"`
	Status       string `yaml:"status"`
}

type File struct {
	Specializations []Specialization `yaml:"specializations"`
	Problems        []Problem        `yaml:"problems"`
	Accounts        []Account        `yaml:"accounts"`
}

var (
	difficulties = map[models.Difficulty]bool{
		models.DifficultyEasy: true, models.DifficultyModerate: true,
		models.DifficultyHard: true, models.DifficultyUltimate: true,
	}
	expectations = map[models.Expectation]bool{
		models.ExpectationNumber: true, models.ExpectationText: true, models.ExpectationString: true,
		models.ExpectationCode: true, models.ExpectationSingle: true, models.ExpectationMultiple: true,
	}
	accountStatuses = map[models.AccountStatus]bool{
		models.AccountStatusApproved: true, models.AccountStatusSuspended: true,
		models.AccountStatusBanned: true, models.AccountStatusDeleted: true,
	}
)

func LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes and validates a catalog document. Unknown keys are rejected.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) Validate() error {
	seen := make(map[string]bool)
	unique := func(kind, id string) error {
		if id == "" {
			return fmt.Errorf("%s without id", kind)
		}
		key := kind + "/" + id
		if seen[key] {
			return fmt.Errorf("duplicate %s %q", kind, id)
		}
		seen[key] = true
		return nil
	}

	for _, s := range f.Specializations {
		if err := unique("specialization", s.ID); err != nil {
			return err
		}
	}
	for _, p := range f.Problems {
		if err := unique("problem", p.ID); err != nil {
			return err
		}
		if !difficulties[models.Difficulty(p.Difficulty)] {
			return fmt.Errorf("problem %q: unknown difficulty %q", p.ID, p.Difficulty)
		}
		if !expectations[models.Expectation(p.Expectation)] {
			return fmt.Errorf("problem %q: unknown expectation %q", p.ID, p.Expectation)
		}
	}
	for _, a := range f.Accounts {
		if err := unique("account", a.ID); err != nil {
			return err
		}
		if a.Email == "" || a.PasswordHash == "" {
			return fmt.Errorf("account %q: email and password_hash are required", a.ID)
		}
		if a.Status != "" && !accountStatuses[models.AccountStatus(a.Status)] {
			return fmt.Errorf("account %q: unknown status %q", a.ID, a.Status)
		}
	}
	return nil
}

func (s Specialization) model() *models.Specialization {
	return &models.Specialization{ID: s.ID, Title: s.Title, ProblemCategories: s.Categories}
}

func (p Problem) model() *models.Problem {
	return &models.Problem{
		ID:           p.ID,
		Category:     p.Category,
		Difficulty:   models.Difficulty(p.Difficulty),
		Expectation:  models.Expectation(p.Expectation),
		Introduction: p.Introduction,
		Question:     p.Question,
		Options:      p.Options,
		Images:       p.Images,
	}
}

// model defaults an empty status to APPROVED.
func (a Account) model() *models.Account {
	status := models.AccountStatus(a.Status)
	if status == "" {
		status = models.AccountStatusApproved
	}
	return &models.Account{ID: a.ID, Email: a.Email, PasswordHash: a.PasswordHash, Status: status}
}
