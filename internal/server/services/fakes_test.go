package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/examkeeper/internal/common"
	"github.com/dmitrijs2005/examkeeper/internal/server/models"
)

func strPtr(s string) *string { return &s }

// scriptedSource returns the prepared batches in order, then empty batches.
type scriptedSource struct {
	batches [][]models.Problem
	err     error

	calls   int
	filters []models.ProblemFilter
	counts  []int
}

func (s *scriptedSource) FindRandom(_ context.Context, filter models.ProblemFilter, count int) ([]models.Problem, error) {
	s.calls++
	s.filters = append(s.filters, filter)
	s.counts = append(s.counts, count)
	if s.err != nil {
		return nil, s.err
	}
	if len(s.batches) == 0 {
		return nil, nil
	}
	b := s.batches[0]
	s.batches = s.batches[1:]
	return b, nil
}

// fakeCatalog serves problems from a map. FindRandom returns every matching
// problem up to count, in insertion order.
type fakeCatalog struct {
	mu       sync.Mutex
	order    []string
	problems map[string]models.Problem
	err      error

	findByIDsCalls int
	randomFilters  []models.ProblemFilter
	randomCounts   []int
}

func newFakeCatalog(ps ...models.Problem) *fakeCatalog {
	c := &fakeCatalog{problems: make(map[string]models.Problem)}
	for _, p := range ps {
		c.add(p)
	}
	return c
}

func (c *fakeCatalog) add(p models.Problem) {
	if _, ok := c.problems[p.ID]; !ok {
		c.order = append(c.order, p.ID)
	}
	c.problems[p.ID] = p
}

func (c *fakeCatalog) remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.problems, id)
}

func (c *fakeCatalog) FindByIDs(_ context.Context, ids []string) ([]models.Problem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.findByIDsCalls++
	if c.err != nil {
		return nil, c.err
	}
	var out []models.Problem
	for _, id := range ids {
		if p, ok := c.problems[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *fakeCatalog) FindRandom(_ context.Context, filter models.ProblemFilter, count int) ([]models.Problem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.randomFilters = append(c.randomFilters, filter)
	c.randomCounts = append(c.randomCounts, count)
	if c.err != nil {
		return nil, c.err
	}
	allowed := make(map[models.Category]bool, len(filter.Categories))
	for _, cat := range filter.Categories {
		allowed[cat] = true
	}
	var out []models.Problem
	for _, id := range c.order {
		p, ok := c.problems[id]
		if !ok || p.Difficulty != filter.Difficulty || !allowed[p.Category] {
			continue
		}
		if len(out) == count {
			break
		}
		out = append(out, p)
	}
	return out, nil
}

type fakeSpecializations map[string]*models.Specialization

func (f fakeSpecializations) FindByID(_ context.Context, id string) (*models.Specialization, error) {
	s, ok := f[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return s, nil
}

// fakeWorkbooks stores deep copies, like a real database would.
type fakeWorkbooks struct {
	mu        sync.Mutex
	items     map[string]*models.Workbook
	inserts   int
	replaces  int
	afterFind func()
}

func newFakeWorkbooks() *fakeWorkbooks {
	return &fakeWorkbooks{items: make(map[string]*models.Workbook)}
}

func cloneWorkbook(w *models.Workbook) *models.Workbook {
	c := *w
	c.Assignments = make([]models.Assignment, len(w.Assignments))
	for i, a := range w.Assignments {
		c.Assignments[i] = a
		if a.Solution != nil {
			s := *a.Solution
			c.Assignments[i].Solution = &s
		}
	}
	return &c
}

func (f *fakeWorkbooks) Insert(_ context.Context, w *models.Workbook) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	f.items[w.ID] = cloneWorkbook(w)
	return nil
}

func (f *fakeWorkbooks) FindByID(_ context.Context, id string) (*models.Workbook, error) {
	f.mu.Lock()
	w, ok := f.items[id]
	var c *models.Workbook
	if ok {
		c = cloneWorkbook(w)
	}
	hook := f.afterFind
	f.mu.Unlock()

	if !ok {
		return nil, common.ErrorNotFound
	}
	if hook != nil {
		hook()
	}
	return c, nil
}

func (f *fakeWorkbooks) Replace(_ context.Context, w *models.Workbook) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[w.ID]; !ok {
		return common.ErrorNotFound
	}
	f.replaces++
	f.items[w.ID] = cloneWorkbook(w)
	return nil
}

func (f *fakeWorkbooks) get(id string) *models.Workbook {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneWorkbook(f.items[id])
}

type fakeAccounts struct {
	mu         sync.Mutex
	byID       map[string]*models.Account
	updateErr  error
	updatedIDs []string
}

func newFakeAccounts(as ...*models.Account) *fakeAccounts {
	f := &fakeAccounts{byID: make(map[string]*models.Account)}
	for _, a := range as {
		f.byID[a.ID] = a
	}
	return f
}

func (f *fakeAccounts) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.Email == email {
			c := *a
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccounts) FindByID(_ context.Context, id string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *a
	return &c, nil
}

func (f *fakeAccounts) UpdatePassword(_ context.Context, id, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	a, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	a.PasswordHash = hash
	f.updatedIDs = append(f.updatedIDs, id)
	return nil
}

// plainHasher "hashes" by prefixing, which keeps tests fast and readable.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (plainHasher) Match(password, hash string) bool   { return hash == "hashed:"+password }
