package credentials

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/examkeeper/internal/common"
	"github.com/dmitrijs2005/examkeeper/internal/server/models"
)

// MemoryStore keeps credentials in process memory. A single mutex guards
// both maps so that check-expired-then-remove, prolongation and voucher
// consumption are atomic per payload.
type MemoryStore struct {
	issuer

	mu       sync.Mutex
	tokens   map[string]*models.SecurityToken
	vouchers map[string]*models.SecurityVoucher
}

func NewMemoryStore(opts Options) *MemoryStore {
	return &MemoryStore{
		issuer:   issuer{opts: opts.withDefaults()},
		tokens:   make(map[string]*models.SecurityToken),
		vouchers: make(map[string]*models.SecurityVoucher),
	}
}

func (s *MemoryStore) CreateToken(_ context.Context, accountID string) (*models.SecurityToken, error) {
	t := s.newToken(accountID)

	s.mu.Lock()
	s.tokens[t.Payload] = t
	s.mu.Unlock()

	c := *t
	return &c, nil
}

func (s *MemoryStore) RetrieveToken(_ context.Context, payload string) (*models.SecurityToken, error) {
	if t, ok := s.predefined(payload); ok {
		return t, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tokens[payload]
	if !ok {
		return nil, common.ErrorNotFoundOrExpired
	}
	if t.Expired(s.opts.Now()) {
		delete(s.tokens, payload)
		return nil, common.ErrorNotFoundOrExpired
	}

	t.ExpiresAt = t.ExpiresAt.Add(s.opts.TokenValidity)
	c := *t
	return &c, nil
}

func (s *MemoryStore) DeleteToken(_ context.Context, payload string) error {
	s.mu.Lock()
	delete(s.tokens, payload)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) CreateVoucher(_ context.Context, email, backlink string) (*models.SecurityVoucher, error) {
	v, err := s.newVoucher(email, backlink)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.vouchers[v.Payload] = v
	s.mu.Unlock()

	c := *v
	return &c, nil
}

func (s *MemoryStore) UtilizeVoucher(_ context.Context, payload string) (*models.SecurityVoucher, error) {
	if s.forged(payload) {
		return nil, common.ErrorNotFoundOrExpired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.vouchers[payload]
	if !ok {
		return nil, common.ErrorNotFoundOrExpired
	}
	delete(s.vouchers, payload)
	if v.Expired(s.opts.Now()) {
		return nil, common.ErrorNotFoundOrExpired
	}
	return v, nil
}
