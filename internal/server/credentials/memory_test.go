package credentials

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/examkeeper/internal/common"
	"github.com/dmitrijs2005/examkeeper/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestStore(clock *fakeClock) *MemoryStore {
	return NewMemoryStore(Options{
		TokenValidity:   time.Hour,
		VoucherValidity: 30 * time.Minute,
		Now:             clock.Now,
	})
}

func TestMemoryStore_CreateToken(t *testing.T) {
	clock := newFakeClock()
	s := newTestStore(clock)

	tok, err := s.CreateToken(context.Background(), "acc-1")
	require.NoError(t, err)

	assert.NotEmpty(t, tok.ID)
	assert.NotEmpty(t, tok.Payload)
	assert.NotEqual(t, tok.ID, tok.Payload)
	assert.Equal(t, "acc-1", tok.AccountID)
	assert.Equal(t, clock.Now(), tok.CreatedAt)
	assert.Equal(t, clock.Now().Add(time.Hour), tok.ExpiresAt)

	other, err := s.CreateToken(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.NotEqual(t, tok.Payload, other.Payload)
}

func TestMemoryStore_RetrieveToken_SlidesByExactlyOneWindow(t *testing.T) {
	clock := newFakeClock()
	s := newTestStore(clock)
	ctx := context.Background()

	tok, err := s.CreateToken(ctx, "acc-1")
	require.NoError(t, err)
	initial := tok.ExpiresAt

	for i := 1; i <= 3; i++ {
		clock.Advance(10 * time.Minute)
		got, err := s.RetrieveToken(ctx, tok.Payload)
		require.NoError(t, err)
		assert.Equal(t, initial.Add(time.Duration(i)*time.Hour), got.ExpiresAt)
		assert.Equal(t, "acc-1", got.AccountID)
	}
}

func TestMemoryStore_RetrieveToken_ExpiredIsRemoved(t *testing.T) {
	clock := newFakeClock()
	s := newTestStore(clock)
	ctx := context.Background()

	tok, err := s.CreateToken(ctx, "acc-1")
	require.NoError(t, err)

	clock.Advance(time.Hour + time.Second)

	_, err = s.RetrieveToken(ctx, tok.Payload)
	require.ErrorIs(t, err, common.ErrorNotFoundOrExpired)

	s.mu.Lock()
	_, present := s.tokens[tok.Payload]
	s.mu.Unlock()
	assert.False(t, present, "expired token must be evicted on lookup")
}

func TestMemoryStore_RetrieveToken_AtExactExpiryStillValid(t *testing.T) {
	clock := newFakeClock()
	s := newTestStore(clock)
	ctx := context.Background()

	tok, err := s.CreateToken(ctx, "acc-1")
	require.NoError(t, err)

	clock.Advance(time.Hour)

	_, err = s.RetrieveToken(ctx, tok.Payload)
	require.NoError(t, err)
}

func TestMemoryStore_RetrieveToken_Unknown(t *testing.T) {
	s := newTestStore(newFakeClock())

	_, err := s.RetrieveToken(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrorNotFoundOrExpired)
}

func TestMemoryStore_ReturnedTokenIsACopy(t *testing.T) {
	s := newTestStore(newFakeClock())
	ctx := context.Background()

	tok, err := s.CreateToken(ctx, "acc-1")
	require.NoError(t, err)
	tok.AccountID = "mallory"

	got, err := s.RetrieveToken(ctx, tok.Payload)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", got.AccountID)
}

func TestMemoryStore_DeleteToken_Idempotent(t *testing.T) {
	s := newTestStore(newFakeClock())
	ctx := context.Background()

	tok, err := s.CreateToken(ctx, "acc-1")
	require.NoError(t, err)

	require.NoError(t, s.DeleteToken(ctx, tok.Payload))
	require.NoError(t, s.DeleteToken(ctx, tok.Payload))
	require.NoError(t, s.DeleteToken(ctx, "never-existed"))

	_, err = s.RetrieveToken(ctx, tok.Payload)
	assert.ErrorIs(t, err, common.ErrorNotFoundOrExpired)
}

func TestMemoryStore_PredefinedToken(t *testing.T) {
	clock := newFakeClock()
	ctx := context.Background()

	t.Run("disabled by default", func(t *testing.T) {
		s := NewMemoryStore(Options{
			Predefined: PredefinedToken{Payload: "PREDEFINED", AccountID: "predefined.user"},
			Now:        clock.Now,
		})
		_, err := s.RetrieveToken(ctx, "PREDEFINED")
		assert.ErrorIs(t, err, common.ErrorNotFoundOrExpired)
	})

	t.Run("enabled yields a fresh token each time", func(t *testing.T) {
		s := NewMemoryStore(Options{
			Predefined: PredefinedToken{Enabled: true, Payload: "PREDEFINED", AccountID: "predefined.user"},
			Now:        clock.Now,
		})

		first, err := s.RetrieveToken(ctx, "PREDEFINED")
		require.NoError(t, err)
		second, err := s.RetrieveToken(ctx, "PREDEFINED")
		require.NoError(t, err)

		assert.Equal(t, "predefined.user", first.AccountID)
		assert.NotEqual(t, first.Payload, second.Payload)
		assert.Equal(t, clock.Now().Add(DefaultTokenValidity), first.ExpiresAt)

		s.mu.Lock()
		assert.Empty(t, s.tokens, "predefined tokens are not stored")
		s.mu.Unlock()
	})

	t.Run("empty reserved payload never matches", func(t *testing.T) {
		s := NewMemoryStore(Options{Predefined: PredefinedToken{Enabled: true}, Now: clock.Now})
		_, err := s.RetrieveToken(ctx, "")
		assert.ErrorIs(t, err, common.ErrorNotFoundOrExpired)
	})
}

func TestMemoryStore_Voucher_UtilizedOnce(t *testing.T) {
	clock := newFakeClock()
	s := newTestStore(clock)
	ctx := context.Background()

	v, err := s.CreateVoucher(ctx, "alice@example.com", "https://example.com/restore")
	require.NoError(t, err)
	assert.Equal(t, clock.Now().Add(30*time.Minute), v.ExpiresAt)

	got, err := s.UtilizeVoucher(ctx, v.Payload)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.AccountEmail)
	assert.Equal(t, "https://example.com/restore", got.Backlink)

	_, err = s.UtilizeVoucher(ctx, v.Payload)
	assert.ErrorIs(t, err, common.ErrorNotFoundOrExpired)
}

func TestMemoryStore_Voucher_FixedExpiry(t *testing.T) {
	clock := newFakeClock()
	s := newTestStore(clock)
	ctx := context.Background()

	v, err := s.CreateVoucher(ctx, "alice@example.com", "")
	require.NoError(t, err)

	clock.Advance(31 * time.Minute)

	_, err = s.UtilizeVoucher(ctx, v.Payload)
	require.ErrorIs(t, err, common.ErrorNotFoundOrExpired)

	s.mu.Lock()
	assert.Empty(t, s.vouchers)
	s.mu.Unlock()
}

func TestMemoryStore_Voucher_ConcurrentUtilizeSucceedsOnce(t *testing.T) {
	s := newTestStore(newFakeClock())
	ctx := context.Background()

	v, err := s.CreateVoucher(ctx, "alice@example.com", "")
	require.NoError(t, err)

	const workers = 64
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		failures  atomic.Int32
		start     = make(chan struct{})
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := s.UtilizeVoucher(ctx, v.Payload)
			if err == nil {
				successes.Add(1)
				return
			}
			if assert.ErrorIs(t, err, common.ErrorNotFoundOrExpired) {
				failures.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, int32(workers-1), failures.Load())
}

func TestMemoryStore_Voucher_SignedPayloads(t *testing.T) {
	clock := newFakeClock()
	ctx := context.Background()
	s := NewMemoryStore(Options{
		Signer: auth.NewVoucherSigner([]byte("secret")),
		Now:    clock.Now,
	})

	v, err := s.CreateVoucher(ctx, "bob@example.com", "")
	require.NoError(t, err)

	claims, err := auth.NewVoucherSigner([]byte("secret")).Verify(v.Payload)
	require.NoError(t, err)
	assert.Equal(t, v.ID, claims.ID)

	_, err = s.UtilizeVoucher(ctx, v.Payload+"tampered")
	require.ErrorIs(t, err, common.ErrorNotFoundOrExpired)

	_, err = s.UtilizeVoucher(ctx, v.Payload)
	require.NoError(t, err, "a rejected forgery must not consume the real voucher")
}

func TestMemoryStore_ConcurrentTokenTraffic(t *testing.T) {
	clock := newFakeClock()
	s := newTestStore(clock)
	ctx := context.Background()

	tok, err := s.CreateToken(ctx, "acc-1")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.RetrieveToken(ctx, tok.Payload)
		}()
		go func() {
			defer wg.Done()
			other, err := s.CreateToken(ctx, "acc-2")
			if assert.NoError(t, err) {
				_ = s.DeleteToken(ctx, other.Payload)
			}
		}()
	}
	wg.Wait()

	got, err := s.RetrieveToken(ctx, tok.Payload)
	require.NoError(t, err)
	assert.Equal(t, tok.ExpiresAt.Add(33*time.Hour), got.ExpiresAt)
}
