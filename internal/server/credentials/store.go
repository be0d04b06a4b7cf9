// Package credentials issues, validates and expires security tokens and
// single-use security vouchers.
//
// Tokens slide: every successful lookup moves the expiry forward by the token
// validity window. Vouchers have a fixed expiry and are consumed by the first
// successful Utilize. Expired entries are evicted lazily, on the next lookup
// of the same payload.
package credentials

import (
	"context"
	"time"

	"github.com/dmitrijs2005/examkeeper/internal/server/auth"
	"github.com/dmitrijs2005/examkeeper/internal/server/models"
	"github.com/google/uuid"
)

// Store is implemented by MemoryStore and RedisStore.
type Store interface {
	// CreateToken issues a token bound to accountID.
	CreateToken(ctx context.Context, accountID string) (*models.SecurityToken, error)

	// RetrieveToken returns the live token for payload and prolongs it.
	// Absent or expired tokens yield common.ErrorNotFoundOrExpired.
	RetrieveToken(ctx context.Context, payload string) (*models.SecurityToken, error)

	// DeleteToken removes a token. Deleting an unknown payload is not an error.
	DeleteToken(ctx context.Context, payload string) error

	// CreateVoucher issues a single-use voucher for the account e-mail.
	CreateVoucher(ctx context.Context, email, backlink string) (*models.SecurityVoucher, error)

	// UtilizeVoucher consumes a voucher. Only one caller ever succeeds for a
	// given payload.
	UtilizeVoucher(ctx context.Context, payload string) (*models.SecurityVoucher, error)
}

// PredefinedToken configures the reserved payload that always resolves to a
// fresh token for a fixed account. It is meant for local development only.
type PredefinedToken struct {
	Enabled   bool
	Payload   string
	AccountID string
}

type Options struct {
	TokenValidity   time.Duration
	VoucherValidity time.Duration
	Predefined      PredefinedToken
	Signer          *auth.VoucherSigner
	Now             func() time.Time
}

const (
	DefaultTokenValidity   = time.Hour
	DefaultVoucherValidity = 24 * time.Hour
)

func (o Options) withDefaults() Options {
	if o.TokenValidity <= 0 {
		o.TokenValidity = DefaultTokenValidity
	}
	if o.VoucherValidity <= 0 {
		o.VoucherValidity = DefaultVoucherValidity
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// issuer holds the logic shared by the backends.
type issuer struct {
	opts Options
}

func (i issuer) newToken(accountID string) *models.SecurityToken {
	now := i.opts.Now()
	return &models.SecurityToken{
		ID:        uuid.NewString(),
		Payload:   uuid.NewString(),
		AccountID: accountID,
		CreatedAt: now,
		ExpiresAt: now.Add(i.opts.TokenValidity),
	}
}

func (i issuer) predefined(payload string) (*models.SecurityToken, bool) {
	p := i.opts.Predefined
	if !p.Enabled || p.Payload == "" || payload != p.Payload {
		return nil, false
	}
	return i.newToken(p.AccountID), true
}

func (i issuer) newVoucher(email, backlink string) (*models.SecurityVoucher, error) {
	now := i.opts.Now()
	v := &models.SecurityVoucher{
		ID:           uuid.NewString(),
		Backlink:     backlink,
		AccountEmail: email,
		CreatedAt:    now,
		ExpiresAt:    now.Add(i.opts.VoucherValidity),
	}
	if i.opts.Signer == nil {
		v.Payload = uuid.NewString()
		return v, nil
	}
	payload, err := i.opts.Signer.Sign(v.ID, email, v.CreatedAt, v.ExpiresAt)
	if err != nil {
		return nil, err
	}
	v.Payload = payload
	return v, nil
}

// forged reports whether payload fails signature verification.
func (i issuer) forged(payload string) bool {
	if i.opts.Signer == nil {
		return false
	}
	_, err := i.opts.Signer.Verify(payload)
	return err != nil
}
