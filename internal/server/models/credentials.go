package models

import "time"

// SecurityToken is a bearer session credential with a sliding expiry.
type SecurityToken struct {
	ID        string    `json:"id"`
	Payload   string    `json:"payload"`
	AccountID string    `json:"account_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (t *SecurityToken) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}

// SecurityVoucher is a single-use credential with a fixed expiry, typically
// delivered by e-mail as part of Backlink.
type SecurityVoucher struct {
	ID           string    `json:"id"`
	Backlink     string    `json:"backlink"`
	AccountEmail string    `json:"account_email"`
	Payload      string    `json:"payload"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (v *SecurityVoucher) Expired(now time.Time) bool {
	return v.ExpiresAt.Before(now)
}
