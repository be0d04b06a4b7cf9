package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidVoucherPayload = errors.New("invalid voucher payload")

// VoucherClaims is carried inside a voucher payload. The payload is still
// opaque to clients; the signature only lets the server reject forged
// payloads before touching the credential store.
type VoucherClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

type VoucherSigner struct {
	secret []byte
}

func NewVoucherSigner(secret []byte) *VoucherSigner {
	return &VoucherSigner{secret: secret}
}

// Sign produces the payload for voucher id bound to email.
func (s *VoucherSigner) Sign(id, email string, issuedAt, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, VoucherClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: email,
	})
	return token.SignedString(s.secret)
}

// Verify checks signature and algorithm. Expiry is not checked here: the
// credential store owns the expiry decision.
func (s *VoucherSigner) Verify(payload string) (*VoucherClaims, error) {
	claims := &VoucherClaims{}
	token, err := jwt.ParseWithClaims(payload, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	if err != nil || !token.Valid {
		return nil, ErrInvalidVoucherPayload
	}
	return claims, nil
}
