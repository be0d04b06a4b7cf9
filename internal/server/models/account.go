package models

type AccountStatus string

const (
	AccountStatusApproved  AccountStatus = "APPROVED"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
	AccountStatusBanned    AccountStatus = "BANNED"
	AccountStatusDeleted   AccountStatus = "DELETED"
)

type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Status       AccountStatus
}

// AuthenticationMethod tags how an Authentication was obtained.
type AuthenticationMethod string

const (
	AuthenticationMethodPassword AuthenticationMethod = "PASSWORD"
	AuthenticationMethodToken    AuthenticationMethod = "TOKEN"
	AuthenticationMethodVoucher  AuthenticationMethod = "VOUCHER"
)

// Authentication is the identity produced by the authentication gateway.
type Authentication struct {
	AccountID      string
	AccountEmail   string
	Method         AuthenticationMethod
	TokenPayload   string
	VoucherPayload string
}
