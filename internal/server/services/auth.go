package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/examkeeper/internal/common"
	"github.com/dmitrijs2005/examkeeper/internal/logging"
	"github.com/dmitrijs2005/examkeeper/internal/server/credentials"
	"github.com/dmitrijs2005/examkeeper/internal/server/models"
)

var illegalAccountStatuses = map[models.AccountStatus]struct{}{
	models.AccountStatusSuspended: {},
	models.AccountStatusBanned:    {},
	models.AccountStatusDeleted:   {},
}

// VoucherNotifier delivers a freshly issued voucher to its account.
type VoucherNotifier interface {
	NotifyVoucher(ctx context.Context, v *models.SecurityVoucher) error
}

// LogVoucherNotifier writes the voucher link to the log instead of sending
// mail. Suitable for development setups only.
type LogVoucherNotifier struct {
	logger logging.Logger
}

func NewLogVoucherNotifier(logger logging.Logger) *LogVoucherNotifier {
	return &LogVoucherNotifier{logger: logger.With("module", "vouchers")}
}

func (n *LogVoucherNotifier) NotifyVoucher(ctx context.Context, v *models.SecurityVoucher) error {
	n.logger.Info(ctx, "voucher issued", "email", v.AccountEmail, "link", VoucherLink(v), "expires_at", v.ExpiresAt)
	return nil
}

// VoucherLink appends the voucher payload to its backlink as the "voucher"
// query parameter.
func VoucherLink(v *models.SecurityVoucher) string {
	u, err := url.Parse(v.Backlink)
	if err != nil || v.Backlink == "" {
		return v.Payload
	}
	q := u.Query()
	q.Set("voucher", v.Payload)
	u.RawQuery = q.Encode()
	return u.String()
}

// LoginRequest authenticates either with Email and Password or with a
// Voucher. NewPassword is only honoured together with a voucher.
type LoginRequest struct {
	Email       string
	Password    string
	Voucher     string
	NewPassword *string
}

// AuthService resolves credentials to an authenticated account.
type AuthService struct {
	accounts AccountRepository
	hasher   PasswordHasher
	store    credentials.Store
	notifier VoucherNotifier
	logger   logging.Logger
}

func NewAuthService(accounts AccountRepository, hasher PasswordHasher, store credentials.Store, notifier VoucherNotifier, logger logging.Logger) *AuthService {
	return &AuthService{
		accounts: accounts,
		hasher:   hasher,
		store:    store,
		notifier: notifier,
		logger:   logger.With("module", "auth"),
	}
}

// ByPassword returns common.ErrorInvalidCredentials both for an unknown
// e-mail and for a wrong password.
func (s *AuthService) ByPassword(ctx context.Context, email, password string) (*models.Authentication, error) {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidCredentials
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	if !s.hasher.Match(password, account.PasswordHash) {
		return nil, common.ErrorInvalidCredentials
	}
	if err := checkStatus(account); err != nil {
		return nil, err
	}

	return &models.Authentication{
		AccountID:    account.ID,
		AccountEmail: account.Email,
		Method:       models.AuthenticationMethodPassword,
	}, nil
}

func (s *AuthService) ByToken(ctx context.Context, payload string) (*models.Authentication, error) {
	token, err := s.store.RetrieveToken(ctx, payload)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.FindByID(ctx, token.AccountID)
	if err != nil {
		return nil, accountLookupError(err)
	}
	if err := checkStatus(account); err != nil {
		return nil, err
	}

	return &models.Authentication{
		AccountID:    account.ID,
		AccountEmail: account.Email,
		Method:       models.AuthenticationMethodToken,
		TokenPayload: token.Payload,
	}, nil
}

// ByVoucher consumes the voucher. The voucher is spent even if the account
// turns out to be missing or locked.
func (s *AuthService) ByVoucher(ctx context.Context, payload string, newPassword *string) (*models.Authentication, error) {
	voucher, err := s.store.UtilizeVoucher(ctx, payload)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.FindByEmail(ctx, voucher.AccountEmail)
	if err != nil {
		return nil, accountLookupError(err)
	}
	if err := checkStatus(account); err != nil {
		return nil, err
	}

	if newPassword != nil {
		hash, err := s.hasher.Hash(*newPassword)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		if err := s.accounts.UpdatePassword(ctx, account.ID, hash); err != nil {
			return nil, fmt.Errorf("update password: %w", err)
		}
		s.logger.Info(ctx, "password updated via voucher", "account_id", account.ID)
	}

	return &models.Authentication{
		AccountID:      account.ID,
		AccountEmail:   account.Email,
		Method:         models.AuthenticationMethodVoucher,
		VoucherPayload: voucher.Payload,
	}, nil
}

// Login authenticates by voucher when one is given, by password otherwise,
// and issues a session token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*models.SecurityToken, *models.Authentication, error) {
	var (
		auth *models.Authentication
		err  error
	)
	if req.Voucher != "" {
		auth, err = s.ByVoucher(ctx, req.Voucher, req.NewPassword)
	} else {
		auth, err = s.ByPassword(ctx, req.Email, req.Password)
	}
	if err != nil {
		s.logger.Debug(ctx, "login rejected", "error", err)
		return nil, nil, err
	}

	token, err := s.store.CreateToken(ctx, auth.AccountID)
	if err != nil {
		return nil, nil, fmt.Errorf("create token: %w", err)
	}
	auth.TokenPayload = token.Payload

	s.logger.Info(ctx, "logged in", "account_id", auth.AccountID, "method", auth.Method)
	return token, auth, nil
}

func (s *AuthService) Logout(ctx context.Context, payload string) error {
	return s.store.DeleteToken(ctx, payload)
}

// RequestVoucher issues a voucher for the account with the given e-mail and
// hands it to the notifier. Unknown or locked accounts are ignored without
// error so that callers cannot probe which e-mails exist.
func (s *AuthService) RequestVoucher(ctx context.Context, email, backlink string) error {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Debug(ctx, "voucher requested for unknown account")
			return nil
		}
		return fmt.Errorf("find account: %w", err)
	}
	if checkStatus(account) != nil {
		s.logger.Debug(ctx, "voucher requested for locked account", "account_id", account.ID)
		return nil
	}

	voucher, err := s.store.CreateVoucher(ctx, account.Email, backlink)
	if err != nil {
		return fmt.Errorf("create voucher: %w", err)
	}
	if err := s.notifier.NotifyVoucher(ctx, voucher); err != nil {
		return fmt.Errorf("notify voucher: %w", err)
	}
	return nil
}

func checkStatus(a *models.Account) error {
	if _, illegal := illegalAccountStatuses[a.Status]; illegal {
		return common.ErrorIllegalAccountStatus
	}
	return nil
}

func accountLookupError(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorAccountMissing
	}
	return fmt.Errorf("find account: %w", err)
}
