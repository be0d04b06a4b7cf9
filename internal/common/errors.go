// Package common defines sentinel errors and shared constants used by the
// examkeeper server layers. Callers should match errors with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal         = errors.New("internal error")
	ErrorInvalidArgument  = errors.New("invalid argument")
	ErrorPermissionDenied = errors.New("permission denied")

	// Assessment errors.
	ErrorProblemMissing = errors.New("referenced problem is missing")

	// Workbook lifecycle errors.
	ErrorIllegalTransition = errors.New("workbook cannot return to APPROVED")

	// Authentication errors. ErrorInvalidCredentials is returned both for an
	// unknown account and for a wrong password.
	ErrorInvalidCredentials   = errors.New("account is missing or password is incorrect")
	ErrorIllegalAccountStatus = errors.New("account cannot be accessed due to its status")
	ErrorAccountMissing       = errors.New("account is missing")

	// Credential lifecycle errors.
	ErrorNotFoundOrExpired = errors.New("credential is expired or does not exist")
)
