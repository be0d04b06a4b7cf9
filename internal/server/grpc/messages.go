package grpc

import (
	"time"

	"github.com/dmitrijs2005/examkeeper/internal/server/services"
)

// CreateTokenRequest logs in with Email and Password, or with Voucher. When
// a voucher is used NewPassword optionally replaces the account password.
type CreateTokenRequest struct {
	Email       string  `json:"email,omitempty"`
	Password    string  `json:"password,omitempty"`
	Voucher     string  `json:"voucher,omitempty"`
	NewPassword *string `json:"new_password,omitempty"`
}

type CreateTokenResponse struct {
	Token     string    `json:"token"`
	AccountID string    `json:"account_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type DeleteTokenRequest struct{}

type DeleteTokenResponse struct{}

type RequestVoucherRequest struct {
	Email    string `json:"email"`
	Backlink string `json:"backlink,omitempty"`
}

type RequestVoucherResponse struct{}

type CreateWorkbookRequest struct {
	EventID          string `json:"event_id"`
	SpecializationID string `json:"specialization_id"`
	Maturity         string `json:"maturity"`
}

type CreateWorkbookResponse struct {
	WorkbookID string `json:"workbook_id"`
}

type GetWorkbookRequest struct {
	WorkbookID string `json:"workbook_id"`
}

type GetWorkbookResponse struct {
	Workbook *services.WorkbookView `json:"workbook"`
}

// UpdateAssignmentRequest addresses the assignment by its 1-based Index.
// A null Solution clears the answer.
type UpdateAssignmentRequest struct {
	WorkbookID string  `json:"workbook_id"`
	Index      int     `json:"index"`
	Solution   *string `json:"solution"`
}

type UpdateAssignmentResponse struct{}

type UpdateWorkbookStatusRequest struct {
	WorkbookID string `json:"workbook_id"`
	Status     string `json:"status"`
}

type UpdateWorkbookStatusResponse struct{}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}
