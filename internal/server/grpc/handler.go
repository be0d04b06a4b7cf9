package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/examkeeper/internal/common"
	"github.com/dmitrijs2005/examkeeper/internal/server/models"
	"github.com/dmitrijs2005/examkeeper/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// statusError maps service errors to gRPC codes. Unexpected errors are
// logged and reported as Internal without details.
func (s *GRPCServer) statusError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrorInvalidCredentials),
		errors.Is(err, common.ErrorNotFoundOrExpired),
		errors.Is(err, common.ErrorAccountMissing):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrorIllegalAccountStatus),
		errors.Is(err, common.ErrorPermissionDenied):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, common.ErrorInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorProblemMissing),
		errors.Is(err, common.ErrorIllegalTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	}

	s.logger.Error(ctx, err.Error())
	return status.Error(codes.Internal, "internal error")
}

func (s *GRPCServer) caller(ctx context.Context) (*models.Authentication, error) {
	auth, ok := AuthenticationFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}
	return auth, nil
}

// owned resolves the caller and checks that they own the workbook.
func (s *GRPCServer) owned(ctx context.Context, workbookID string) error {
	if workbookID == "" {
		return status.Error(codes.InvalidArgument, "workbook_id is required")
	}
	auth, err := s.caller(ctx)
	if err != nil {
		return err
	}
	if err := s.workbooks.CheckOwner(ctx, workbookID, auth.AccountID); err != nil {
		return s.statusError(ctx, err)
	}
	return nil
}

func (s *GRPCServer) CreateToken(ctx context.Context, req *CreateTokenRequest) (*CreateTokenResponse, error) {
	token, auth, err := s.auth.Login(ctx, services.LoginRequest{
		Email:       req.Email,
		Password:    req.Password,
		Voucher:     req.Voucher,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return nil, s.statusError(ctx, err)
	}

	s.logger.Info(ctx, "Token issued", "account_id", auth.AccountID, "method", auth.Method)
	return &CreateTokenResponse{Token: token.Payload, AccountID: token.AccountID, ExpiresAt: token.ExpiresAt}, nil
}

func (s *GRPCServer) DeleteToken(ctx context.Context, req *DeleteTokenRequest) (*DeleteTokenResponse, error) {
	auth, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.auth.Logout(ctx, auth.TokenPayload); err != nil {
		return nil, s.statusError(ctx, err)
	}

	return &DeleteTokenResponse{}, nil
}

func (s *GRPCServer) RequestVoucher(ctx context.Context, req *RequestVoucherRequest) (*RequestVoucherResponse, error) {
	if req.Email == "" {
		return nil, status.Error(codes.InvalidArgument, "email is required")
	}
	if err := s.auth.RequestVoucher(ctx, req.Email, req.Backlink); err != nil {
		return nil, s.statusError(ctx, err)
	}

	return &RequestVoucherResponse{}, nil
}

func (s *GRPCServer) CreateWorkbook(ctx context.Context, req *CreateWorkbookRequest) (*CreateWorkbookResponse, error) {
	auth, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	if req.EventID == "" || req.SpecializationID == "" || req.Maturity == "" {
		return nil, status.Error(codes.InvalidArgument, "event_id, specialization_id and maturity are required")
	}

	id, err := s.workbooks.Create(ctx, req.EventID, req.SpecializationID, models.Maturity(req.Maturity), auth.AccountID)
	if err != nil {
		return nil, s.statusError(ctx, err)
	}

	return &CreateWorkbookResponse{WorkbookID: id}, nil
}

func (s *GRPCServer) GetWorkbook(ctx context.Context, req *GetWorkbookRequest) (*GetWorkbookResponse, error) {
	if err := s.owned(ctx, req.WorkbookID); err != nil {
		return nil, err
	}

	view, err := s.workbooks.Retrieve(ctx, req.WorkbookID)
	if err != nil {
		return nil, s.statusError(ctx, err)
	}

	return &GetWorkbookResponse{Workbook: view}, nil
}

func (s *GRPCServer) UpdateAssignment(ctx context.Context, req *UpdateAssignmentRequest) (*UpdateAssignmentResponse, error) {
	if err := s.owned(ctx, req.WorkbookID); err != nil {
		return nil, err
	}

	if err := s.workbooks.SubmitAnswer(ctx, req.WorkbookID, req.Index, req.Solution); err != nil {
		return nil, s.statusError(ctx, err)
	}

	return &UpdateAssignmentResponse{}, nil
}

func (s *GRPCServer) UpdateWorkbookStatus(ctx context.Context, req *UpdateWorkbookStatusRequest) (*UpdateWorkbookStatusResponse, error) {
	if err := s.owned(ctx, req.WorkbookID); err != nil {
		return nil, err
	}
	if req.Status == "" {
		return nil, status.Error(codes.InvalidArgument, "status is required")
	}

	if err := s.workbooks.UpdateStatus(ctx, req.WorkbookID, models.WorkbookStatus(req.Status)); err != nil {
		return nil, s.statusError(ctx, err)
	}

	return &UpdateWorkbookStatusResponse{}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *PingRequest) (*PingResponse, error) {
	return &PingResponse{Status: "OK"}, nil
}
