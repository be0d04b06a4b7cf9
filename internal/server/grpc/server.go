package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/examkeeper/internal/logging"
	"github.com/dmitrijs2005/examkeeper/internal/server/models"
	"github.com/dmitrijs2005/examkeeper/internal/server/services"
	"google.golang.org/grpc"
)

// Authenticator is the part of services.AuthService used by the transport.
type Authenticator interface {
	Login(ctx context.Context, req services.LoginRequest) (*models.SecurityToken, *models.Authentication, error)
	Logout(ctx context.Context, payload string) error
	RequestVoucher(ctx context.Context, email, backlink string) error
	ByToken(ctx context.Context, payload string) (*models.Authentication, error)
}

// Workbooks is the part of services.WorkbookService used by the transport.
type Workbooks interface {
	Create(ctx context.Context, eventID, specializationID string, maturity models.Maturity, ownerID string) (string, error)
	SubmitAnswer(ctx context.Context, workbookID string, index int, solution *string) error
	UpdateStatus(ctx context.Context, workbookID string, status models.WorkbookStatus) error
	Retrieve(ctx context.Context, workbookID string) (*services.WorkbookView, error)
	CheckOwner(ctx context.Context, workbookID, accountID string) error
}

type GRPCServer struct {
	address   string
	auth      Authenticator
	workbooks Workbooks
	logger    logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, as Authenticator, ws Workbooks) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		auth:      as,
		workbooks: ws,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.securityTokenInterceptor))
	srv.RegisterService(&ExamServiceDesc, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
