package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/examkeeper/internal/common"
	"github.com/dmitrijs2005/examkeeper/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const authenticationKey ctxKey = "authentication"

// publicMethods are served without a security token.
var publicMethods = map[string]struct{}{
	FullMethod("CreateToken"):    {},
	FullMethod("RequestVoucher"): {},
	FullMethod("Ping"):           {},
}

// AuthenticationFromContext returns the caller identity stored by the token
// interceptor.
func AuthenticationFromContext(ctx context.Context) (*models.Authentication, bool) {
	a, ok := ctx.Value(authenticationKey).(*models.Authentication)
	return a, ok
}

func withAuthentication(ctx context.Context, a *models.Authentication) context.Context {
	return context.WithValue(ctx, authenticationKey, a)
}

func (s *GRPCServer) securityTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if _, public := publicMethods[info.FullMethod]; public {
		return handler(ctx, req)
	}

	var payload string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.SecurityTokenHeaderName)
		if len(values) > 0 {
			payload = values[0]
		}
	}
	if len(payload) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	auth, err := s.auth.ByToken(ctx, payload)
	if err != nil {
		return nil, s.statusError(ctx, err)
	}

	return handler(withAuthentication(ctx, auth), req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Debug(ctx, "handled", "method", info.FullMethod, "code", status.Code(err).String(), "elapsed", time.Since(start))
	return resp, err
}
