package grpc

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/examkeeper/internal/common"
	"github.com/dmitrijs2005/examkeeper/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newInterceptorServer() *GRPCServer {
	return newServer(&fakeAuth{tokens: map[string]*models.Authentication{
		"good": {AccountID: "acc-1", Method: models.AuthenticationMethodToken, TokenPayload: "good"},
	}}, &fakeWorkbooks{})
}

func TestInterceptor_PublicMethodsSkipToken(t *testing.T) {
	s := newInterceptorServer()

	for _, m := range []string{"CreateToken", "RequestVoucher", "Ping"} {
		handlerCalled := false
		h := func(ctx context.Context, req any) (any, error) {
			handlerCalled = true
			if _, ok := AuthenticationFromContext(ctx); ok {
				t.Fatalf("%s: unexpected authentication in context", m)
			}
			return "ok", nil
		}

		resp, err := s.securityTokenInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: FullMethod(m)}, h)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", m, err)
		}
		if !handlerCalled || resp != "ok" {
			t.Fatalf("%s: handler not called", m)
		}
	}
}

func TestInterceptor_MissingToken(t *testing.T) {
	s := newInterceptorServer()

	h := func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler should not be called when token missing")
		return nil, nil
	}

	_, err := s.securityTokenInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: FullMethod("GetWorkbook")}, h)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", status.Code(err))
	}
	if status.Convert(err).Message() != "missing token" {
		t.Fatalf("expected 'missing token', got %q", status.Convert(err).Message())
	}
}

func TestInterceptor_UnknownToken(t *testing.T) {
	s := newInterceptorServer()

	md := metadata.New(map[string]string{common.SecurityTokenHeaderName: "stale"})
	ctx := metadata.NewIncomingContext(context.Background(), md)

	h := func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler should not be called for an unknown token")
		return nil, nil
	}

	_, err := s.securityTokenInterceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: FullMethod("CreateWorkbook")}, h)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", status.Code(err))
	}
}

func TestInterceptor_ValidTokenStoresAuthentication(t *testing.T) {
	s := newInterceptorServer()

	md := metadata.New(map[string]string{common.SecurityTokenHeaderName: "good"})
	ctx := metadata.NewIncomingContext(context.Background(), md)

	var got *models.Authentication
	h := func(ctx context.Context, req any) (any, error) {
		got, _ = AuthenticationFromContext(ctx)
		return "ok", nil
	}

	if _, err := s.securityTokenInterceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: FullMethod("DeleteToken")}, h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.AccountID != "acc-1" || got.TokenPayload != "good" {
		t.Fatalf("authentication not propagated: %+v", got)
	}
}
