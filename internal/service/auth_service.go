package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mmynk/liquifier/internal/auth"
)

const (
	// AuthServiceName is the fully-qualified name of the auth service.
	AuthServiceName = "liquifier.v1.AuthService"

	// LoginProcedure is the full procedure path of Login.
	LoginProcedure = "/" + AuthServiceName + "/Login"
)

// AuthService exchanges the operator password for a bearer token.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
	}
}

// NewAuthServiceHandler builds an HTTP handler for the auth service and
// returns the path to mount it on.
func NewAuthServiceHandler(svc *AuthService, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(LoginProcedure, connect.NewUnaryHandler(LoginProcedure, svc.Login, opts...))
	return "/" + AuthServiceName + "/", mux
}

// Login checks the "password" field and returns "token" and "expires_at"
// (Unix seconds).
func (s *AuthService) Login(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	password := req.Msg.GetFields()["password"].GetStringValue()
	if password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	subject, err := s.authenticator.Authenticate(password)
	if err != nil {
		slog.Warn("Login failed", "error", err)
		if errors.Is(err, auth.ErrNoPasswordHash) {
			return nil, connect.NewError(connect.CodeFailedPrecondition, err)
		}
		return nil, connect.NewError(connect.CodeUnauthenticated, err)
	}

	token, expiresAt, err := s.jwtManager.Generate(subject)
	if err != nil {
		slog.Error("Failed to generate token", "subject", subject, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	resp, err := structpb.NewStruct(map[string]any{
		"token":      token,
		"expires_at": expiresAt.Unix(),
	})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Login succeeded", "subject", subject)
	return connect.NewResponse(resp), nil
}
