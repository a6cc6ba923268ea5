package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/liquifier/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// SubjectKey is the context key for storing the authenticated token subject.
const SubjectKey contextKey = "subject"

// GetSubject extracts the token subject from the context.
// Returns empty string if not found.
func GetSubject(ctx context.Context) string {
	subject, _ := ctx.Value(SubjectKey).(string)
	return subject
}

// RequireAuth returns an interceptor that validates Bearer JWT tokens.
// The token subject is added to the request context.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			// Parse Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := jwtManager.Validate(parts[1])
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			ctx = context.WithValue(ctx, SubjectKey, claims.Subject)
			return next(ctx, req)
		}
	}
}
