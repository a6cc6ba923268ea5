package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call.
// It logs the procedure name, duration, and any error codes/messages.
// Install it before RequireAuth so rejected calls are logged too; the token
// subject is logged by the handlers, which run after authentication.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			duration := time.Since(start).Milliseconds()
			if err != nil {
				var connectErr *connect.Error
				if errors.As(err, &connectErr) {
					slog.Warn("RPC error",
						"procedure", procedure,
						"code", connectErr.Code(),
						"error", connectErr.Message(),
						"duration_ms", duration,
					)
				} else {
					slog.Error("RPC error",
						"procedure", procedure,
						"error", err,
						"duration_ms", duration,
					)
				}
			} else {
				slog.Info("RPC ok",
					"procedure", procedure,
					"duration_ms", duration,
				)
			}

			return resp, err
		}
	}
}
