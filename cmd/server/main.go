package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/liquifier/internal/auth"
	"github.com/mmynk/liquifier/internal/config"
	"github.com/mmynk/liquifier/internal/metrics"
	"github.com/mmynk/liquifier/internal/middleware"
	"github.com/mmynk/liquifier/internal/service"
	"github.com/mmynk/liquifier/internal/source"
	"github.com/mmynk/liquifier/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		logging.SetupWithLevel(os.Stderr, slog.LevelInfo, false)
		return err
	}

	closeLog, err := logging.Setup(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer closeLog()

	querier, closeSource, err := source.Open(cfg)
	if err != nil {
		return err
	}
	defer closeSource()
	slog.Info("Node source ready", "source", cfg.NodeSource)

	m := metrics.New()
	reportSvc := service.NewReportService(querier, service.ReportConfig{
		MaximumPayment: cfg.MaximumPaymentAmount,
		Location:       cfg.Location,
	}, m)

	mux := http.NewServeMux()

	interceptors := []connect.Interceptor{middleware.LoggingInterceptor()}
	if cfg.AuthEnabled() {
		jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
		authSvc := service.NewAuthService(auth.NewPasswordAuthenticator(cfg.OperatorPasswordHash), jwtManager)

		authPath, authHandler := service.NewAuthServiceHandler(authSvc,
			connect.WithInterceptors(middleware.LoggingInterceptor()))
		mux.Handle(authPath, authHandler)

		interceptors = append(interceptors, middleware.RequireAuth(jwtManager))
		slog.Info("Bearer token authentication enabled", "token_ttl", cfg.TokenTTL)
	} else {
		slog.Warn("JWT_SECRET not set, report endpoint is unauthenticated")
	}

	reportPath, reportHandler := service.NewReportServiceHandler(reportSvc, connect.WithInterceptors(interceptors...))
	mux.Handle(reportPath, reportHandler)
	mux.Handle("/metrics", m.Handler())

	// Add logging and CORS middleware
	loggedHandler := loggingMiddleware(corsMiddleware(mux))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	h2cHandler := h2c.NewHandler(loggedHandler, &http2.Server{})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           h2cHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
