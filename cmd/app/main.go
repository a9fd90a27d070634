package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chris/retailer-services/pkg/bootstrap"
	"github.com/chris/retailer-services/pkg/config"
	"github.com/chris/retailer-services/pkg/handlers"
	"github.com/chris/retailer-services/pkg/handlers/auth"
	"github.com/chris/retailer-services/pkg/handlers/payments"
	"github.com/chris/retailer-services/pkg/handlers/submissions"
	"github.com/chris/retailer-services/pkg/handlers/users"
	"github.com/chris/retailer-services/pkg/handlers/wallets"
	"github.com/chris/retailer-services/pkg/logging"
	"github.com/chris/retailer-services/pkg/ratelimit"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		return err
	}

	var limiter ratelimit.Limiter
	if redisLimiter, rdb := bootstrap.NewAuthLimiter(cfg); rdb != nil {
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, auth rate limiting degrades to open", "addr", cfg.Redis.Addr, "error", err)
		}
		limiter = redisLimiter
	} else {
		logger.Warn("REDIS_ADDR not set, auth routes are not rate limited")
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		AllowedOrigins: cfg.App.AllowedOrigins,
		RequestTimeout: cfg.App.RequestTimeout,
		Logger:         logger,
	}, &handlers.ApiHandler{
		Auth:        auth.NewAuthHandler(app.Accounts, cfg.Auth.SecureCookie || cfg.IsProduction()),
		Wallets:     wallets.NewWalletsHandler(app.Ledger, app.Checkout, cfg.Razorpay.KeyID),
		Submissions: submissions.NewSubmissionsHandler(app.Workflow, cfg.Razorpay.KeyID),
		Payments:    payments.NewPaymentsHandler(app.Checkout),
		Users:       users.NewUsersHandler(app.Accounts),
		Tokens:      app.Tokens,
		AuthLimiter: limiter,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "port", cfg.App.Port, "env", cfg.App.Env, "store", cfg.App.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
