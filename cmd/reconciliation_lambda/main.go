package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/retailer-services/pkg/bootstrap"
	"github.com/chris/retailer-services/pkg/checkout"
	"github.com/chris/retailer-services/pkg/config"
	"github.com/chris/retailer-services/pkg/logging"
)

var (
	payments  *checkout.Service
	olderThan time.Duration
)

func init() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.Log.Level, "json")

	app, err := bootstrap.New(context.Background(), cfg, logger)
	if err != nil {
		slog.Error("failed to initialise", "error", err)
		os.Exit(1)
	}
	payments = app.Checkout
	olderThan = cfg.Reconcile.OlderThan
}

// HandleRequest is triggered by an EventBridge Schedule. It confirms orders
// the gateway reports as paid but whose webhook never arrived.
func HandleRequest(ctx context.Context) (*checkout.ReconcileReport, error) {
	slog.InfoContext(ctx, "starting reconciliation of stale payment orders", "older_than", olderThan)

	report, err := payments.Reconcile(ctx, olderThan)
	if err != nil {
		slog.ErrorContext(ctx, "reconciliation failed", "error", err)
		return nil, err
	}
	return report, nil
}

func main() {
	lambda.Start(HandleRequest)
}
