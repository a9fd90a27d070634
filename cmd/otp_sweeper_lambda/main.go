package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/retailer-services/pkg/bootstrap"
	"github.com/chris/retailer-services/pkg/config"
	"github.com/chris/retailer-services/pkg/logging"
	"github.com/chris/retailer-services/pkg/otp"
)

var codes *otp.Manager

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
	codes = app.OTP
}

// SweepResult is returned to the scheduler for the invocation log.
type SweepResult struct {
	Deleted int `json:"deleted"`
}

// HandleRequest is triggered by an EventBridge Schedule and deletes expired
// challenges ahead of the table TTL.
func HandleRequest(ctx context.Context) (*SweepResult, error) {
	n, err := codes.Sweep(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "otp sweep failed", "deleted", n, "error", err)
		return nil, err
	}
	slog.InfoContext(ctx, "otp sweep finished", "deleted", n)
	return &SweepResult{Deleted: n}, nil
}

func main() {
	lambda.Start(HandleRequest)
}
