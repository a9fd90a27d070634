package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/chris/retailer-services/pkg/bootstrap"
	"github.com/chris/retailer-services/pkg/checkout"
	"github.com/chris/retailer-services/pkg/config"
	"github.com/chris/retailer-services/pkg/logging"
)

var confirmations *checkout.Service

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
	confirmations = app.Checkout
}

// HandleRequest applies queued payment confirmations. Failed messages are
// reported individually so SQS only redelivers those.
func HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse
	for _, message := range sqsEvent.Records {
		logger := slog.With("message_id", message.MessageId)
		if err := confirmations.ProcessConfirmation(ctx, []byte(message.Body)); err != nil {
			logger.ErrorContext(ctx, "failed to apply confirmation", "error", err)
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: message.MessageId})
			continue
		}
		logger.InfoContext(ctx, "confirmation processed")
	}
	return resp, nil
}

func main() {
	lambda.Start(HandleRequest)
}
