package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/retailer-services/pkg/apperr"
	"github.com/chris/retailer-services/pkg/notify"
)

// EventPaymentConfirmed is the type of a confirmation handed to the worker.
const EventPaymentConfirmed = "paymentConfirmed"

// ConfirmationEvent is a captured payment waiting to be applied.
type ConfirmationEvent struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"order_id"`
	PaymentID  string    `json:"payment_id"`
	ReceivedAt time.Time `json:"received_at"`
}

// Dispatcher hands confirmations to an asynchronous worker so the webhook can
// answer the gateway at once.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev *ConfirmationEvent) error
}

// WithDispatcher makes HandleWebhook enqueue confirmations instead of applying them.
func WithDispatcher(d Dispatcher) Option {
	return func(s *Service) {
		s.dispatcher = d
	}
}

// SQSDispatcher implements the Dispatcher interface using AWS SQS.
type SQSDispatcher struct {
	Client   notify.SQSAPI
	QueueURL string
}

// NewSQSDispatcher creates a new SQSDispatcher.
func NewSQSDispatcher(client notify.SQSAPI, queueURL string) *SQSDispatcher {
	return &SQSDispatcher{
		Client:   client,
		QueueURL: queueURL,
	}
}

// Make sure we conform to the interface
var _ Dispatcher = (*SQSDispatcher)(nil)

// Dispatch sends the event to the confirmation queue. On a FIFO queue messages
// are grouped by order and deduplicated by order and payment.
func (d *SQSDispatcher) Dispatch(ctx context.Context, ev *ConfirmationEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal confirmation for SQS: %w", err)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(d.QueueURL),
		MessageBody: aws.String(string(body)),
	}
	if strings.HasSuffix(d.QueueURL, ".fifo") {
		input.MessageGroupId = aws.String(ev.OrderID)
		input.MessageDeduplicationId = aws.String(ev.OrderID + "_" + ev.PaymentID)
	}

	if _, err := d.Client.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}
	return nil
}

// ProcessConfirmation applies a queued confirmation. It returns an error only
// when the message should be redelivered.
func (s *Service) ProcessConfirmation(ctx context.Context, body []byte) error {
	var ev ConfirmationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		s.logger.ErrorContext(ctx, "dropping malformed confirmation", "error", err)
		return nil
	}
	if ev.Type != EventPaymentConfirmed || ev.OrderID == "" || ev.PaymentID == "" {
		s.logger.WarnContext(ctx, "dropping unexpected confirmation", "type", ev.Type, "order_id", ev.OrderID)
		return nil
	}

	err := s.apply(ctx, ev.OrderID, ev.PaymentID)
	if apperr.IsKind(err, apperr.KindValidation) {
		s.logger.ErrorContext(ctx, "dropping confirmation that cannot be applied", "order_id", ev.OrderID, "error", err)
		return nil
	}
	return err
}
