// Package checkout settles online payments: wallet top-ups and submissions
// paid through the gateway. A confirmation may arrive from the browser, from
// a webhook, from the confirmation queue or from reconciliation, in any order
// and any number of times; it is applied at most once.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chris/retailer-services/pkg/apperr"
	"github.com/chris/retailer-services/pkg/ledger"
	"github.com/chris/retailer-services/pkg/models"
	"github.com/chris/retailer-services/pkg/payment"
	"github.com/chris/retailer-services/pkg/storage"
	"github.com/google/uuid"
)

const (
	// MinTopUp is the smallest accepted top-up in minor units.
	MinTopUp int64 = 100
	// MaxTopUp is the largest accepted top-up in minor units.
	MaxTopUp int64 = 10_000_000

	topUpReceiptPrefix = "wallet_"
	topUpReason        = "wallet top-up"
	remarkConfirmed    = "Online payment confirmed."
	systemActor        = "system"
)

// Ledger posts wallet entries through a caller-supplied commit.
type Ledger interface {
	Post(ctx context.Context, e storage.Entry, commit ledger.CommitFunc) (*models.Transaction, error)
	Wallet(ctx context.Context, walletID string) (*models.Wallet, error)
}

// Store is the storage the service needs.
type Store interface {
	storage.OrderStore
	storage.SubmissionReader
}

// Confirmation describes the outcome of applying a payment to its order.
type Confirmation struct {
	Order       *models.PaymentOrder
	Transaction *models.Transaction
	// Duplicate is set when the order had already been processed and nothing changed.
	Duplicate bool
}

// Service creates gateway orders and applies their confirmations.
type Service struct {
	store         Store
	ledger        Ledger
	gateway       payment.Gateway
	keySecret     string
	webhookSecret string
	dispatcher    Dispatcher
	currency      string
	now           func() time.Time
	logger        *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithWebhookSecret sets the secret webhook bodies are signed with.
func WithWebhookSecret(secret string) Option {
	return func(s *Service) {
		s.webhookSecret = secret
	}
}

// New creates a Service. keySecret verifies checkout signatures.
func New(store Store, l Ledger, gateway payment.Gateway, keySecret string, opts ...Option) *Service {
	s := &Service{
		store:     store,
		ledger:    l,
		gateway:   gateway,
		keySecret: keySecret,
		currency:  ledger.DefaultCurrency,
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTopUpOrder opens a gateway order that credits the user's wallet once paid.
func (s *Service) CreateTopUpOrder(ctx context.Context, userID string, amount int64) (*payment.Order, error) {
	if amount < MinTopUp || amount > MaxTopUp {
		return nil, apperr.Validation("invalid top-up amount").WithDetails("amount must be between %d and %d", MinTopUp, MaxTopUp)
	}
	if _, err := s.ledger.Wallet(ctx, userID); err != nil {
		return nil, err
	}

	rcpt := topUpReceiptPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:20]
	order, err := s.gateway.CreateOrder(ctx, amount, s.currency, rcpt)
	if err != nil {
		return nil, apperr.Upstream("failed to create payment order", err)
	}

	now := s.now().UTC()
	err = s.store.CreateOrder(ctx, &models.PaymentOrder{
		OrderId:   order.ID,
		Kind:      models.OrderForTopUp,
		UserId:    userID,
		Amount:    amount,
		Currency:  s.currency,
		Receipt:   rcpt,
		Status:    models.OrderCreated,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store payment order: %w", err)
	}

	s.logger.InfoContext(ctx, "top-up order created", "order_id", order.ID, "user_id", userID, "amount", amount)
	return order, nil
}

// Confirm applies a captured payment to its order. Confirming an order that
// was already processed is a no-op. When the submission was paid from the
// wallet in the meantime, the order is marked unapplied for a manual refund
// and apperr.ErrAlreadyPaid is returned.
func (s *Service) Confirm(ctx context.Context, orderID, paymentID string) (*Confirmation, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("payment order not found").Wrap(err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment order: %w", err)
	}
	if order.Status != models.OrderCreated {
		return &Confirmation{Order: order, Duplicate: true}, nil
	}

	switch order.Kind {
	case models.OrderForTopUp:
		return s.confirmTopUp(ctx, order, paymentID)
	case models.OrderForSubmission:
		return s.confirmSubmission(ctx, order, paymentID)
	default:
		return nil, apperr.Internal("unknown payment order kind", fmt.Errorf("order %s has kind %q", order.OrderId, order.Kind))
	}
}

func (s *Service) confirmTopUp(ctx context.Context, order *models.PaymentOrder, paymentID string) (*Confirmation, error) {
	entry := storage.Entry{
		WalletID:  order.UserId,
		Direction: models.Credit,
		Amount:    order.Amount,
		Meta: map[string]string{
			models.MetaReason:  topUpReason,
			models.MetaOrderID: order.OrderId,
		},
	}
	tx, err := s.ledger.Post(ctx, entry, func(ctx context.Context, e storage.Entry) (*models.Transaction, error) {
		return s.store.SettleTopUpOrder(ctx, order, paymentID, e)
	})
	if errors.Is(err, storage.ErrOrderProcessed) {
		return &Confirmation{Order: order, Duplicate: true}, nil
	}
	if err != nil {
		return nil, err
	}

	order.Status = models.OrderPaid
	order.PaymentId = paymentID
	s.logger.InfoContext(ctx, "wallet topped up", "order_id", order.OrderId, "user_id", order.UserId, "amount", order.Amount)
	return &Confirmation{Order: order, Transaction: tx}, nil
}

func (s *Service) confirmSubmission(ctx context.Context, order *models.PaymentOrder, paymentID string) (*Confirmation, error) {
	sub, err := s.store.GetSubmission(ctx, order.SubmissionId)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	entry := models.StatusEntry{
		Status:        sub.Status,
		PaymentStatus: models.PaymentPaid,
		Remarks:       remarkConfirmed,
		UpdatedBy:     systemActor,
		UpdatedAt:     s.now().UTC(),
	}
	err = s.store.SettleSubmissionOrder(ctx, order, paymentID, entry)
	switch {
	case err == nil:
		order.Status = models.OrderPaid
		order.PaymentId = paymentID
		s.logger.InfoContext(ctx, "submission paid online", "order_id", order.OrderId, "submission_id", sub.Id)
		return &Confirmation{Order: order}, nil
	case errors.Is(err, storage.ErrOrderProcessed):
		return &Confirmation{Order: order, Duplicate: true}, nil
	case errors.Is(err, storage.ErrAlreadyPaid):
		if uerr := s.store.MarkOrderUnapplied(ctx, order, paymentID); uerr != nil && !errors.Is(uerr, storage.ErrOrderProcessed) {
			return nil, fmt.Errorf("failed to mark payment order unapplied: %w", uerr)
		}
		s.logger.WarnContext(ctx, "payment received for an already paid submission, refund required",
			"order_id", order.OrderId, "payment_id", paymentID, "submission_id", sub.Id)
		return nil, apperr.ErrAlreadyPaid.WithDetails("payment %s was not applied and will be refunded", paymentID)
	default:
		return nil, fmt.Errorf("failed to settle payment order: %w", err)
	}
}

// VerifyCheckout checks the signature the browser received from checkout and
// confirms the order. Only the order's owner may confirm it this way.
func (s *Service) VerifyCheckout(ctx context.Context, userID, orderID, paymentID, signature string) (*Confirmation, error) {
	if !payment.VerifyCheckoutSignature(s.keySecret, orderID, paymentID, signature) {
		return nil, apperr.ErrInvalidSignature
	}
	order, err := s.store.GetOrder(ctx, orderID)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && order.UserId != userID) {
		return nil, apperr.NotFound("payment order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment order: %w", err)
	}
	return s.Confirm(ctx, orderID, paymentID)
}

// HandleWebhook verifies and applies a gateway notification. Events that do not
// settle an order, and payments that could not be applied, are acknowledged.
func (s *Service) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !payment.VerifyWebhookSignature(s.webhookSecret, body, signature) {
		return apperr.ErrInvalidSignature
	}
	event, err := payment.ParseWebhook(body)
	if err != nil {
		return apperr.Validation("malformed webhook body").Wrap(err)
	}
	orderID, paymentID, ok := event.Settlement()
	if !ok {
		s.logger.DebugContext(ctx, "ignoring webhook event", "event", event.Event)
		return nil
	}

	if s.dispatcher != nil {
		return s.dispatcher.Dispatch(ctx, &ConfirmationEvent{
			Type:       EventPaymentConfirmed,
			OrderID:    orderID,
			PaymentID:  paymentID,
			ReceivedAt: s.now().UTC(),
		})
	}
	return s.apply(ctx, orderID, paymentID)
}

// apply confirms an order for an asynchronous source. Orders that are unknown
// or were paid another way are logged and acknowledged.
func (s *Service) apply(ctx context.Context, orderID, paymentID string) error {
	_, err := s.Confirm(ctx, orderID, paymentID)
	switch {
	case err == nil, errors.Is(err, apperr.ErrAlreadyPaid):
		return nil
	case apperr.IsKind(err, apperr.KindNotFound):
		s.logger.WarnContext(ctx, "confirmation for unknown order", "order_id", orderID)
		return nil
	default:
		return err
	}
}

// ReconcileReport summarises one reconciliation run.
type ReconcileReport struct {
	Checked   int
	Confirmed int
	Unpaid    int
	Failed    int
}

// Reconcile asks the gateway about orders that have been awaiting confirmation
// for longer than olderThan and confirms the ones that were paid. A failing
// order does not stop the run.
func (s *Service) Reconcile(ctx context.Context, olderThan time.Duration) (*ReconcileReport, error) {
	orders, err := s.store.ListStaleOrders(ctx, s.now().Add(-olderThan))
	if err != nil {
		return nil, fmt.Errorf("failed to list stale orders: %w", err)
	}

	report := &ReconcileReport{Checked: len(orders)}
	for _, order := range orders {
		paymentID, paid, err := s.capturedPayment(ctx, order.OrderId)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to fetch order from gateway", "order_id", order.OrderId, "error", err)
			report.Failed++
			continue
		}
		if !paid {
			report.Unpaid++
			continue
		}

		if _, err := s.Confirm(ctx, order.OrderId, paymentID); err != nil && !errors.Is(err, apperr.ErrAlreadyPaid) {
			s.logger.ErrorContext(ctx, "failed to confirm order", "order_id", order.OrderId, "error", err)
			report.Failed++
			continue
		}
		report.Confirmed++
	}

	s.logger.InfoContext(ctx, "reconciliation finished",
		"checked", report.Checked, "confirmed", report.Confirmed, "unpaid", report.Unpaid, "failed", report.Failed)
	return report, nil
}

func (s *Service) capturedPayment(ctx context.Context, orderID string) (string, bool, error) {
	order, err := s.gateway.FetchOrder(ctx, orderID)
	if err != nil {
		return "", false, err
	}
	if order.Status != payment.OrderStatusPaid {
		return "", false, nil
	}
	payments, err := s.gateway.FetchPayments(ctx, orderID)
	if err != nil {
		return "", false, err
	}
	p, ok := payment.CapturedPayment(payments)
	if !ok {
		return "", false, nil
	}
	return p.ID, true, nil
}
