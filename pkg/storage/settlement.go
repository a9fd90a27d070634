package storage

import (
	"context"
	"time"

	"github.com/chris/retailer-services/pkg/models"
)

// OrderStore defines the interface for payment gateway orders and their settlement.
// Settling an order is an atomic write across the order and what it pays for, so
// a confirmation is applied at most once.
type OrderStore interface {
	// CreateOrder stores a new order in the created state.
	CreateOrder(ctx context.Context, order *models.PaymentOrder) error

	// GetOrder retrieves an order by the gateway's order ID.
	GetOrder(ctx context.Context, orderID string) (*models.PaymentOrder, error)

	// ListStaleOrders returns orders still awaiting confirmation that were created before cutoff.
	ListStaleOrders(ctx context.Context, cutoff time.Time) ([]models.PaymentOrder, error)

	// SettleSubmissionOrder marks the order and its submission paid.
	// Fails with ErrOrderProcessed or ErrAlreadyPaid.
	SettleSubmissionOrder(ctx context.Context, order *models.PaymentOrder, paymentID string, entry models.StatusEntry) error

	// SettleTopUpOrder marks the order paid and credits the wallet.
	// Fails with ErrOrderProcessed or ErrVersionConflict.
	SettleTopUpOrder(ctx context.Context, order *models.PaymentOrder, paymentID string, e Entry) (*models.Transaction, error)

	// MarkOrderUnapplied flags a paid order whose target could not accept it.
	MarkOrderUnapplied(ctx context.Context, order *models.PaymentOrder, paymentID string) error
}
