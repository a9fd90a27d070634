// Package payment talks to the Razorpay payment gateway.
package payment

import (
	"context"
	"fmt"
)

// Order statuses reported by the gateway.
const (
	OrderStatusCreated   = "created"
	OrderStatusAttempted = "attempted"
	OrderStatusPaid      = "paid"
)

// Payment statuses reported by the gateway.
const (
	PaymentStatusCaptured   = "captured"
	PaymentStatusAuthorized = "authorized"
	PaymentStatusFailed     = "failed"
)

// Order is a provider-hosted order. Amounts are in minor units.
type Order struct {
	ID         string `json:"id"`
	Entity     string `json:"entity,omitempty"`
	Amount     int64  `json:"amount"`
	AmountPaid int64  `json:"amount_paid"`
	AmountDue  int64  `json:"amount_due"`
	Currency   string `json:"currency"`
	Receipt    string `json:"receipt"`
	Status     string `json:"status"`
	Attempts   int    `json:"attempts"`
	CreatedAt  int64  `json:"created_at"`
}

// Payment is one payment attempt against an order.
type Payment struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Method   string `json:"method,omitempty"`
}

// Gateway defines the interface for the payment provider.
type Gateway interface {
	// CreateOrder opens an order the payer completes on the provider's checkout.
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error)
	// FetchOrder returns the current state of an order.
	FetchOrder(ctx context.Context, orderID string) (*Order, error)
	// FetchPayments lists the payment attempts of an order.
	FetchPayments(ctx context.Context, orderID string) ([]Payment, error)
}

// APIError is a non-2xx answer from the gateway.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("razorpay api error: status=%d code=%s description=%s", e.StatusCode, e.Code, e.Description)
}

// CapturedPayment returns the first captured payment, if any.
func CapturedPayment(payments []Payment) (*Payment, bool) {
	for i := range payments {
		if payments[i].Status == PaymentStatusCaptured {
			return &payments[i], true
		}
	}
	return nil, false
}
