package payment

import (
	"encoding/json"
	"fmt"
)

// SignatureHeader carries the webhook body signature.
const SignatureHeader = "X-Razorpay-Signature"

// Webhook events that settle an order.
const (
	EventOrderPaid       = "order.paid"
	EventPaymentCaptured = "payment.captured"
)

// WebhookEvent is the envelope of a gateway notification.
type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment *struct {
			Entity Payment `json:"entity"`
		} `json:"payment,omitempty"`
		Order *struct {
			Entity Order `json:"entity"`
		} `json:"order,omitempty"`
	} `json:"payload"`
}

// ParseWebhook decodes a webhook body. The signature must be checked first.
func ParseWebhook(body []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("unmarshal webhook: %w", err)
	}
	return &event, nil
}

// Settlement returns the order and payment a settling event refers to. ok is
// false for events that do not settle anything.
func (e *WebhookEvent) Settlement() (orderID, paymentID string, ok bool) {
	if e.Event != EventOrderPaid && e.Event != EventPaymentCaptured {
		return "", "", false
	}
	if e.Payload.Payment != nil {
		orderID = e.Payload.Payment.Entity.OrderID
		paymentID = e.Payload.Payment.Entity.ID
	}
	if orderID == "" && e.Payload.Order != nil {
		orderID = e.Payload.Order.Entity.ID
	}
	return orderID, paymentID, orderID != ""
}
