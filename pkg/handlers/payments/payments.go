package payments

import (
	"context"
	"io"
	"net/http"

	"github.com/chris/retailer-services/pkg/api"
	"github.com/chris/retailer-services/pkg/apperr"
	"github.com/chris/retailer-services/pkg/checkout"
	"github.com/chris/retailer-services/pkg/mapping"
	"github.com/chris/retailer-services/pkg/middleware"
	"github.com/chris/retailer-services/pkg/respond"
)

// SignatureHeader carries the webhook HMAC.
const SignatureHeader = "X-Razorpay-Signature"

const maxWebhookBytes = 1 << 20

// Checkout confirms gateway payments.
type Checkout interface {
	VerifyCheckout(ctx context.Context, userID, orderID, paymentID, signature string) (*checkout.Confirmation, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) error
}

// PaymentsHandler holds the dependencies for payment confirmation handlers.
type PaymentsHandler struct {
	Checkout Checkout
}

// NewPaymentsHandler creates a new PaymentsHandler.
func NewPaymentsHandler(c Checkout) *PaymentsHandler {
	return &PaymentsHandler{Checkout: c}
}

// VerifyPayment applies a payment the browser checkout reports, after
// checking the gateway signature.
func (h *PaymentsHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		respond.Error(w, r, apperr.Unauthorized("authentication required"))
		return
	}

	var req api.VerifyPaymentRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	confirmation, err := h.Checkout.VerifyCheckout(r.Context(), claims.UserID, req.OrderId, req.PaymentId, req.Signature)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiPaymentVerified(confirmation))
}

// Webhook receives gateway events. It answers 200 for everything it has
// handled or chosen to ignore so the gateway stops redelivering.
func (h *PaymentsHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		respond.Error(w, r, apperr.Validation("unreadable webhook body", err.Error()))
		return
	}

	if err := h.Checkout.HandleWebhook(r.Context(), body, r.Header.Get(SignatureHeader)); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, &api.Message{Message: "ok"})
}
