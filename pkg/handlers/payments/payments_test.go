package payments_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chris/retailer-services/pkg/account"
	"github.com/chris/retailer-services/pkg/apperr"
	"github.com/chris/retailer-services/pkg/checkout"
	"github.com/chris/retailer-services/pkg/handlers/payments"
	"github.com/chris/retailer-services/pkg/handlers/payments/mocks"
	"github.com/chris/retailer-services/pkg/middleware"
	"github.com/chris/retailer-services/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const verifyBody = `{"razorpay_order_id":"order_1","razorpay_payment_id":"pay_1","razorpay_signature":"abc123"}`

func asRetailer(req *http.Request) *http.Request {
	return req.WithContext(middleware.WithClaims(req.Context(), &account.Claims{UserID: "user-1", Role: models.RoleRetailer}))
}

func TestVerifyPayment(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		c := mocks.NewCheckout(t)
		c.On("VerifyCheckout", mock.Anything, "user-1", "order_1", "pay_1", "abc123").Return(&checkout.Confirmation{
			Order: &models.PaymentOrder{OrderId: "order_1", Kind: models.OrderForSubmission, SubmissionId: "sub-1", Status: models.OrderPaid},
		}, nil)

		h := payments.NewPaymentsHandler(c)
		rr := httptest.NewRecorder()
		h.VerifyPayment(rr, asRetailer(httptest.NewRequest(http.MethodPost, "/api/v1/submissions/verify-payment", strings.NewReader(verifyBody))))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"submissionId":"sub-1"`)
		assert.Contains(t, rr.Body.String(), `"duplicate":false`)
	})

	t.Run("Bad Signature", func(t *testing.T) {
		c := mocks.NewCheckout(t)
		c.On("VerifyCheckout", mock.Anything, "user-1", "order_1", "pay_1", "abc123").Return(nil, apperr.ErrInvalidSignature)

		h := payments.NewPaymentsHandler(c)
		rr := httptest.NewRecorder()
		h.VerifyPayment(rr, asRetailer(httptest.NewRequest(http.MethodPost, "/api/v1/submissions/verify-payment", strings.NewReader(verifyBody))))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "invalid_signature")
	})

	t.Run("Missing Fields", func(t *testing.T) {
		h := payments.NewPaymentsHandler(mocks.NewCheckout(t))
		rr := httptest.NewRecorder()
		h.VerifyPayment(rr, asRetailer(httptest.NewRequest(http.MethodPost, "/api/v1/submissions/verify-payment", strings.NewReader(`{"razorpay_order_id":"order_1"}`))))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestWebhook(t *testing.T) {
	body := `{"event":"payment.captured"}`

	t.Run("Handled", func(t *testing.T) {
		c := mocks.NewCheckout(t)
		c.On("HandleWebhook", mock.Anything, []byte(body), "sig").Return(nil)

		h := payments.NewPaymentsHandler(c)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", strings.NewReader(body))
		req.Header.Set(payments.SignatureHeader, "sig")
		rr := httptest.NewRecorder()
		h.Webhook(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Forged", func(t *testing.T) {
		c := mocks.NewCheckout(t)
		c.On("HandleWebhook", mock.Anything, []byte(body), "").Return(apperr.ErrInvalidSignature)

		h := payments.NewPaymentsHandler(c)
		rr := httptest.NewRecorder()
		h.Webhook(rr, httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
