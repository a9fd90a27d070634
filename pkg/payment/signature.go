package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// sign generates the hex HMAC-SHA256 of payload.
func sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignCheckout returns the signature checkout attaches to a completed payment.
func SignCheckout(keySecret, orderID, paymentID string) string {
	return sign(keySecret, []byte(orderID+"|"+paymentID))
}

// VerifyCheckoutSignature checks the signature returned to the browser after checkout.
func VerifyCheckoutSignature(keySecret, orderID, paymentID, signature string) bool {
	if keySecret == "" || signature == "" {
		return false
	}
	return hmac.Equal([]byte(SignCheckout(keySecret, orderID, paymentID)), []byte(signature))
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header against the raw body.
func VerifyWebhookSignature(webhookSecret string, body []byte, signature string) bool {
	if webhookSecret == "" || signature == "" {
		return false
	}
	return hmac.Equal([]byte(sign(webhookSecret, body)), []byte(signature))
}
