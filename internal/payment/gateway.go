package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

type Gateway interface {
	CreateOrderIntent(ctx context.Context, amountMinor int64, currency, receipt string) (*OrderIntent, error)
	VerifyPaymentSignature(gatewayOrderID, gatewayPaymentID, signature string) error
	VerifyWebhookSignature(body []byte, signature string) error
	KeyID() string
}

// Sign returns hex(HMAC-SHA256(payload, secret)), the scheme the gateway
// uses for both checkout callbacks and webhooks.
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func verify(secret string, payload []byte, signature string) error {
	if secret == "" {
		return ErrGatewayNotConfigure
	}
	expected := Sign(secret, payload)
	if signature == "" || !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureMismatch
	}
	return nil
}
