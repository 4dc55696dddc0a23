package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"sudhamrit-be/internal/logger"

	"go.uber.org/zap"
)

const razorpayBaseURL = "https://api.razorpay.com"

type razorpayGateway struct {
	keyID         string
	keySecret     string
	webhookSecret string
	baseURL       string
	httpClient    *http.Client
}

func NewRazorpayGateway(keyID, keySecret, webhookSecret string, timeout time.Duration) Gateway {
	if keyID == "" || keySecret == "" {
		logger.L().Warn("Razorpay credentials are empty")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &razorpayGateway{
		keyID:         keyID,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
		baseURL:       razorpayBaseURL,
		httpClient:    &http.Client{Timeout: timeout},
	}
}

func (g *razorpayGateway) KeyID() string { return g.keyID }

func (g *razorpayGateway) CreateOrderIntent(
	ctx context.Context,
	amountMinor int64,
	currency string,
	receipt string,
) (*OrderIntent, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "gateway"),
		zap.String("method", "CreateOrderIntent"),
		zap.Int64("amount", amountMinor),
		zap.String("receipt", receipt),
	)

	if g.keyID == "" || g.keySecret == "" {
		return nil, ErrGatewayNotConfigure
	}
	if amountMinor <= 0 {
		return nil, ErrInvalidAmount
	}

	jsonBody, err := json.Marshal(map[string]any{
		"amount":          amountMinor,
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": 1,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/orders", bytes.NewReader(jsonBody))
	if err != nil {
		log.Error("failed creating request", zap.Error(err))
		return nil, err
	}
	req.SetBasicAuth(g.keyID, g.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Error("razorpay request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		log.Error("failed to read response body", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Error("razorpay returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return nil, fmt.Errorf("%w: status %d", ErrGatewayUnavailable, resp.StatusCode)
	}

	var intent OrderIntent
	if err := json.Unmarshal(bodyBytes, &intent); err != nil {
		log.Error("failed decoding razorpay response", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	if intent.ID == "" {
		return nil, fmt.Errorf("%w: empty order id", ErrGatewayUnavailable)
	}

	log.Info("razorpay order created", zap.String("gateway_order_id", intent.ID))
	return &intent, nil
}

// VerifyPaymentSignature checks the checkout callback signature over
// "order_id|payment_id".
func (g *razorpayGateway) VerifyPaymentSignature(gatewayOrderID, gatewayPaymentID, signature string) error {
	if gatewayOrderID == "" || gatewayPaymentID == "" {
		return ErrSignatureMismatch
	}
	return verify(g.keySecret, []byte(gatewayOrderID+"|"+gatewayPaymentID), signature)
}

func (g *razorpayGateway) VerifyWebhookSignature(body []byte, signature string) error {
	err := verify(g.webhookSecret, body, signature)
	if errors.Is(err, ErrGatewayNotConfigure) {
		logger.L().Warn("webhook secret is empty, rejecting webhook")
	}
	return err
}
