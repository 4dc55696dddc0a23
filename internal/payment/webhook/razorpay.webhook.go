package webhook

import (
	"encoding/json"
	"io"
	"net/http"

	"sudhamrit-be/internal/logger"
	"sudhamrit-be/internal/metrics"
	"sudhamrit-be/internal/payment"
	"sudhamrit-be/internal/utils"

	"go.uber.org/zap"
)

const (
	ProviderRazorpay = "RAZORPAY"

	SignatureHeader = "X-Razorpay-Signature"
	EventIDHeader   = "X-Razorpay-Event-Id"

	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"

	maxBodyBytes = 1 << 20
)

// Payload is the subset of a Razorpay event this service reads.
type Payload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Amount  int64  `json:"amount"`
				Status  string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

type Handler struct {
	Repo    payment.Repository
	Gateway payment.Gateway
}

func NewWebhookHandler(repo payment.Repository, gateway payment.Gateway) *Handler {
	return &Handler{Repo: repo, Gateway: gateway}
}

// RazorpayWebhook records each event once and applies payment status
// transitions. Only Pending payments move; repeats are acknowledged.
func (h *Handler) RazorpayWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "webhook"),
		zap.String("provider", ProviderRazorpay),
	)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		utils.WriteJSONError(w, "failed to read body", http.StatusBadRequest)
		return
	}

	if err := h.Gateway.VerifyWebhookSignature(body, r.Header.Get(SignatureHeader)); err != nil {
		log.Warn("webhook signature rejected", zap.Error(err))
		metrics.RecordCheckout("webhook", metrics.StatusRejected)
		utils.WriteJSONError(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil || payload.Event == "" {
		utils.WriteJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	entity := payload.Payload.Payment.Entity
	eventID := r.Header.Get(EventIDHeader)
	if eventID == "" {
		eventID = payload.Event + ":" + entity.ID
	}

	log = log.With(
		zap.String("event_id", eventID),
		zap.String("event", payload.Event),
		zap.String("gateway_payment_id", entity.ID),
	)

	webhookID, duplicate, err := h.Repo.SavePaymentWebhook(
		ctx, ProviderRazorpay, eventID, payload.Event, entity.ID, json.RawMessage(body), true,
	)
	if err != nil {
		log.Error("failed to save webhook", zap.Error(err))
		utils.WriteJSONError(w, "failed to record webhook", http.StatusInternalServerError)
		return
	}
	if duplicate {
		log.Info("duplicate webhook ignored")
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "duplicate"})
		return
	}

	var target payment.Status
	switch payload.Event {
	case EventPaymentCaptured:
		target = payment.StatusCompleted
	case EventPaymentFailed:
		target = payment.StatusFailed
	default:
		log.Info("webhook event ignored")
		h.markProcessed(r, log, webhookID)
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	updated, err := h.Repo.UpdateStatusByGatewayPaymentID(ctx, entity.ID, target)
	if err != nil {
		log.Error("failed to update payment status", zap.Error(err))
		if markErr := h.Repo.MarkWebhookFailed(ctx, webhookID, err.Error()); markErr != nil {
			log.Error("failed to mark webhook failed", zap.Error(markErr))
		}
		metrics.RecordCheckout("webhook", metrics.StatusError)
		utils.WriteJSONError(w, "failed to update payment", http.StatusInternalServerError)
		return
	}

	if updated {
		log.Info("payment status updated", zap.String("status", string(target)))
	} else {
		log.Info("no pending payment matched webhook")
	}

	h.markProcessed(r, log, webhookID)
	metrics.RecordCheckout("webhook", metrics.StatusSuccess)
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) markProcessed(r *http.Request, log *zap.Logger, webhookID int64) {
	if err := h.Repo.MarkWebhookProcessed(r.Context(), webhookID); err != nil {
		log.Error("failed to mark webhook processed", zap.Error(err))
	}
}
