package handler

import (
	"errors"
	"net/http"

	"sudhamrit-be/internal/order"
	"sudhamrit-be/internal/utils"
)

type confirmRequest struct {
	PaymentID string `json:"razorpay_payment_id" form:"razorpay_payment_id" validate:"required"`
	OrderID   string `json:"razorpay_order_id" form:"razorpay_order_id"`
	Signature string `json:"razorpay_signature" form:"razorpay_signature" validate:"required"`
}

type offlineRequest struct {
	Method string `json:"payment_method" form:"payment_method" validate:"required"`
}

func (h *Handler) InitiateCheckout(w http.ResponseWriter, r *http.Request) {
	intent, err := h.checkout.Initiate(r.Context(), customerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.storeIntent(w, intent); err != nil {
		writeError(w, r, err)
		return
	}
	utils.OK(w, "payment initiated", intent)
}

func (h *Handler) ConfirmCheckout(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := h.bind(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	uid := customerID(r)
	intent := h.loadIntent(r)
	if intent == nil || intent.UserID != uid ||
		(req.OrderID != "" && req.OrderID != intent.GatewayOrderID) {
		writeError(w, r, order.ErrIntentMismatch)
		return
	}

	receipt, err := h.checkout.Confirm(r.Context(), uid, *intent, req.PaymentID, req.Signature)
	if err != nil {
		// The intent is spent once a payment is recorded or the cart moved on.
		if errors.Is(err, order.ErrDuplicatePayment) || errors.Is(err, order.ErrAmountMismatch) ||
			errors.Is(err, order.ErrEmptyCart) {
			h.clearCookie(w, intentCookie)
		}
		writeError(w, r, err)
		return
	}

	h.clearCookie(w, intentCookie)
	respondReceipt(w, receipt)
}

func (h *Handler) ConfirmOffline(w http.ResponseWriter, r *http.Request) {
	var req offlineRequest
	if err := h.bind(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	receipt, err := h.checkout.ConfirmOffline(r.Context(), customerID(r), req.Method)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.clearCookie(w, intentCookie)
	respondReceipt(w, receipt)
}

// CheckoutFailed records an abandoned or failed payment. The cart and any
// pending intent are kept so the customer can retry.
func (h *Handler) CheckoutFailed(w http.ResponseWriter, r *http.Request) {
	uid := customerID(r)

	intent := h.loadIntent(r)
	if intent != nil && intent.UserID != uid {
		intent = nil
	}

	reason := r.URL.Query().Get("reason")
	if reason == "" {
		reason = "payment not completed"
	}
	h.checkout.Fail(r.Context(), uid, intent, reason)

	utils.WriteEnvelope(w, http.StatusOK, utils.LevelWarning,
		"payment failed or was cancelled, your cart has been kept", nil)
}

func respondReceipt(w http.ResponseWriter, receipt *order.Receipt) {
	n := receipt.Notification
	level, msg := utils.LevelSuccess, "order placed successfully, confirmation email sent"
	switch {
	case n.Pending:
		level, msg = utils.LevelInfo, "order placed successfully, confirmation email is on its way"
	case n.Error != "" || !n.Sent:
		level, msg = utils.LevelWarning, "order placed successfully, but the confirmation email could not be sent"
	}
	utils.WriteEnvelope(w, http.StatusCreated, level, msg, receipt)
}
