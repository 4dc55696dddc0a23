package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"sudhamrit-be/internal/auth"
	"sudhamrit-be/internal/cart"
	"sudhamrit-be/internal/logger"
	"sudhamrit-be/internal/utils"

	"go.uber.org/zap"
)

// Error codes of the cart update endpoint.
const (
	codeNotLoggedIn     = "not_logged_in"
	codeInvalidPayload  = "invalid_payload"
	codeInvalidQuantity = "invalid_quantity"
	codeItemNotFound    = "item_not_found"
	codeInternal        = "internal_error"
)

type cartUpdateRequest struct {
	ProductID json.Number     `json:"product_id"`
	Quantity  json.RawMessage `json:"quantity"`
}

// customerID is only called behind RequireCustomer.
func customerID(r *http.Request) uint {
	p, _ := auth.CustomerFrom(r.Context())
	return p.ID
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(r, "productID")
	if !ok {
		writeError(w, r, cart.ErrInvalidProduct)
		return
	}

	if err := h.carts.AddItem(r.Context(), customerID(r), productID); err != nil {
		writeError(w, r, err)
		return
	}
	utils.OK(w, "item added to cart", nil)
}

func (h *Handler) ViewCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.carts.List(r.Context(), customerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if len(view.Items) == 0 {
		utils.WriteEnvelope(w, http.StatusOK, utils.LevelInfo, "your cart is empty", view)
		return
	}
	utils.OK(w, "", view)
}

// UpdateCart answers the cart page's quantity widget with bare totals or an
// error code rather than the usual envelope.
func (h *Handler) UpdateCart(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.CustomerFrom(r.Context())
	if !ok {
		utils.WriteJSONError(w, codeNotLoggedIn, http.StatusUnauthorized)
		return
	}

	var req cartUpdateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxFormBytes)).Decode(&req); err != nil {
		utils.WriteJSONError(w, codeInvalidPayload, http.StatusBadRequest)
		return
	}

	productID, err := utils.ToUint(req.ProductID.String())
	if err != nil || productID == 0 {
		utils.WriteJSONError(w, codeInvalidPayload, http.StatusBadRequest)
		return
	}

	quantity, err := strconv.Atoi(strings.Trim(string(req.Quantity), `"`))
	if err != nil {
		utils.WriteJSONError(w, codeInvalidQuantity, http.StatusBadRequest)
		return
	}

	totals, err := h.carts.SetQuantity(r.Context(), p.ID, productID, quantity)
	switch {
	case errors.Is(err, cart.ErrCartItemNotFound):
		utils.WriteJSONError(w, codeItemNotFound, http.StatusNotFound)
		return
	case errors.Is(err, cart.ErrInvalidQuantity):
		utils.WriteJSONError(w, codeInvalidQuantity, http.StatusBadRequest)
		return
	case errors.Is(err, cart.ErrInvalidProduct):
		utils.WriteJSONError(w, codeInvalidPayload, http.StatusBadRequest)
		return
	case err != nil:
		logger.FromCtx(r.Context()).Error("cart update failed",
			zap.Uint("user_id", p.ID),
			zap.Uint("product_id", productID),
			zap.Error(err),
		)
		utils.WriteJSONError(w, codeInternal, http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]json.Number{
		"item_total":  json.Number(totals.ItemTotal.StringFixed(2)),
		"grand_total": json.Number(totals.GrandTotal.StringFixed(2)),
	})
}

func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(r, "productID")
	if !ok {
		writeError(w, r, cart.ErrInvalidProduct)
		return
	}

	err := h.carts.Remove(r.Context(), customerID(r), productID)
	if errors.Is(err, cart.ErrCartItemNotFound) {
		utils.WriteEnvelope(w, http.StatusOK, utils.LevelWarning, "item not found in cart", nil)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.OK(w, "item removed from cart", nil)
}
