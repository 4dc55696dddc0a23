package handler

import (
	"net/http"

	"sudhamrit-be/internal/order"
	"sudhamrit-be/internal/utils"
)

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListForUser(r.Context(), customerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if len(orders) == 0 {
		utils.WriteEnvelope(w, http.StatusOK, utils.LevelInfo, "you have no orders yet", orders)
		return
	}
	utils.OK(w, "", orders)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, r, order.ErrOrderNotFound)
		return
	}

	o, err := h.orders.GetForUser(r.Context(), id, customerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.OK(w, "", o)
}

func (h *Handler) AdminListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context(), h.adminOrders)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.OK(w, "", orders)
}

func (h *Handler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, r, order.ErrOrderNotFound)
		return
	}

	if err := h.orders.MarkDelivered(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	utils.OK(w, "order marked as delivered", map[string]any{"id": id, "status": order.StatusDelivered})
}
