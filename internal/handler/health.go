package handler

import (
	"context"
	"net/http"
	"time"

	"sudhamrit-be/internal/logger"
	"sudhamrit-be/internal/utils"

	"go.uber.org/zap"
)

const healthTimeout = 2 * time.Second

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		logger.FromCtx(r.Context()).Error("health check failed", zap.Error(err))
		utils.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "database": "down"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "database": "up"})
}
