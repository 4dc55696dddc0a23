package handler

import (
	"net/http"

	"sudhamrit-be/internal/utils"
)

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	view := h.dashboard.View(r.Context())
	if view.Degraded {
		utils.WriteEnvelope(w, http.StatusOK, utils.LevelWarning, "some dashboard figures could not be loaded", view)
		return
	}
	utils.OK(w, "", view)
}
