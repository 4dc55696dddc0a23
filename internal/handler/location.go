package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"sudhamrit-be/internal/location"
	"sudhamrit-be/internal/utils"
)

// Error codes of the save location endpoint.
const (
	codeAddressRequired     = "address_required"
	codeLocationNotFound    = "location_not_found"
	codeGeocoderUnavailable = "geocoder_unavailable"
)

type locationRequest struct {
	Address string `json:"address"`
}

func (h *Handler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.locations.List(r.Context(), customerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.OK(w, "", locations)
}

// SaveLocation geocodes the posted address and answers with the saved row
// or an error code.
func (h *Handler) SaveLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxFormBytes)).Decode(&req); err != nil ||
		strings.TrimSpace(req.Address) == "" {
		utils.WriteJSONError(w, codeAddressRequired, http.StatusBadRequest)
		return
	}

	loc, err := h.locations.Save(r.Context(), customerID(r), req.Address)
	switch {
	case errors.Is(err, location.ErrAddressRequired):
		utils.WriteJSONError(w, codeAddressRequired, http.StatusBadRequest)
		return
	case errors.Is(err, location.ErrLocationNotFound):
		utils.WriteJSONError(w, codeLocationNotFound, http.StatusNotFound)
		return
	case errors.Is(err, location.ErrGeocoderUnavailable):
		utils.WriteJSONError(w, codeGeocoderUnavailable, http.StatusBadGateway)
		return
	case err != nil:
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, loc)
}
