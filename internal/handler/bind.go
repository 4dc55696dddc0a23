package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"sudhamrit-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

const maxFormBytes = 1 << 20

var errBadPayload = errors.New("invalid request payload")

// bind decodes a JSON body or, for form posts, the form values into the
// fields of dst tagged with `form`. The result is then validated.
func (h *Handler) bind(r *http.Request, dst any) error {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch ct {
	case "application/json":
		dec := json.NewDecoder(io.LimitReader(r.Body, maxFormBytes))
		if err := dec.Decode(dst); err != nil {
			return errBadPayload
		}
	default:
		if err := r.ParseForm(); err != nil {
			return errBadPayload
		}
		if err := h.forms.Decode(dst, r.Form); err != nil {
			return errBadPayload
		}
	}

	if err := h.validate.Struct(dst); err != nil {
		return err
	}
	return nil
}

// pathID reads a positive integer URL parameter.
func pathID(r *http.Request, name string) (uint, bool) {
	id, err := utils.ToUint(chi.URLParam(r, name))
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
