package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"sudhamrit-be/internal/product"
	"sudhamrit-be/internal/storage"
	"sudhamrit-be/internal/utils"
)

const maxUploadBytes = storage.MaxImageSize + (1 << 20)

type productRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	Category    string `json:"category" form:"category"`
	Price       string `json:"price" form:"price"`
	Stock       string `json:"stock" form:"stock"`
}

func (req productRequest) input() product.Input {
	return product.Input{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
	}
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context(), false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.OK(w, "", products)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.OK(w, "", categories)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, r, product.ErrProductNotFound)
		return
	}

	p, err := h.products.Get(r.Context(), id, false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.OK(w, "", p)
}

func (h *Handler) AdminListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context(), true)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.OK(w, "", products)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	input, closeFn, err := h.productInput(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer closeFn()

	p, err := h.products.Create(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteEnvelope(w, http.StatusCreated, utils.LevelSuccess, "product added successfully", p)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, r, product.ErrProductNotFound)
		return
	}

	input, closeFn, err := h.productInput(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer closeFn()

	p, err := h.products.Update(r.Context(), id, input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.OK(w, "product updated successfully", p)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, r, product.ErrProductNotFound)
		return
	}

	outcome, err := h.products.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	msg := "product deleted successfully"
	if outcome == product.Deactivated {
		msg = "product has existing orders and was deactivated instead of deleted"
	}
	utils.OK(w, msg, map[string]any{"id": id, "outcome": outcome})
}

// productInput reads the admin product form. Multipart bodies may carry an
// "image" file; JSON bodies never do.
func (h *Handler) productInput(w http.ResponseWriter, r *http.Request) (product.Input, func(), error) {
	noop := func() {}
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var req productRequest
	if ct == "application/json" {
		if err := json.NewDecoder(io.LimitReader(r.Body, maxFormBytes)).Decode(&req); err != nil {
			return product.Input{}, noop, errBadPayload
		}
		return req.input(), noop, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if ct == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return product.Input{}, noop, storage.ErrImageTooLarge
			}
			return product.Input{}, noop, errBadPayload
		}
	} else if err := r.ParseForm(); err != nil {
		return product.Input{}, noop, errBadPayload
	}

	if err := h.forms.Decode(&req, r.Form); err != nil {
		return product.Input{}, noop, errBadPayload
	}
	input := req.input()

	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return input, noop, nil
	case err != nil:
		return product.Input{}, noop, errBadPayload
	}
	if header.Filename == "" {
		file.Close()
		return input, noop, nil
	}

	input.ImageName = header.Filename
	input.Image = file
	return input, func() { file.Close() }, nil
}
