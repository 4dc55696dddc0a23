package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sudhamrit-be/internal/cart"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUpdateCart(t *testing.T) {
	post := func(body string) *http.Request {
		req := httptest.NewRequest("POST", "/cart/update", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return req
	}

	errorCode := func(t *testing.T, w *httptest.ResponseRecorder) string {
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return body["error"]
	}

	t.Run("not logged in", func(t *testing.T) {
		ts := newTestServer(t, nil)
		w := ts.do(post(`{"product_id":1,"quantity":2}`))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "not_logged_in", errorCode(t, w))
	})

	t.Run("admin session is not a customer", func(t *testing.T) {
		ts := newTestServer(t, nil)
		w := ts.do(post(`{"product_id":1,"quantity":2}`), ts.sessionCookie(t, adminP))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "not_logged_in", errorCode(t, w))
	})

	t.Run("invalid payload", func(t *testing.T) {
		ts := newTestServer(t, nil)
		w := ts.do(post(`not json`), ts.sessionCookie(t, customerP))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid_payload", errorCode(t, w))
	})

	t.Run("invalid quantity", func(t *testing.T) {
		ts := newTestServer(t, nil)
		w := ts.do(post(`{"product_id":1,"quantity":"two"}`), ts.sessionCookie(t, customerP))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid_quantity", errorCode(t, w))
	})

	t.Run("item not found", func(t *testing.T) {
		ts := newTestServer(t, nil)
		ts.carts.On("SetQuantity", mock.Anything, uint(5), uint(9), 3).Return(cart.Totals{}, cart.ErrCartItemNotFound)

		w := ts.do(post(`{"product_id":9,"quantity":3}`), ts.sessionCookie(t, customerP))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "item_not_found", errorCode(t, w))
	})

	t.Run("internal error", func(t *testing.T) {
		ts := newTestServer(t, nil)
		ts.carts.On("SetQuantity", mock.Anything, uint(5), uint(1), 2).Return(cart.Totals{}, errors.New("db down"))

		w := ts.do(post(`{"product_id":1,"quantity":2}`), ts.sessionCookie(t, customerP))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "internal_error", errorCode(t, w))
	})

	t.Run("returns numeric totals", func(t *testing.T) {
		ts := newTestServer(t, nil)
		ts.carts.On("SetQuantity", mock.Anything, uint(5), uint(1), 3).Return(cart.Totals{
			ItemTotal:  decimal.RequireFromString("150"),
			GrandTotal: decimal.RequireFromString("270.5"),
		}, nil)

		w := ts.do(post(`{"product_id":"1","quantity":"3"}`), ts.sessionCookie(t, customerP))

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"item_total":150.00,"grand_total":270.50}`, w.Body.String())
	})

	t.Run("zero quantity removes the line", func(t *testing.T) {
		ts := newTestServer(t, nil)
		ts.carts.On("SetQuantity", mock.Anything, uint(5), uint(1), 0).Return(cart.Totals{
			ItemTotal:  decimal.Zero,
			GrandTotal: decimal.RequireFromString("60"),
		}, nil)

		w := ts.do(post(`{"product_id":1,"quantity":0}`), ts.sessionCookie(t, customerP))

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"item_total":0,"grand_total":60}`, w.Body.String())
	})
}

func TestCartRoutes(t *testing.T) {
	t.Run("add unknown product", func(t *testing.T) {
		ts := newTestServer(t, nil)
		ts.carts.On("AddItem", mock.Anything, uint(5), uint(42)).Return(cart.ErrProductNotFound)

		w := ts.do(httptest.NewRequest("POST", "/cart/items/42", nil), ts.sessionCookie(t, customerP))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("add item", func(t *testing.T) {
		ts := newTestServer(t, nil)
		ts.carts.On("AddItem", mock.Anything, uint(5), uint(2)).Return(nil)

		w := ts.do(httptest.NewRequest("POST", "/cart/items/2", nil), ts.sessionCookie(t, customerP))

		assert.Equal(t, http.StatusOK, w.Code)
		ts.carts.AssertExpectations(t)
	})

	t.Run("remove missing line is a warning", func(t *testing.T) {
		ts := newTestServer(t, nil)
		ts.carts.On("Remove", mock.Anything, uint(5), uint(2)).Return(cart.ErrCartItemNotFound)

		w := ts.do(httptest.NewRequest("POST", "/cart/items/2/remove", nil), ts.sessionCookie(t, customerP))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "warning", string(decodeEnvelope(t, w).Level))
	})

	t.Run("view", func(t *testing.T) {
		ts := newTestServer(t, nil)
		ts.carts.On("List", mock.Anything, uint(5)).Return(cart.View{
			Items:      []cart.Item{{ProductID: 1, Name: "Milk", Price: decimal.RequireFromString("60"), Quantity: 2}},
			GrandTotal: decimal.RequireFromString("120"),
		}, nil)

		w := ts.do(httptest.NewRequest("GET", "/cart", nil), ts.sessionCookie(t, customerP))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"grand_total":"120"`)
	})
}
