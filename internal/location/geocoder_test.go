package location

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockRoundTripper func(req *http.Request) (*http.Response, error)

func (f MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func newTestGeocoder(rt MockRoundTripper) *googleGeocoder {
	g := NewGoogleGeocoder("maps-key", time.Second).(*googleGeocoder)
	g.httpClient.Transport = rt
	return g
}

func TestGoogleGeocoder_Resolve(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		g := newTestGeocoder(func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "maps.googleapis.com", req.URL.Host)
			assert.Equal(t, "12 MG Road, Pune", req.URL.Query().Get("address"))
			assert.Equal(t, "maps-key", req.URL.Query().Get("key"))
			return jsonResponse(http.StatusOK, `{
				"status": "OK",
				"results": [{
					"formatted_address": "12 MG Rd, Pune, Maharashtra",
					"geometry": {"location": {"lat": 18.5204, "lng": 73.8567}}
				}]
			}`), nil
		})

		c, err := g.Resolve(context.Background(), "12 MG Road, Pune")
		require.NoError(t, err)
		assert.InDelta(t, 18.5204, c.Latitude, 1e-9)
		assert.InDelta(t, 73.8567, c.Longitude, 1e-9)
	})

	t.Run("Zero results", func(t *testing.T) {
		g := newTestGeocoder(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"status":"ZERO_RESULTS","results":[]}`), nil
		})

		_, err := g.Resolve(context.Background(), "nowhere")
		assert.ErrorIs(t, err, ErrLocationNotFound)
	})

	t.Run("Denied key", func(t *testing.T) {
		g := newTestGeocoder(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"status":"REQUEST_DENIED","error_message":"bad key"}`), nil
		})

		_, err := g.Resolve(context.Background(), "Pune")
		assert.ErrorIs(t, err, ErrGeocoderUnavailable)
	})

	t.Run("Transport error", func(t *testing.T) {
		g := newTestGeocoder(func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("dial tcp: timeout")
		})

		_, err := g.Resolve(context.Background(), "Pune")
		assert.ErrorIs(t, err, ErrGeocoderUnavailable)
	})

	t.Run("Transport error hides key and address", func(t *testing.T) {
		g := newTestGeocoder(func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("dial tcp: connection refused")
		})

		_, err := g.Resolve(context.Background(), "12 MG Road, Pune")
		require.ErrorIs(t, err, ErrGeocoderUnavailable)
		assert.NotContains(t, err.Error(), "maps-key")
		assert.NotContains(t, err.Error(), "MG")
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("Server error", func(t *testing.T) {
		g := newTestGeocoder(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusInternalServerError, `oops`), nil
		})

		_, err := g.Resolve(context.Background(), "Pune")
		assert.ErrorIs(t, err, ErrGeocoderUnavailable)
	})
}
