package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"sudhamrit-be/internal/logger"

	"go.uber.org/zap"
)

const googleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

type Geocoder interface {
	Resolve(ctx context.Context, address string) (Coordinates, error)
}

type googleGeocoder struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewGoogleGeocoder(apiKey string, timeout time.Duration) Geocoder {
	if apiKey == "" {
		logger.L().Warn("Google Maps API key is empty")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &googleGeocoder{
		apiKey:     apiKey,
		baseURL:    googleGeocodeURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (g *googleGeocoder) Resolve(ctx context.Context, address string) (Coordinates, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "geocoder"),
		zap.String("method", "Resolve"),
	)

	q := url.Values{}
	q.Set("address", address)
	q.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Coordinates{}, err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		err = redactURL(err)
		log.Error("geocode request failed", zap.String("host", req.URL.Host), zap.Error(err))
		return Coordinates{}, fmt.Errorf("%w: %v", ErrGeocoderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: %v", ErrGeocoderUnavailable, redactURL(err))
	}
	if resp.StatusCode != http.StatusOK {
		log.Error("geocoder returned non-success status", zap.Int("status", resp.StatusCode))
		return Coordinates{}, fmt.Errorf("%w: status %d", ErrGeocoderUnavailable, resp.StatusCode)
	}

	var res geocodeResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return Coordinates{}, fmt.Errorf("%w: %v", ErrGeocoderUnavailable, err)
	}

	switch res.Status {
	case "OK":
	case "ZERO_RESULTS":
		return Coordinates{}, ErrLocationNotFound
	default:
		log.Error("geocoder error",
			zap.String("status", res.Status),
			zap.String("message", res.ErrorMessage),
		)
		return Coordinates{}, fmt.Errorf("%w: %s", ErrGeocoderUnavailable, res.Status)
	}

	if len(res.Results) == 0 {
		return Coordinates{}, ErrLocationNotFound
	}

	first := res.Results[0]
	return Coordinates{
		Latitude:         first.Geometry.Location.Lat,
		Longitude:        first.Geometry.Location.Lng,
		FormattedAddress: first.FormattedAddress,
	}, nil
}

// redactURL drops the request URL from transport errors; the query carries
// the API key and the customer's address.
func redactURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
