package location

import "errors"

var (
	ErrAddressRequired     = errors.New("address is required")
	ErrLocationNotFound    = errors.New("unable to find location")
	ErrGeocoderUnavailable = errors.New("geocoding service unavailable")
)
