package payment

import "errors"

var (
	ErrSignatureMismatch   = errors.New("payment signature verification failed")
	ErrGatewayUnavailable  = errors.New("payment gateway unavailable")
	ErrGatewayNotConfigure = errors.New("payment gateway not configured")
	ErrInvalidAmount       = errors.New("payment amount must be positive")
)
