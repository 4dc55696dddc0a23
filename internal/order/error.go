package order

import "errors"

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrUserNotFound     = errors.New("customer not found")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrInvalidAmount    = errors.New("order total must be positive")
	ErrAmountMismatch   = errors.New("cart total changed since payment was initiated")
	ErrIntentMismatch   = errors.New("no pending payment for this customer")
	ErrInvalidMethod    = errors.New("unsupported payment method")
	ErrDuplicatePayment = errors.New("payment already recorded")
)
