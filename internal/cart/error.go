package cart

import "errors"

var (
	ErrInvalidQuantity  = errors.New("invalid cart quantity")
	ErrInvalidProduct   = errors.New("invalid product id")
	ErrProductNotFound  = errors.New("product not found or unavailable")
	ErrCartItemNotFound = errors.New("cart item not found")
)
