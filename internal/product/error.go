package product

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNameRequired    = errors.New("product name is required")
	ErrCategoryReq     = errors.New("product category is required")
	ErrInvalidPrice    = errors.New("price must be a non-negative number")
	ErrInvalidStock    = errors.New("stock must be a non-negative whole number")
)
