package category

// Category is a storefront grouping derived from the active catalog.
type Category struct {
	Name         string `json:"name"`
	ProductCount int    `json:"product_count"`
}
