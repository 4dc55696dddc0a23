package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is one cart line joined with the product it refers to.
type Item struct {
	ID        uint            `json:"id"`
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Image     string          `json:"image,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	ItemTotal decimal.Decimal `json:"item_total"`
	AddedAt   time.Time       `json:"added_at"`
}

type View struct {
	Items      []Item          `json:"items"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// Totals is what a quantity change reports back to the cart page.
type Totals struct {
	ItemTotal  decimal.Decimal `json:"item_total"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// GrandTotal sums quantity × price over items.
func GrandTotal(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}
