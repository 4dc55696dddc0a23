package order

import (
	"time"

	"sudhamrit-be/internal/payment"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusConfirmed Status = "Confirmed"
	StatusCompleted Status = "Completed"
	StatusDelivered Status = "Delivered"
)

type Order struct {
	ID            uint            `json:"id"`
	PaymentID     uint            `json:"payment_id"`
	UserID        uint            `json:"user_id"`
	CustomerName  string          `json:"customer_name,omitempty"`
	CustomerEmail string          `json:"customer_email,omitempty"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        Status          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	PaymentStatus payment.Status  `json:"payment_status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Items         []Item          `json:"items,omitempty"`
}

type Item struct {
	ID           uint            `json:"id"`
	OrderID      uint            `json:"order_id"`
	ProductID    uint            `json:"product_id"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	PricePerItem decimal.Decimal `json:"price_per_item"`
}

func (i Item) LineTotal() decimal.Decimal {
	return i.PricePerItem.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// PlaceParams describes a confirmed payment to turn into an order.
// ExpectedAmount, when set, must equal the cart total read at commit time.
type PlaceParams struct {
	UserID           uint
	Method           string
	OrderStatus      Status
	GatewayOrderID   string
	GatewayPaymentID string
	GatewaySignature string
	ExpectedAmount   *decimal.Decimal
}

// Placed is the committed result of a checkout.
type Placed struct {
	Order   Order
	Payment payment.Payment
	Address string
}

// Intent is a gateway order awaiting the customer's payment. It lives in
// the client session only.
type Intent struct {
	UserID         uint            `json:"user_id"`
	GatewayOrderID string          `json:"gateway_order_id"`
	Amount         decimal.Decimal `json:"amount"`
	AmountMinor    int64           `json:"amount_minor"`
	Currency       string          `json:"currency"`
	Receipt        string          `json:"receipt"`
	KeyID          string          `json:"key_id"`
}

// Notification reports the confirmation email outcome as far as it is
// known when the response is written.
type Notification struct {
	Sent    bool   `json:"sent"`
	Pending bool   `json:"pending"`
	Error   string `json:"error,omitempty"`
}

type Receipt struct {
	Order        Order        `json:"order"`
	Notification Notification `json:"notification"`
}
