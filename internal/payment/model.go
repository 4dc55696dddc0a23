package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusFailed    Status = "Failed"
)

const (
	MethodRazorpay = "Razorpay"
	MethodCash     = "Cash"
	MethodCOD      = "Cash on Delivery"
	MethodCard     = "Card"
	MethodUPI      = "UPI"
)

// IsOfflineMethod reports whether m can be confirmed without the gateway.
func IsOfflineMethod(m string) bool {
	switch m {
	case MethodCash, MethodCOD, MethodCard, MethodUPI:
		return true
	}
	return false
}

type Payment struct {
	ID               uint            `json:"id"`
	UserID           uint            `json:"user_id"`
	Amount           decimal.Decimal `json:"amount"`
	Method           string          `json:"method"`
	Status           Status          `json:"status"`
	GatewayOrderID   string          `json:"gateway_order_id,omitempty"`
	GatewayPaymentID string          `json:"gateway_payment_id,omitempty"`
	GatewaySignature string          `json:"-"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// OrderIntent is the gateway-side order a checkout pays against.
type OrderIntent struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

var hundred = decimal.NewFromInt(100)

// ToMinorUnits converts rupees to paise.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromMinorUnits converts paise to rupees.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Div(hundred)
}
