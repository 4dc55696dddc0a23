package notify

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type OrderLine struct {
	Name     string
	Quantity int
	Price    decimal.Decimal
}

type OrderSummary struct {
	OrderID      uint
	CustomerName string
	Email        string
	Address      string
	Method       string
	Total        decimal.Decimal
	Lines        []OrderLine
}

// OrderConfirmation renders the customer's confirmation email.
func OrderConfirmation(s OrderSummary) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", s.CustomerName)
	fmt.Fprintf(&b, "Thank you for shopping with Sudhamrit. Your order #%d has been confirmed.\n\n", s.OrderID)
	for _, l := range s.Lines {
		lineTotal := l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
		fmt.Fprintf(&b, "  %s x %d @ Rs. %s = Rs. %s\n", l.Name, l.Quantity, l.Price.StringFixed(2), lineTotal.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: Rs. %s\n", s.Total.StringFixed(2))
	fmt.Fprintf(&b, "Payment method: %s\n", s.Method)
	if s.Address != "" {
		fmt.Fprintf(&b, "Delivery address: %s\n", s.Address)
	}
	b.WriteString("\n")
	b.WriteString("We will notify you once your order is on its way.\n\nTeam Sudhamrit\n")

	return Message{
		To:      s.Email,
		Subject: fmt.Sprintf("Order #%d Confirmation - Sudhamrit", s.OrderID),
		Body:    b.String(),
		OrderID: s.OrderID,
	}
}
