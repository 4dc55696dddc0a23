package product

import (
	"io"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Image       string          `json:"image,omitempty"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Input carries raw admin form values; Price and Stock are parsed by the
// service so bad input surfaces as a validation error rather than a 500.
type Input struct {
	Name        string
	Description string
	Category    string
	Price       string
	Stock       string

	ImageName string
	Image     io.Reader
}

type SaveParams struct {
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	Stock       int
	Image       string
}

// DeleteOutcome reports which removal path a delete took.
type DeleteOutcome string

const (
	Deleted     DeleteOutcome = "deleted"
	Deactivated DeleteOutcome = "deactivated"
)
