package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order only exists while its message is rendered and dispatched.
type Order struct {
	Reference string          `json:"reference"`
	Lines     []CartLine      `json:"lines"`
	Customer  string          `json:"customer"`
	PlacedAt  time.Time       `json:"placed_at"`
	Delivery  DeliveryMethod  `json:"delivery_method"`
	Payment   PaymentMethod   `json:"payment_method"`
	Location  string          `json:"location"`
	Invoice   string          `json:"invoice"`
	Total     decimal.Decimal `json:"total"`
}
