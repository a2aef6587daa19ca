package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "created"   // order exists, no payment attempted yet
	OrderStatusAttempted OrderStatus = "attempted" // at least one payment attempt
	OrderStatusPaid      OrderStatus = "paid"      // captured
)

// OrderRequest is what a client asks for. Amount is in major units (rupees).
type OrderRequest struct {
	Amount   decimal.Decimal
	Currency string // optional, defaults to INR
	Receipt  string // optional, defaults to receipt_<unix-millis>
}

// Order is the gateway-side order returned to the caller. Amount is in minor units.
// It is a plain value: nothing keeps a reference after it is returned.
type Order struct {
	ID        string
	Currency  string
	Amount    int64
	Receipt   string
	Status    OrderStatus
	Notes     map[string]string
	CreatedAt time.Time
}
