package adapter

import (
	"context"
	"time"
)

// GatewayOrderRequest is the payload for creating an order at the provider.
// Amount is already in minor units.
type GatewayOrderRequest struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

// GatewayOrder is the provider's view of an order.
type GatewayOrder struct {
	ID         string
	Amount     int64
	AmountPaid int64
	AmountDue  int64
	Currency   string
	Receipt    string
	Status     string
	Attempts   int
	Notes      map[string]string
	CreatedAt  time.Time
}

// GatewayPayment is the provider's view of a payment.
type GatewayPayment struct {
	ID        string
	OrderID   string
	Amount    int64
	Currency  string
	Status    string
	Method    string
	Captured  bool
	Email     string
	Contact   string
	CreatedAt time.Time
}

// PaymentGateway is the hex port for payment providers.
// Implementations must be safe for concurrent use.
type PaymentGateway interface {
	Name() string

	// CreateOrder issues exactly one order-creation call. Failures are *domain.GatewayError.
	CreateOrder(ctx context.Context, req GatewayOrderRequest) (*GatewayOrder, error)
	// FetchPayment looks up a payment by provider id.
	FetchPayment(ctx context.Context, paymentID string) (*GatewayPayment, error)
}
