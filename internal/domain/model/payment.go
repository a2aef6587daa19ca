package model

import "time"

type PaymentStatus string

const (
	PaymentStatusCreated    PaymentStatus = "created"
	PaymentStatusAuthorized PaymentStatus = "authorized"
	PaymentStatusCaptured   PaymentStatus = "captured"
	PaymentStatusRefunded   PaymentStatus = "refunded"
	PaymentStatusFailed     PaymentStatus = "failed"
)

// PaymentDetails is a snapshot of a payment as reported by the gateway.
type PaymentDetails struct {
	ID        string
	OrderID   string
	Amount    int64 // minor units
	Currency  string
	Status    PaymentStatus
	Method    string // card, upi, netbanking, wallet...
	Captured  bool
	CreatedAt time.Time
}
