package payment

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"razorpay-facade/internal/domain"
	"razorpay-facade/internal/domain/ports/adapter"

	"github.com/oklog/ulid/v2"
)

var _ adapter.PaymentGateway = (*NoopPaymentGateway)(nil)

// NoopPaymentGateway is a simple in-memory gateway for dev mode and tests.
// Orders and payments live only as long as the process.
type NoopPaymentGateway struct {
	mu       sync.Mutex
	entropy  *ulid.MonotonicEntropy
	now      func() time.Time
	orders   map[string]*adapter.GatewayOrder
	payments map[string]*adapter.GatewayPayment
}

func NewNoopPaymentGateway() *NoopPaymentGateway {
	return &NoopPaymentGateway{
		entropy:  ulid.Monotonic(rand.Reader, 0),
		now:      time.Now,
		orders:   make(map[string]*adapter.GatewayOrder),
		payments: make(map[string]*adapter.GatewayPayment),
	}
}

func (g *NoopPaymentGateway) Name() string { return "noop" }

// next must be called with g.mu held; the monotonic entropy source is not goroutine safe.
func (g *NoopPaymentGateway) next(prefix string) string {
	id := ulid.MustNew(ulid.Timestamp(g.now()), g.entropy)
	return prefix + "_" + id.String()
}

func (g *NoopPaymentGateway) CreateOrder(ctx context.Context, req adapter.GatewayOrderRequest) (*adapter.GatewayOrder, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.GatewayError{Op: opCreateOrder, Err: err}
	}
	if req.Amount < 1 {
		return nil, &domain.GatewayError{Op: opCreateOrder, StatusCode: 400, Code: "BAD_REQUEST_ERROR", Description: "The amount must be at least INR 1.00."}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	o := &adapter.GatewayOrder{
		ID:        g.next("order"),
		Amount:    req.Amount,
		AmountDue: req.Amount,
		Currency:  req.Currency,
		Receipt:   req.Receipt,
		Status:    "created",
		Notes:     copyNotes(req.Notes),
		CreatedAt: g.now().UTC().Truncate(time.Second),
	}
	g.orders[o.ID] = o
	cp := *o
	cp.Notes = copyNotes(o.Notes)
	return &cp, nil
}

func (g *NoopPaymentGateway) FetchPayment(ctx context.Context, paymentID string) (*adapter.GatewayPayment, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.GatewayError{Op: opFetchPayment, Err: err}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.payments[paymentID]
	if !ok {
		return nil, &domain.GatewayError{Op: opFetchPayment, StatusCode: 400, Code: "BAD_REQUEST_ERROR", Description: "The id provided does not exist"}
	}
	cp := *p
	return &cp, nil
}

// RecordPayment simulates a payer completing checkout for orderID and returns
// the captured payment. Used by dev tooling and tests.
func (g *NoopPaymentGateway) RecordPayment(orderID, method string) (*adapter.GatewayPayment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	o, ok := g.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("noop: order %s not found", orderID)
	}
	o.Attempts++
	o.AmountPaid = o.Amount
	o.AmountDue = 0
	o.Status = "paid"
	p := &adapter.GatewayPayment{
		ID:        g.next("pay"),
		OrderID:   o.ID,
		Amount:    o.Amount,
		Currency:  o.Currency,
		Status:    "captured",
		Method:    method,
		Captured:  true,
		CreatedAt: g.now().UTC().Truncate(time.Second),
	}
	g.payments[p.ID] = p
	cp := *p
	return &cp, nil
}

func copyNotes(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
