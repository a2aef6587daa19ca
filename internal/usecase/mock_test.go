//go:build !integration

package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"razorpay-facade/internal/domain/ports/adapter"
	"razorpay-facade/internal/usecase"
)

// -----------------------------
// Utilities: tiny helpers
// -----------------------------

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// =============================
// Adapters
// =============================

// ---- Mock PaymentGateway ----

type MockPaymentGateway struct {
	NameVal string

	mu          sync.Mutex
	CreateCalls []adapter.GatewayOrderRequest
	FetchCalls  []string

	CreateOrderFunc  func(ctx context.Context, req adapter.GatewayOrderRequest) (*adapter.GatewayOrder, error)
	FetchPaymentFunc func(ctx context.Context, paymentID string) (*adapter.GatewayPayment, error)
}

var _ adapter.PaymentGateway = (*MockPaymentGateway)(nil)

func (m *MockPaymentGateway) Name() string {
	if m.NameVal == "" {
		return "mockpay"
	}
	return m.NameVal
}

func (m *MockPaymentGateway) CreateOrder(ctx context.Context, req adapter.GatewayOrderRequest) (*adapter.GatewayOrder, error) {
	m.mu.Lock()
	m.CreateCalls = append(m.CreateCalls, req)
	m.mu.Unlock()
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, req)
	}
	return &adapter.GatewayOrder{
		ID:        "order_TEST123",
		Amount:    req.Amount,
		AmountDue: req.Amount,
		Currency:  req.Currency,
		Receipt:   req.Receipt,
		Status:    "created",
		Notes:     req.Notes,
		CreatedAt: time.Unix(1700000000, 0).UTC(),
	}, nil
}

func (m *MockPaymentGateway) FetchPayment(ctx context.Context, paymentID string) (*adapter.GatewayPayment, error) {
	m.mu.Lock()
	m.FetchCalls = append(m.FetchCalls, paymentID)
	m.mu.Unlock()
	if m.FetchPaymentFunc != nil {
		return m.FetchPaymentFunc(ctx, paymentID)
	}
	return &adapter.GatewayPayment{
		ID:       paymentID,
		OrderID:  "order_TEST123",
		Amount:   50000,
		Currency: "INR",
		Status:   "captured",
		Method:   "upi",
		Captured: true,
	}, nil
}

func (m *MockPaymentGateway) createCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.CreateCalls)
}

func (m *MockPaymentGateway) fetchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.FetchCalls)
}

// ---- Mock SignatureChecker ----

type MockSignatureChecker struct {
	VerifyFunc func(orderID, paymentID, signature string) (bool, error)
}

var _ usecase.SignatureChecker = (*MockSignatureChecker)(nil)

func (m *MockSignatureChecker) Verify(orderID, paymentID, signature string) (bool, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(orderID, paymentID, signature)
	}
	return true, nil
}
