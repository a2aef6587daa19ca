// File: internal/usecase/order_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"razorpay-facade/internal/domain"
	"razorpay-facade/internal/domain/model"
	"razorpay-facade/internal/domain/ports/adapter"
	"razorpay-facade/internal/infra/logging"
	"razorpay-facade/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ OrderUseCase = (*orderUC)(nil)

type OrderUseCase interface {
	// Create validates the request, converts the amount to minor units and asks
	// the gateway to create the order. Validation failures never reach the gateway.
	Create(ctx context.Context, req model.OrderRequest) (*model.Order, error)
}

type orderUC struct {
	gateway     adapter.PaymentGateway
	environment string
	now         func() time.Time
	log         *zerolog.Logger
	dev         bool
}

// NewOrderUseCase wires the order creator. environment is copied into the
// order notes; logger may be nil.
func NewOrderUseCase(gateway adapter.PaymentGateway, environment string, logger *zerolog.Logger, dev bool) *orderUC {
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	return &orderUC{
		gateway:     gateway,
		environment: environment,
		now:         time.Now,
		log:         logger,
		dev:         dev,
	}
}

// WithClock replaces the time source used for receipts and notes.
func (u *orderUC) WithClock(now func() time.Time) *orderUC {
	u.now = now
	return u
}

func (u *orderUC) Create(ctx context.Context, req model.OrderRequest) (*model.Order, error) {
	defer logging.TraceDuration(u.log, "OrderUC.Create")()
	log := logging.With(ctx, u.log)

	amount, err := model.ToMinorUnits(req.Amount)
	if err != nil {
		metrics.IncOrder("invalid")
		return nil, err
	}
	currency, err := model.NormalizeCurrency(req.Currency)
	if err != nil {
		metrics.IncOrder("invalid")
		return nil, err
	}
	now := u.now()
	receipt, err := model.NormalizeReceipt(req.Receipt, now)
	if err != nil {
		metrics.IncOrder("invalid")
		return nil, err
	}

	gwReq := adapter.GatewayOrderRequest{
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Notes: map[string]string{
			"created_at":  now.UTC().Format(time.RFC3339),
			"environment": u.environment,
		},
	}

	o, err := u.gateway.CreateOrder(ctx, gwReq)
	if err != nil {
		metrics.IncOrder("gateway_error")
		var gwErr *domain.GatewayError
		if !errors.As(err, &gwErr) {
			gwErr = &domain.GatewayError{Op: "create_order", Err: err}
		}
		log.Error().
			Err(gwErr).
			Str("provider", u.gateway.Name()).
			Int64("amount_minor", amount).
			Str("currency", currency).
			Bool("timeout", errors.Is(err, context.DeadlineExceeded)).
			Msg("create order failed")
		return nil, gwErr
	}

	order := &model.Order{
		ID:        o.ID,
		Currency:  o.Currency,
		Amount:    o.Amount,
		Receipt:   o.Receipt,
		Status:    model.OrderStatus(o.Status),
		Notes:     o.Notes,
		CreatedAt: o.CreatedAt,
	}
	// Fill gaps from the request when the provider echoes a partial entity.
	if order.Currency == "" {
		order.Currency = currency
	}
	if order.Amount == 0 {
		order.Amount = amount
	}
	if order.Receipt == "" {
		order.Receipt = receipt
	}
	if order.Status == "" {
		order.Status = model.OrderStatusCreated
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now.UTC().Truncate(time.Second)
	}

	metrics.IncOrder("created")
	metrics.AddOrderAmount(order.Currency, order.Amount)
	log.Info().
		Str("order_id", logging.Redact(order.ID, u.dev)).
		Int64("amount_minor", order.Amount).
		Str("currency", order.Currency).
		Msg("order created")
	return order, nil
}
