// File: internal/usecase/verify_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"

	"razorpay-facade/internal/domain"
	"razorpay-facade/internal/domain/model"
	"razorpay-facade/internal/domain/ports/adapter"
	"razorpay-facade/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ VerifyUseCase = (*verifyUC)(nil)

// SignatureChecker is satisfied by *security.SignatureVerifier.
type SignatureChecker interface {
	Verify(orderID, paymentID, signature string) (bool, error)
}

type VerifyUseCase interface {
	// Verify decides whether the checkout signature is authentic. A mismatch is
	// a result with Valid=false, not an error. Only missing parameters error.
	Verify(ctx context.Context, req model.VerificationRequest) (*model.VerificationResult, error)
}

type verifyUC struct {
	checker SignatureChecker
	gateway adapter.PaymentGateway // nil disables enrichment
	log     *zerolog.Logger
	dev     bool
}

// NewVerifyUseCase wires the verifier. Pass a nil gateway to skip the payment
// details lookup after a match.
func NewVerifyUseCase(checker SignatureChecker, gateway adapter.PaymentGateway, logger *zerolog.Logger, dev bool) *verifyUC {
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	return &verifyUC{checker: checker, gateway: gateway, log: logger, dev: dev}
}

func (u *verifyUC) Verify(ctx context.Context, req model.VerificationRequest) (*model.VerificationResult, error) {
	defer logging.TraceDuration(u.log, "VerifyUC.Verify")()
	log := logging.With(ctx, u.log)

	res := &model.VerificationResult{State: model.StateReceived}

	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		res.State = model.StateRejected
		return res, fmt.Errorf("%w: order_id, payment_id and signature are required", domain.ErrMissingParameter)
	}
	res.State = model.StateValidated

	ok, err := u.checker.Verify(req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		if errors.Is(err, domain.ErrMissingParameter) {
			res.State = model.StateRejected
			return res, err
		}
		return nil, fmt.Errorf("verify signature: %w", err)
	}
	res.State = model.StateSignatureComputed

	if !ok {
		res.State = model.StateMismatched
		log.Warn().
			Err(domain.ErrSignatureMismatch).
			Str("order_id", logging.Redact(req.OrderID, u.dev)).
			Str("payment_id", logging.Redact(req.PaymentID, u.dev)).
			Msg("payment signature mismatch")
		return res, nil
	}
	res.Valid = true
	res.State = model.StateMatched

	if u.gateway == nil {
		return res, nil
	}
	u.enrich(ctx, log, req, res)
	return res, nil
}

// enrich fetches payment details after a match. Its failure only degrades the
// result; Valid stays true.
func (u *verifyUC) enrich(ctx context.Context, log *zerolog.Logger, req model.VerificationRequest, res *model.VerificationResult) {
	p, err := u.gateway.FetchPayment(ctx, req.PaymentID)
	if err != nil {
		res.State = model.StateVerifiedButDetailsUnavailable
		res.DetailsErr = fmt.Errorf("%w: %w", domain.ErrDetailsUnavailable, err)
		log.Warn().Err(err).Str("provider", u.gateway.Name()).Msg("payment details fetch failed")
		return
	}
	if p.OrderID != "" && p.OrderID != req.OrderID {
		res.State = model.StateVerifiedButDetailsUnavailable
		res.DetailsErr = fmt.Errorf("%w: payment belongs to a different order", domain.ErrDetailsUnavailable)
		log.Warn().
			Err(domain.ErrSignatureMismatch).
			Str("order_id", logging.Redact(req.OrderID, u.dev)).
			Str("payment_order_id", logging.Redact(p.OrderID, u.dev)).
			Msg("fetched payment order id differs from request")
		return
	}
	res.State = model.StateDetailsFetched
	res.Details = &model.PaymentDetails{
		ID:        p.ID,
		OrderID:   p.OrderID,
		Amount:    p.Amount,
		Currency:  p.Currency,
		Status:    model.PaymentStatus(p.Status),
		Method:    p.Method,
		Captured:  p.Captured,
		CreatedAt: p.CreatedAt,
	}
}
