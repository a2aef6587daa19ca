//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"razorpay-facade/internal/domain"
	"razorpay-facade/internal/domain/model"
	"razorpay-facade/internal/domain/ports/adapter"
	"razorpay-facade/internal/infra/security"
	"razorpay-facade/internal/usecase"
)

const testSecret = "rzp_test_secret"

func signedRequest(t *testing.T, orderID, paymentID string) model.VerificationRequest {
	t.Helper()
	return model.VerificationRequest{
		OrderID:   orderID,
		PaymentID: paymentID,
		Signature: security.ComputeSignature([]byte(testSecret), orderID, paymentID),
	}
}

func newVerifier(t *testing.T) *security.SignatureVerifier {
	t.Helper()
	v, err := security.NewSignatureVerifier(testSecret)
	if err != nil {
		t.Fatalf("NewSignatureVerifier: %v", err)
	}
	return v
}

func TestVerifyUseCase_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("should accept a valid signature and fetch details", func(t *testing.T) {
		// --- Arrange ---
		gw := &MockPaymentGateway{}
		uc := usecase.NewVerifyUseCase(newVerifier(t), gw, newTestLogger(), true)
		req := signedRequest(t, "order_TEST123", "pay_ABC")

		// --- Act ---
		res, err := uc.Verify(ctx, req)

		// --- Assert ---
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if !res.Valid {
			t.Fatal("expected signature to be valid")
		}
		if res.State != model.StateDetailsFetched {
			t.Errorf("expected state %s, but got %s", model.StateDetailsFetched, res.State)
		}
		if res.Details == nil || res.Details.ID != "pay_ABC" || res.Details.Amount != 50000 {
			t.Errorf("unexpected details: %+v", res.Details)
		}
		if res.Details.Status != model.PaymentStatusCaptured {
			t.Errorf("expected captured status, but got %s", res.Details.Status)
		}
		if gw.fetchCount() != 1 || gw.FetchCalls[0] != "pay_ABC" {
			t.Errorf("expected one fetch for pay_ABC, got %v", gw.FetchCalls)
		}
	})

	t.Run("should report a tampered signature as invalid without error", func(t *testing.T) {
		gw := &MockPaymentGateway{}
		uc := usecase.NewVerifyUseCase(newVerifier(t), gw, newTestLogger(), false)
		req := signedRequest(t, "order_TEST123", "pay_ABC")
		req.PaymentID = "pay_XYZ"

		res, err := uc.Verify(ctx, req)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if res.Valid {
			t.Error("expected signature to be invalid")
		}
		if res.State != model.StateMismatched {
			t.Errorf("expected state %s, but got %s", model.StateMismatched, res.State)
		}
		if gw.fetchCount() != 0 {
			t.Errorf("expected no details fetch on mismatch, got %d", gw.fetchCount())
		}
	})

	t.Run("should reject missing parameters before any signature work", func(t *testing.T) {
		called := false
		checker := &MockSignatureChecker{VerifyFunc: func(o, p, s string) (bool, error) {
			called = true
			return true, nil
		}}
		gw := &MockPaymentGateway{}
		uc := usecase.NewVerifyUseCase(checker, gw, newTestLogger(), false)

		cases := []model.VerificationRequest{
			{PaymentID: "pay_1", Signature: "abc"},
			{OrderID: "order_1", Signature: "abc"},
			{OrderID: "order_1", PaymentID: "pay_1"},
		}
		for _, req := range cases {
			res, err := uc.Verify(ctx, req)
			if !errors.Is(err, domain.ErrMissingParameter) {
				t.Errorf("%+v: expected ErrMissingParameter, but got %v", req, err)
			}
			if res == nil || res.State != model.StateRejected || res.Valid {
				t.Errorf("%+v: expected rejected result, got %+v", req, res)
			}
		}
		if called {
			t.Error("expected no signature work for incomplete requests")
		}
		if gw.fetchCount() != 0 {
			t.Errorf("expected no gateway traffic, got %d", gw.fetchCount())
		}
	})

	t.Run("should stay valid when details fetch fails", func(t *testing.T) {
		gw := &MockPaymentGateway{
			FetchPaymentFunc: func(ctx context.Context, id string) (*adapter.GatewayPayment, error) {
				return nil, &domain.GatewayError{Op: "fetch_payment", StatusCode: 502}
			},
		}
		uc := usecase.NewVerifyUseCase(newVerifier(t), gw, newTestLogger(), false)

		res, err := uc.Verify(ctx, signedRequest(t, "order_TEST123", "pay_ABC"))
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if !res.Valid {
			t.Error("expected verification to remain valid")
		}
		if res.State != model.StateVerifiedButDetailsUnavailable {
			t.Errorf("expected degraded state, but got %s", res.State)
		}
		if !errors.Is(res.DetailsErr, domain.ErrDetailsUnavailable) || !errors.Is(res.DetailsErr, domain.ErrGateway) {
			t.Errorf("unexpected details error: %v", res.DetailsErr)
		}
		if res.Details != nil {
			t.Errorf("expected no details, got %+v", res.Details)
		}
	})

	t.Run("should not attach details of a payment from another order", func(t *testing.T) {
		gw := &MockPaymentGateway{} // fetched payment reports order_TEST123
		uc := usecase.NewVerifyUseCase(newVerifier(t), gw, newTestLogger(), false)

		res, err := uc.Verify(ctx, signedRequest(t, "order_OTHER", "pay_ABC"))
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if !res.Valid || res.State != model.StateVerifiedButDetailsUnavailable {
			t.Errorf("unexpected result: %+v", res)
		}
		if res.Details != nil {
			t.Errorf("expected details to be withheld, got %+v", res.Details)
		}
	})

	t.Run("should skip enrichment without a gateway", func(t *testing.T) {
		uc := usecase.NewVerifyUseCase(newVerifier(t), nil, nil, false)

		res, err := uc.Verify(ctx, signedRequest(t, "order_1", "pay_1"))
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if !res.Valid || res.State != model.StateMatched {
			t.Errorf("unexpected result: %+v", res)
		}
	})

	t.Run("should propagate unexpected checker errors", func(t *testing.T) {
		boom := errors.New("boom")
		checker := &MockSignatureChecker{VerifyFunc: func(o, p, s string) (bool, error) { return false, boom }}
		uc := usecase.NewVerifyUseCase(checker, nil, newTestLogger(), false)

		res, err := uc.Verify(ctx, model.VerificationRequest{OrderID: "o", PaymentID: "p", Signature: "s"})
		if !errors.Is(err, boom) {
			t.Errorf("expected wrapped checker error, but got %v", err)
		}
		if res != nil {
			t.Errorf("expected nil result, got %+v", res)
		}
	})
}
