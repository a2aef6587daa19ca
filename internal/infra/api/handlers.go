package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"time"

	"razorpay-facade/internal/domain"
	"razorpay-facade/internal/domain/model"
	"razorpay-facade/internal/infra/logging"
	"razorpay-facade/internal/infra/metrics"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

var validate = validator.New()

// ---- DTOs ----

type createOrderRequest struct {
	Amount   any    `json:"amount"`
	Currency string `json:"currency" validate:"omitempty,len=3,alpha"`
	Receipt  string `json:"receipt" validate:"omitempty,max=40"`
}

type verifyPaymentRequest struct {
	OrderID   string `json:"order_id" validate:"required"`
	PaymentID string `json:"payment_id" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

type orderView struct {
	ID        string `json:"id"`
	Currency  string `json:"currency"`
	Amount    int64  `json:"amount"`
	Receipt   string `json:"receipt"`
	CreatedAt int64  `json:"created_at"`
}

type createOrderResponse struct {
	Success bool      `json:"success"`
	Order   orderView `json:"order"`
}

type paymentView struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Status    string `json:"status"`
	Method    string `json:"method,omitempty"`
	Captured  bool   `json:"captured"`
	CreatedAt int64  `json:"created_at,omitempty"`
}

type verifyPaymentResponse struct {
	Success            bool         `json:"success"`
	Message            string       `json:"message"`
	PaymentDetails     *paymentView `json:"paymentDetails,omitempty"`
	DetailsUnavailable bool         `json:"details_unavailable,omitempty"`
}

type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// ---- handlers ----

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Message:   "Razorpay API is running",
		Timestamp: s.opts.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
	})
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in createOrderRequest
	if err := decodeBody(w, r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request body"})
		return
	}
	if err := validate.Struct(in); err != nil {
		s.writeCreateError(w, r, fieldError(err))
		return
	}
	amount, err := model.ParseAmount(in.Amount)
	if err != nil {
		s.writeCreateError(w, r, err)
		return
	}

	order, err := s.orders.Create(ctx, model.OrderRequest{
		Amount:   amount,
		Currency: in.Currency,
		Receipt:  in.Receipt,
	})
	if err != nil {
		s.writeCreateError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, createOrderResponse{
		Success: true,
		Order: orderView{
			ID:        order.ID,
			Currency:  order.Currency,
			Amount:    order.Amount,
			Receipt:   order.Receipt,
			CreatedAt: order.CreatedAt.Unix(),
		},
	})
}

func (s *Server) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var in verifyPaymentRequest
	if err := decodeBody(w, r, &in); err != nil {
		metrics.ObserveVerify("fail", "bad_request", time.Since(start))
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request body"})
		return
	}
	if err := validate.Struct(in); err != nil {
		metrics.ObserveVerify("fail", "missing_parameter", time.Since(start))
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Missing required parameters"})
		return
	}

	ctx := logging.WithOrderID(r.Context(), in.OrderID)
	ctx = logging.WithPaymentID(ctx, in.PaymentID)

	res, err := s.verifier.Verify(ctx, model.VerificationRequest{
		OrderID:   in.OrderID,
		PaymentID: in.PaymentID,
		Signature: in.Signature,
	})
	switch {
	case errors.Is(err, domain.ErrMissingParameter):
		metrics.ObserveVerify("fail", "missing_parameter", time.Since(start))
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Missing required parameters"})
		return
	case err != nil:
		metrics.ObserveVerify("error", "internal", time.Since(start))
		l := logging.With(ctx, s.log)
		l.Error().Err(err).Msg("verify payment failed")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to verify payment"})
		return
	case !res.Valid:
		metrics.ObserveVerify("fail", "mismatch", time.Since(start))
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid payment signature"})
		return
	}

	out := verifyPaymentResponse{Success: true, Message: "Payment verified successfully"}
	reason := "matched"
	if res.Details != nil {
		out.PaymentDetails = toPaymentView(res.Details)
	}
	if res.State == model.StateVerifiedButDetailsUnavailable {
		out.DetailsUnavailable = true
		reason = "details_unavailable"
	}
	metrics.ObserveVerify("ok", reason, time.Since(start))
	writeJSON(w, http.StatusOK, out)
}

func toPaymentView(p *model.PaymentDetails) *paymentView {
	v := &paymentView{
		ID:       p.ID,
		OrderID:  p.OrderID,
		Amount:   p.Amount,
		Currency: p.Currency,
		Status:   string(p.Status),
		Method:   p.Method,
		Captured: p.Captured,
	}
	if !p.CreatedAt.IsZero() {
		v.CreatedAt = p.CreatedAt.Unix()
	}
	return v
}

// ---- errors ----

// statusFor maps a create-order failure to a status and client-safe body.
func statusFor(err error) (int, errorBody) {
	var gwErr *domain.GatewayError
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest, errorBody{Error: "Invalid amount. Please provide a positive number."}
	case errors.Is(err, domain.ErrInvalidCurrency):
		return http.StatusBadRequest, errorBody{Error: "Invalid currency. Please provide a 3-letter ISO 4217 code."}
	case errors.Is(err, domain.ErrInvalidReceipt):
		return http.StatusBadRequest, errorBody{Error: "Invalid receipt. Maximum length is 40 characters."}
	case errors.As(err, &gwErr):
		return http.StatusInternalServerError, errorBody{Error: "Failed to create payment order", Message: gwErr.Message()}
	default:
		return http.StatusInternalServerError, errorBody{Error: "Failed to create payment order", Message: "internal error"}
	}
}

func (s *Server) writeCreateError(w http.ResponseWriter, r *http.Request, err error) {
	code, body := statusFor(err)
	if code >= http.StatusInternalServerError {
		l := logging.With(r.Context(), s.log)
		l.Error().Err(err).Msg("create payment order failed")
	}
	writeJSON(w, code, body)
}

// fieldError turns the first validator failure into its domain sentinel.
func fieldError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	switch verrs[0].StructField() {
	case "Currency":
		return domain.ErrInvalidCurrency
	case "Receipt":
		return domain.ErrInvalidReceipt
	case "OrderID", "PaymentID", "Signature":
		return domain.ErrMissingParameter
	}
	return err
}

// ---- encoding ----

// decodeBody reads a JSON or urlencoded form body into dst. An empty body
// leaves dst untouched so the field checks report what is missing.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return err
		}
		fields := make(map[string]string, len(r.PostForm))
		for k := range r.PostForm {
			fields[k] = r.PostForm.Get(k)
		}
		b, err := json.Marshal(fields)
		if err != nil {
			return err
		}
		return json.Unmarshal(b, dst)
	}

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
