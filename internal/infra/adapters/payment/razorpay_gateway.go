// File: internal/infra/adapters/payment/razorpay_gateway.go
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"razorpay-facade/internal/domain"
	"razorpay-facade/internal/domain/ports/adapter"
	"razorpay-facade/internal/infra/metrics"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var _ adapter.PaymentGateway = (*RazorpayGateway)(nil)

const (
	opCreateOrder  = "create_order"
	opFetchPayment = "fetch_payment"

	maxResponseBytes = 1 << 20
)

// RazorpayGateway implements adapter.PaymentGateway against the Razorpay REST v1 API
// using HTTP basic auth (key id / key secret).
type RazorpayGateway struct {
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
}

// NewRazorpayGateway builds a client. baseURL is normally https://api.razorpay.com/v1.
func NewRazorpayGateway(keyID, keySecret, baseURL string, timeout time.Duration) (*RazorpayGateway, error) {
	if keyID == "" || keySecret == "" {
		return nil, fmt.Errorf("%w: razorpay key id/secret empty", domain.ErrConfiguration)
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid razorpay base url %q", domain.ErrConfiguration, baseURL)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &RazorpayGateway{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

func (g *RazorpayGateway) Name() string { return "razorpay" }

// rzpOrder mirrors the order entity. Razorpay encodes empty notes as [] rather
// than {}, so notes is decoded lazily.
type rzpOrder struct {
	ID         string          `json:"id"`
	Entity     string          `json:"entity"`
	Amount     int64           `json:"amount"`
	AmountPaid int64           `json:"amount_paid"`
	AmountDue  int64           `json:"amount_due"`
	Currency   string          `json:"currency"`
	Receipt    string          `json:"receipt"`
	Status     string          `json:"status"`
	Attempts   int             `json:"attempts"`
	Notes      json.RawMessage `json:"notes"`
	CreatedAt  int64           `json:"created_at"`
}

type rzpPayment struct {
	ID        string  `json:"id"`
	Entity    string  `json:"entity"`
	Amount    int64   `json:"amount"`
	Currency  string  `json:"currency"`
	Status    string  `json:"status"`
	OrderID   *string `json:"order_id"`
	Method    string  `json:"method"`
	Captured  bool    `json:"captured"`
	Email     string  `json:"email"`
	Contact   string  `json:"contact"`
	CreatedAt int64   `json:"created_at"`
}

type rzpErrorEnvelope struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
		Source      string `json:"source"`
		Step        string `json:"step"`
		Reason      string `json:"reason"`
		Field       string `json:"field"`
	} `json:"error"`
}

// CreateOrder calls POST /orders. It never retries.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, req adapter.GatewayOrderRequest) (*adapter.GatewayOrder, error) {
	payload := map[string]any{
		"amount":   req.Amount,
		"currency": req.Currency,
		"receipt":  req.Receipt,
	}
	if len(req.Notes) > 0 {
		payload["notes"] = req.Notes
	}
	var out rzpOrder
	if err := g.do(ctx, opCreateOrder, http.MethodPost, "/orders", payload, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, &domain.GatewayError{Op: opCreateOrder, StatusCode: http.StatusOK, Description: "gateway returned an order without id"}
	}
	return &adapter.GatewayOrder{
		ID:         out.ID,
		Amount:     out.Amount,
		AmountPaid: out.AmountPaid,
		AmountDue:  out.AmountDue,
		Currency:   out.Currency,
		Receipt:    out.Receipt,
		Status:     out.Status,
		Attempts:   out.Attempts,
		Notes:      decodeNotes(out.Notes),
		CreatedAt:  unixOrZero(out.CreatedAt),
	}, nil
}

// FetchPayment calls GET /payments/{id}.
func (g *RazorpayGateway) FetchPayment(ctx context.Context, paymentID string) (*adapter.GatewayPayment, error) {
	if paymentID == "" {
		return nil, domain.ErrMissingParameter
	}
	var out rzpPayment
	if err := g.do(ctx, opFetchPayment, http.MethodGet, "/payments/"+url.PathEscape(paymentID), nil, &out); err != nil {
		return nil, err
	}
	p := &adapter.GatewayPayment{
		ID:        out.ID,
		Amount:    out.Amount,
		Currency:  out.Currency,
		Status:    out.Status,
		Method:    out.Method,
		Captured:  out.Captured,
		Email:     out.Email,
		Contact:   out.Contact,
		CreatedAt: unixOrZero(out.CreatedAt),
	}
	if out.OrderID != nil {
		p.OrderID = *out.OrderID
	}
	return p, nil
}

func (g *RazorpayGateway) do(ctx context.Context, op, method, path string, in, out any) error {
	start := time.Now()
	outcome := "ok"
	defer func() { metrics.ObserveGateway(g.Name(), op, outcome, time.Since(start)) }()

	var body io.Reader
	if in != nil {
		b, mErr := json.Marshal(in)
		if mErr != nil {
			outcome = "transport_error"
			return &domain.GatewayError{Op: op, Err: fmt.Errorf("marshal request: %w", mErr)}
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		outcome = "transport_error"
		return &domain.GatewayError{Op: op, Err: fmt.Errorf("build request: %w", err)}
	}
	req.SetBasicAuth(g.keyID, g.keySecret)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		outcome = "transport_error"
		// *url.Error carries the URL only, never the basic-auth credentials.
		return &domain.GatewayError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		outcome = "transport_error"
		return &domain.GatewayError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		outcome = "rejected"
		gwErr := &domain.GatewayError{Op: op, StatusCode: resp.StatusCode}
		var env rzpErrorEnvelope
		if jErr := json.Unmarshal(raw, &env); jErr == nil && env.Error.Description != "" {
			gwErr.Code = env.Error.Code
			gwErr.Description = env.Error.Description
		} else {
			gwErr.Description = http.StatusText(resp.StatusCode)
		}
		return gwErr
	}

	if err := json.Unmarshal(raw, out); err != nil {
		outcome = "rejected"
		return &domain.GatewayError{Op: op, StatusCode: resp.StatusCode, Description: "malformed gateway response", Err: err}
	}
	return nil
}

func decodeNotes(raw json.RawMessage) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		// [] or null
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch x := v.(type) {
		case string:
			out[k] = x
		case nil:
			out[k] = ""
		default:
			out[k] = fmt.Sprint(x)
		}
	}
	return out
}

func unixOrZero(sec int64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
