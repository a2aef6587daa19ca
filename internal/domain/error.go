package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	// Client errors (400)
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidCurrency   = errors.New("invalid currency")
	ErrInvalidReceipt    = errors.New("invalid receipt")
	ErrMissingParameter  = errors.New("missing required parameter")
	ErrSignatureMismatch = errors.New("payment signature mismatch")

	// Upstream / startup errors
	ErrGateway            = errors.New("payment gateway error")
	ErrDetailsUnavailable = errors.New("payment details unavailable")
	ErrConfiguration      = errors.New("configuration error")
)

// GatewayError is returned by gateway adapters when the provider rejects a call
// or cannot be reached. Description is the provider's own message and is safe
// to pass back to clients; it never contains credentials.
type GatewayError struct {
	Op          string // e.g. "create_order", "fetch_payment"
	StatusCode  int    // HTTP status from the provider, 0 on transport failure
	Code        string // provider error code, e.g. BAD_REQUEST_ERROR
	Description string
	Err         error
}

func (e *GatewayError) Error() string {
	msg := e.Description
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Code != "" {
		return fmt.Sprintf("gateway %s: %s (%s, http %d)", e.Op, msg, e.Code, e.StatusCode)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("gateway %s: %s (http %d)", e.Op, msg, e.StatusCode)
	}
	return fmt.Sprintf("gateway %s: %s", e.Op, msg)
}

// Unwrap lets errors.Is(err, ErrGateway) match any GatewayError, and still
// exposes the transport error (e.g. context.DeadlineExceeded).
func (e *GatewayError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrGateway, e.Err}
	}
	return []error{ErrGateway}
}

// Message returns the client-safe part of the error.
func (e *GatewayError) Message() string {
	if e.Description != "" {
		return e.Description
	}
	if e.Err != nil && errors.Is(e.Err, context.DeadlineExceeded) {
		return "gateway timeout"
	}
	return "payment gateway unavailable"
}
