//go:build !integration

package model

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"razorpay-facade/internal/domain"

	"github.com/shopspring/decimal"
)

func TestToMinorUnits(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"500", 50000},
		{"1", 100},
		{"0.01", 1},
		{"1.005", 101}, // half away from zero on the exact decimal
		{"1.004", 100},
		{"2.675", 268},
		{"0.005", 1},
		{"99999.999", 10000000},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ToMinorUnits(decimal.RequireFromString(tc.in))
			if err != nil {
				t.Fatalf("expected no error, but got: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %d minor units, but got %d", tc.want, got)
			}
		})
	}

	t.Run("rounds to zero", func(t *testing.T) {
		_, err := ToMinorUnits(decimal.RequireFromString("0.004"))
		if !errors.Is(err, domain.ErrInvalidAmount) {
			t.Errorf("expected ErrInvalidAmount, but got %v", err)
		}
	})

	t.Run("overflow", func(t *testing.T) {
		for _, in := range []string{"1e20", "100000000000000000", "1e18"} {
			_, err := ToMinorUnits(decimal.RequireFromString(in))
			if !errors.Is(err, domain.ErrInvalidAmount) {
				t.Errorf("%s: expected ErrInvalidAmount, but got %v", in, err)
			}
		}
	})

	t.Run("huge exponents are rejected without expanding them", func(t *testing.T) {
		for _, d := range []decimal.Decimal{
			decimal.New(1, 20000000),
			decimal.New(1, -20000000),
			decimal.New(5, math.MaxInt32),
		} {
			start := time.Now()
			_, err := ToMinorUnits(d)
			if !errors.Is(err, domain.ErrInvalidAmount) {
				t.Errorf("exp %d: expected ErrInvalidAmount, but got %v", d.Exponent(), err)
			}
			if el := time.Since(start); el > 100*time.Millisecond {
				t.Errorf("exp %d: rejection took %v", d.Exponent(), el)
			}
		}
	})
}

func TestParseAmount(t *testing.T) {
	valid := []any{
		json.Number("500"),
		json.Number("1.005"),
		"250.50",
		" 12 ",
		float64(10.5),
		int(3),
		int64(7),
		json.Number("5e2"),
		"0.123456789012345678901234567890",
	}
	for _, v := range valid {
		if _, err := ParseAmount(v); err != nil {
			t.Errorf("ParseAmount(%#v): expected no error, but got %v", v, err)
		}
	}

	invalid := []any{
		nil,
		"",
		"abc",
		"NaN",
		"Infinity",
		json.Number("0"),
		json.Number("-1"),
		float64(0),
		math.NaN(),
		math.Inf(1),
		true,
		map[string]any{},
		json.Number("1e20000000"),
		json.Number("1e-20000000"),
		"1e2000000000",
		"0." + strings.Repeat("0", 40) + "1",
		strings.Repeat("9", 65),
		float64(1e300),
	}
	for _, v := range invalid {
		_, err := ParseAmount(v)
		if !errors.Is(err, domain.ErrInvalidAmount) {
			t.Errorf("ParseAmount(%#v): expected ErrInvalidAmount, but got %v", v, err)
		}
	}

	t.Run("keeps exact decimal", func(t *testing.T) {
		d, err := ParseAmount(json.Number("1.005"))
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if d.String() != "1.005" {
			t.Errorf("expected 1.005, but got %s", d.String())
		}
	})
}

func TestNormalizeCurrency(t *testing.T) {
	got, err := NormalizeCurrency("")
	if err != nil || got != "INR" {
		t.Fatalf("expected INR default, but got %q (%v)", got, err)
	}
	got, err = NormalizeCurrency("usd")
	if err != nil || got != "USD" {
		t.Fatalf("expected USD, but got %q (%v)", got, err)
	}
	for _, bad := range []string{"US", "EURO", "U$D", "12A"} {
		if _, err := NormalizeCurrency(bad); !errors.Is(err, domain.ErrInvalidCurrency) {
			t.Errorf("NormalizeCurrency(%q): expected ErrInvalidCurrency, but got %v", bad, err)
		}
	}
}

func TestNormalizeReceipt(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	got, err := NormalizeReceipt("", now)
	if err != nil {
		t.Fatalf("expected no error, but got: %v", err)
	}
	if got != "receipt_1700000000123" {
		t.Errorf("expected generated receipt, but got %q", got)
	}

	got, _ = NormalizeReceipt("inv-42", now)
	if got != "inv-42" {
		t.Errorf("expected caller receipt to be kept, but got %q", got)
	}

	long := "r-0123456789012345678901234567890123456789"
	if _, err := NormalizeReceipt(long, now); !errors.Is(err, domain.ErrInvalidReceipt) {
		t.Errorf("expected ErrInvalidReceipt, but got %v", err)
	}
}

func TestVerificationStateTerminal(t *testing.T) {
	if StateValidated.Terminal() || StateSignatureComputed.Terminal() {
		t.Error("intermediate states must not be terminal")
	}
	for _, s := range []VerificationState{StateMatched, StateMismatched, StateRejected, StateVerifiedButDetailsUnavailable} {
		if !s.Terminal() {
			t.Errorf("expected %s to be terminal", s)
		}
	}
}
