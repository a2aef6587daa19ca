package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"razorpay-facade/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	DefaultCurrency  = "INR"
	ReceiptPrefix    = "receipt_"
	MaxReceiptLength = 40

	minorUnitsPerMajor = 100

	// Bounds checked before any decimal arithmetic. Scaling by a huge
	// exponent expands 10^|exp| as a big.Int, so out-of-range values are
	// rejected on their textual/structural size alone.
	maxAmountTextLen = 64
	maxAmountScale   = 32 // fractional digits
	maxAmountExp     = 18 // 1e19 major units already overflows int64 minor units
	maxAmountDigits  = 64
)

var (
	hundred  = decimal.NewFromInt(minorUnitsPerMajor)
	maxMinor = decimal.NewFromInt(math.MaxInt64)
)

// ParseAmount accepts the shapes a client may send for "amount": a JSON number
// (json.Number or float64), an integer, or a numeric string. The value is kept
// as an exact decimal so that "1.005" stays 1.005 and never passes through a
// binary float.
func ParseAmount(v any) (decimal.Decimal, error) {
	var (
		d   decimal.Decimal
		err error
	)
	switch x := v.(type) {
	case nil:
		return decimal.Zero, fmt.Errorf("%w: amount is required", domain.ErrInvalidAmount)
	case decimal.Decimal:
		d = x
	case json.Number:
		d, err = parseAmountText(x.String())
	case string:
		d, err = parseAmountText(x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero, fmt.Errorf("%w: amount must be finite", domain.ErrInvalidAmount)
		}
		d = decimal.NewFromFloat(x)
	case float32:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero, fmt.Errorf("%w: amount must be finite", domain.ErrInvalidAmount)
		}
		d = decimal.NewFromFloat32(x)
	case int:
		d = decimal.NewFromInt(int64(x))
	case int64:
		d = decimal.NewFromInt(x)
	default:
		return decimal.Zero, fmt.Errorf("%w: unsupported type %T", domain.ErrInvalidAmount, v)
	}
	if err != nil {
		return decimal.Zero, err
	}
	if err := checkMagnitude(d); err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount must be greater than zero", domain.ErrInvalidAmount)
	}
	return d, nil
}

// ToMinorUnits converts a major-unit amount into integer minor units
// (paise, cents): amount*100 rounded half away from zero. Amounts that round
// to zero or overflow int64 are rejected.
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	if !amount.IsPositive() {
		return 0, fmt.Errorf("%w: amount must be greater than zero", domain.ErrInvalidAmount)
	}
	if err := checkMagnitude(amount); err != nil {
		return 0, err
	}
	minor := amount.Mul(hundred).Round(0)
	if minor.GreaterThan(maxMinor) {
		return 0, fmt.Errorf("%w: amount too large", domain.ErrInvalidAmount)
	}
	v := minor.IntPart()
	if v < 1 {
		return 0, fmt.Errorf("%w: amount is below the smallest currency unit", domain.ErrInvalidAmount)
	}
	return v, nil
}

func parseAmountText(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if len(s) > maxAmountTextLen {
		return decimal.Zero, fmt.Errorf("%w: amount is too long", domain.ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidAmount, s)
	}
	return d, nil
}

// checkMagnitude only inspects the exponent and coefficient size, so it is
// cheap for any input decimal.NewFromString accepts.
func checkMagnitude(d decimal.Decimal) error {
	exp := d.Exponent()
	if exp > maxAmountExp {
		return fmt.Errorf("%w: amount too large", domain.ErrInvalidAmount)
	}
	if exp < -maxAmountScale {
		return fmt.Errorf("%w: amount has too many decimal places", domain.ErrInvalidAmount)
	}
	if d.NumDigits() > maxAmountDigits {
		return fmt.Errorf("%w: amount has too many digits", domain.ErrInvalidAmount)
	}
	return nil
}

// NormalizeCurrency applies the INR default and upper-cases a 3-letter code.
func NormalizeCurrency(c string) (string, error) {
	c = strings.TrimSpace(c)
	if c == "" {
		return DefaultCurrency, nil
	}
	if len(c) != 3 {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidCurrency, c)
	}
	for i := 0; i < len(c); i++ {
		b := c[i]
		if (b < 'a' || b > 'z') && (b < 'A' || b > 'Z') {
			return "", fmt.Errorf("%w: %q", domain.ErrInvalidCurrency, c)
		}
	}
	return strings.ToUpper(c), nil
}

// NormalizeReceipt returns the caller's receipt or a generated receipt_<unix-millis>.
func NormalizeReceipt(r string, now time.Time) (string, error) {
	r = strings.TrimSpace(r)
	if r == "" {
		return ReceiptPrefix + strconv.FormatInt(now.UnixMilli(), 10), nil
	}
	if len(r) > MaxReceiptLength {
		return "", fmt.Errorf("%w: receipt longer than %d characters", domain.ErrInvalidReceipt, MaxReceiptLength)
	}
	return r, nil
}
