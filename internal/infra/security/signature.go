// File: internal/infra/security/signature.go
package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"razorpay-facade/internal/domain"
)

// SignatureLength is the length of a hex-encoded HMAC-SHA256 digest.
const SignatureLength = sha256.Size * 2

// SignatureVerifier checks Razorpay checkout signatures:
// hex(HMAC-SHA256(key_secret, order_id + "|" + payment_id)).
// It holds its own copy of the secret and is safe for concurrent use.
type SignatureVerifier struct {
	secret []byte
}

// NewSignatureVerifier constructs a verifier. An empty secret is a startup error.
func NewSignatureVerifier(secret string) (*SignatureVerifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: signature secret is empty", domain.ErrConfiguration)
	}
	return &SignatureVerifier{secret: []byte(secret)}, nil
}

// ComputeSignature returns the lowercase hex HMAC-SHA256 of orderID|paymentID.
func ComputeSignature(secret []byte, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(orderID))
	mac.Write([]byte{'|'})
	mac.Write([]byte(paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Sign is ComputeSignature with the verifier's secret.
func (v *SignatureVerifier) Sign(orderID, paymentID string) string {
	return ComputeSignature(v.secret, orderID, paymentID)
}

// Verify reports whether signature matches the expected digest for the pair.
// Empty inputs are rejected with domain.ErrMissingParameter before any HMAC work.
// A mismatch is (false, nil), not an error.
func (v *SignatureVerifier) Verify(orderID, paymentID, signature string) (bool, error) {
	if orderID == "" || paymentID == "" || signature == "" {
		return false, domain.ErrMissingParameter
	}
	expected := []byte(v.Sign(orderID, paymentID))
	// expected is always SignatureLength bytes, so the length check inside
	// ConstantTimeCompare reveals nothing derived from the secret.
	return subtle.ConstantTimeCompare(expected, []byte(signature)) == 1, nil
}
