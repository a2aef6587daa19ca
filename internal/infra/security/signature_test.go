//go:build !integration

package security

import (
	"errors"
	"strings"
	"testing"

	"razorpay-facade/internal/domain"
)

const testSecret = "s3cr3t_key_for_tests"

func newVerifier(t *testing.T) *SignatureVerifier {
	t.Helper()
	v, err := NewSignatureVerifier(testSecret)
	if err != nil {
		t.Fatalf("expected no error, but got: %v", err)
	}
	return v
}

func TestNewSignatureVerifier_EmptySecret(t *testing.T) {
	_, err := NewSignatureVerifier("")
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, but got %v", err)
	}
}

func TestComputeSignature_KnownVector(t *testing.T) {
	// HMAC-SHA256("secret", "order_1|pay_1")
	got := ComputeSignature([]byte("secret"), "order_1", "pay_1")
	want := "52115a0d3400de9e86aade1f1b6eba9e8974604f4e267a9e9a16633a4c8dd2cb"
	if got != want {
		t.Fatalf("expected %s, but got %s", want, got)
	}
	if len(got) != SignatureLength {
		t.Fatalf("expected %d hex chars, but got %d", SignatureLength, len(got))
	}
	if got == ComputeSignature([]byte("secret"), "order_1|", "pay_1") {
		t.Error("different messages must produce different signatures")
	}
}

func TestVerify_RoundTrip(t *testing.T) {
	v := newVerifier(t)
	pairs := [][2]string{
		{"order_IluGWxBm9U8zJ8", "pay_IluHXSmYl2Vjdl"},
		{"order_1", "pay_1"},
		{"o", "p"},
	}
	for _, p := range pairs {
		sig := ComputeSignature([]byte(testSecret), p[0], p[1])
		ok, err := v.Verify(p[0], p[1], sig)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if !ok {
			t.Errorf("expected signature for %v to verify", p)
		}
	}
}

func TestVerify_AnySingleCharChangeFails(t *testing.T) {
	v := newVerifier(t)
	sig := v.Sign("order_1", "pay_1")
	for i := 0; i < len(sig); i++ {
		b := []byte(sig)
		if b[i] == 'a' {
			b[i] = 'b'
		} else {
			b[i] = 'a'
		}
		ok, err := v.Verify("order_1", "pay_1", string(b))
		if err != nil {
			t.Fatalf("position %d: expected no error, but got: %v", i, err)
		}
		if ok {
			t.Fatalf("position %d: tampered signature must not verify", i)
		}
	}
}

func TestVerify_CaseSensitive(t *testing.T) {
	v := newVerifier(t)
	sig := strings.ToUpper(v.Sign("order_1", "pay_1"))
	ok, err := v.Verify("order_1", "pay_1", sig)
	if err != nil || ok {
		t.Errorf("expected upper-case signature to be rejected without error, got ok=%v err=%v", ok, err)
	}
}

func TestVerify_WrongLengthIsMismatch(t *testing.T) {
	v := newVerifier(t)
	sig := v.Sign("order_1", "pay_1")
	for _, s := range []string{sig[:10], sig + "00", "x"} {
		ok, err := v.Verify("order_1", "pay_1", s)
		if err != nil {
			t.Errorf("expected no error for length %d, but got: %v", len(s), err)
		}
		if ok {
			t.Errorf("expected length %d signature to be rejected", len(s))
		}
	}
}

func TestVerify_SwappedIDsFail(t *testing.T) {
	v := newVerifier(t)
	sig := v.Sign("order_1", "pay_1")
	if ok, _ := v.Verify("pay_1", "order_1", sig); ok {
		t.Error("expected swapped ids to fail")
	}
}

func TestVerify_MissingParameter(t *testing.T) {
	v := newVerifier(t)
	cases := [][3]string{
		{"", "pay_1", "sig"},
		{"order_1", "", "sig"},
		{"order_1", "pay_1", ""},
	}
	for _, c := range cases {
		ok, err := v.Verify(c[0], c[1], c[2])
		if !errors.Is(err, domain.ErrMissingParameter) {
			t.Errorf("Verify(%q,%q,%q): expected ErrMissingParameter, but got %v", c[0], c[1], c[2], err)
		}
		if ok {
			t.Errorf("Verify(%q,%q,%q): expected false", c[0], c[1], c[2])
		}
	}
}

func TestVerify_DifferentSecretFails(t *testing.T) {
	v := newVerifier(t)
	sig := ComputeSignature([]byte("other-secret"), "order_1", "pay_1")
	if ok, _ := v.Verify("order_1", "pay_1", sig); ok {
		t.Error("expected signature from another secret to fail")
	}
}
