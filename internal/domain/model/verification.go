package model

// VerificationState follows a single verification call:
// Received -> Validated -> SignatureComputed -> Matched | Mismatched,
// with DetailsFetched / VerifiedButDetailsUnavailable after Matched.
type VerificationState string

const (
	StateReceived          VerificationState = "received"
	StateValidated         VerificationState = "validated"
	StateSignatureComputed VerificationState = "signature_computed"
	StateMatched           VerificationState = "matched"
	StateMismatched        VerificationState = "mismatched"
	StateRejected          VerificationState = "rejected" // missing parameter

	StateDetailsFetched                VerificationState = "details_fetched"
	StateVerifiedButDetailsUnavailable VerificationState = "verified_details_unavailable"
)

// Terminal reports whether no further transition can happen.
func (s VerificationState) Terminal() bool {
	switch s {
	case StateMatched, StateMismatched, StateRejected, StateDetailsFetched, StateVerifiedButDetailsUnavailable:
		return true
	}
	return false
}

type VerificationRequest struct {
	OrderID   string
	PaymentID string
	Signature string
}

// VerificationResult carries the trust decision. Details and DetailsErr only
// describe the optional enrichment and never change Valid.
type VerificationResult struct {
	Valid      bool
	State      VerificationState
	Details    *PaymentDetails
	DetailsErr error
}
