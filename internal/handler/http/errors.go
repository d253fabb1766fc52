package http

import "errors"

// Sentinel errors used by the identity verification and payment
// middleware. Callers can match against them with [errors.Is]; their text
// is what rejected callers see, so it never carries internal detail.
var (
	// ErrMissingIdentityKey is returned when the identity key header is
	// absent on a route that requires authentication.
	ErrMissingIdentityKey = errors.New("missing `X-Identity-Key` header")

	// ErrMissingNonce is returned when the nonce header is absent.
	ErrMissingNonce = errors.New("missing `X-Identity-Nonce` header")

	// ErrMissingSignature is returned when the signature header is absent
	// or not valid base64.
	ErrMissingSignature = errors.New("missing or malformed `X-Identity-Signature` header")

	// ErrInvalidIdentityProof is the generic authentication rejection for
	// proofs that fail nonce or signature verification.
	ErrInvalidIdentityProof = errors.New("invalid identity proof")

	// ErrPaymentRequired is returned by the payment gate when the
	// computed charge has not been settled.
	ErrPaymentRequired = errors.New("payment required")

	// ErrInvalidPaymentBody is returned when a priced route carries a
	// body the pricing rule cannot read the amount from.
	ErrInvalidPaymentBody = errors.New("invalid payment request body")
)
