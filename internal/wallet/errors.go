// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The cars-node Authors

package wallet

import "errors"

// Sentinel errors returned by identity construction and verification.
// Callers match them with [errors.Is].
var (
	// ErrInvalidPrivateKey indicates a private scalar that is not a valid
	// 32-byte value in the curve order.
	ErrInvalidPrivateKey = errors.New("invalid private key")

	// ErrInvalidIdentityKey indicates an identity key that is not a valid
	// hex-encoded compressed curve point.
	ErrInvalidIdentityKey = errors.New("invalid identity key")

	// ErrSignatureInvalid indicates a signature that does not verify
	// against the claimed identity key.
	ErrSignatureInvalid = errors.New("signature does not verify")

	// ErrCiphertextTooShort indicates a field ciphertext shorter than the
	// AEAD nonce.
	ErrCiphertextTooShort = errors.New("ciphertext shorter than nonce")

	// ErrUnknownNetwork indicates a network label with no configured
	// signing identity.
	ErrUnknownNetwork = errors.New("unknown network")
)
