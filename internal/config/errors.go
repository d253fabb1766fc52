// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The cars-node Authors

package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration is incomplete. Any of them is fatal at startup.
var (
	// ErrMissingSigningKeys indicates that one or both network signing keys
	// (SERVER_PRIVATE_KEY, TESTNET_PRIVATE_KEY) are absent.
	ErrMissingSigningKeys = errors.New("missing network signing keys")
	// ErrMissingPaymentKeys indicates that one or both payment-provider API
	// keys (PAYMENT_API_KEY_MAINNET, PAYMENT_API_KEY_TESTNET) are absent.
	ErrMissingPaymentKeys = errors.New("missing payment provider API keys")
	// ErrMissingBaseURL indicates an empty server base URL; nonces cannot
	// be issued without an issuer.
	ErrMissingBaseURL = errors.New("missing server base URL")
)
