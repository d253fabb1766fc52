// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The cars-node Authors

// Package payments integrates the external payment provider used to
// settle per-request charges before a priced request is serviced.
package payments

import (
	"context"
	"errors"
)

// Provider is the payment capability the gate enforces charges through.
// One Provider instance exists per network; the gate always uses mainnet.
//
//go:generate mockgen -source=provider.go -destination=mock/mock_provider.go -package=mock
type Provider interface {
	// Settle confirms that the payment identified by reference covers
	// satoshis for the given identity key. It returns
	// ErrPaymentNotSettled when the provider reports the payment as
	// missing or insufficient.
	Settle(ctx context.Context, reference string, satoshis int64, identityKey string) error
}

// ErrPaymentNotSettled indicates a payment the provider could not confirm
// at the required amount. It is distinct from authentication failure.
var ErrPaymentNotSettled = errors.New("payment not settled")
