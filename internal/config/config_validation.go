// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The cars-node Authors

package config

import "errors"

// validate checks that the final merged [StructuredConfig] satisfies the
// node's startup invariants. The signing keys and payment API keys are hard
// requirements: the process must not accept any connection without them.
func (cfg *StructuredConfig) validate() error {
	var errs []error

	if cfg.Wallet.MainnetPrivateKey == "" || cfg.Wallet.TestnetPrivateKey == "" {
		errs = append(errs, ErrMissingSigningKeys)
	}

	if cfg.Payment.MainnetAPIKey == "" || cfg.Payment.TestnetAPIKey == "" {
		errs = append(errs, ErrMissingPaymentKeys)
	}

	if cfg.Server.BaseURL == "" {
		errs = append(errs, ErrMissingBaseURL)
	}

	return errors.Join(errs...)
}
