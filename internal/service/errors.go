// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The cars-node Authors

package service

import "errors"

var (
	// ErrEmptyIdentityKey indicates an account operation attempted without
	// a verified identity key.
	ErrEmptyIdentityKey = errors.New("empty identity key")

	// ErrEmptyEmailClaim indicates an email binding attempted with an
	// empty claim value.
	ErrEmptyEmailClaim = errors.New("empty email claim")
)
