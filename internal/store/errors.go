// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The cars-node Authors

package store

import "errors"

var (
	// ErrAccountAlreadyExists is returned when an insert hits the unique
	// index on identity_key outside the insert-if-absent path.
	ErrAccountAlreadyExists = errors.New("account with this identity key already exists")

	// ErrNoAccountFound is returned when no account matches the given
	// identity key.
	ErrNoAccountFound = errors.New("no account was found")

	// ErrInvalidDeploymentID is returned for deployment IDs that are empty
	// or contain path separators.
	ErrInvalidDeploymentID = errors.New("invalid deployment id")
)
