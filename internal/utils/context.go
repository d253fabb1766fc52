// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The cars-node Authors

// Package utils provides general-purpose helpers shared across the node:
// type-safe context keys, JSON response writing, and the JWT nonce helpers
// used by the identity handshake.
package utils

import (
	"context"
	"errors"
)

// contextKey is a private type for context keys. Using a dedicated type
// instead of a plain string prevents collisions with other packages.
type contextKey string

// String returns the string representation of the context key.
func (c contextKey) String() string {
	return string(c)
}

// IdentityCtxKey is the key under which the auth middleware stores the
// verified caller identity in the request context. The stored value is
// immutable; stages read it, never mutate it.
var IdentityCtxKey = contextKey("verifiedIdentity")

// ErrNoIdentityInContext is returned when a handler that requires an
// authenticated caller finds no verified identity in the request context.
var ErrNoIdentityInContext = errors.New("no verified identity in context")

// IdentityFromContext retrieves a value of type T previously stored under
// [IdentityCtxKey]. It returns ErrNoIdentityInContext if the value is
// absent or of a different type.
func IdentityFromContext[T any](ctx context.Context) (T, error) {
	v, ok := ctx.Value(IdentityCtxKey).(T)
	if !ok {
		var zero T
		return zero, ErrNoIdentityInContext
	}
	return v, nil
}
