// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The cars-node Authors

package store

import (
	"context"
	"io"

	"github.com/overlaydev/cars-node/models"
)

// AccountRepository is the account storage contract the pipeline depends
// on: one row per identity key, insert-if-absent, update by key, count.
//
// InsertIfAbsent must be atomic per identity key: a concurrent insert and
// update for the same key must not both succeed as inserts. The unique
// index on identity_key guarantees this.
type AccountRepository interface {
	// InsertIfAbsent creates the account for identityKey with the given
	// email if no row exists yet. It reports whether a row was created.
	InsertIfAbsent(ctx context.Context, identityKey, email string) (bool, error)

	// UpdateEmail overwrites the email of an existing account. It returns
	// ErrNoAccountFound when no row matches identityKey.
	UpdateEmail(ctx context.Context, identityKey, email string) error

	// FindByIdentityKey returns the account for identityKey, or
	// ErrNoAccountFound.
	FindByIdentityKey(ctx context.Context, identityKey string) (models.Account, error)

	// Count returns the total number of accounts.
	Count(ctx context.Context) (int64, error)
}

// ArtifactStore persists deployment artifacts streamed by the upload
// route.
type ArtifactStore interface {
	// Save streams body into the artifact identified by deploymentID and
	// returns the number of bytes written.
	Save(ctx context.Context, deploymentID string, body io.Reader) (int64, error)

	// Evict removes one artifact. Missing artifacts are not an error.
	Evict(ctx context.Context, deploymentID string) error

	// EvictAll removes every stored artifact.
	EvictAll(ctx context.Context) error
}
