// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The cars-node Authors

// Package service implements the node's business logic between the HTTP
// pipeline and the storage layer.
package service

import (
	"context"
	"io"

	"github.com/overlaydev/cars-node/models"
)

// AccountService associates verified caller identities with durable
// account records.
type AccountService interface {
	// Register is the first-contact path invoked by the registration
	// handler: insert the account if absent, then report the current
	// total account count.
	Register(ctx context.Context, identityKey, email string) (models.RegisterResult, error)

	// BindEmail overwrites the stored email of an existing account with a
	// verified certificate claim. Callers treat failures as best-effort.
	BindEmail(ctx context.Context, identityKey, email string) error
}

// DeploymentService manages deployment artifacts.
type DeploymentService interface {
	// SaveArtifact streams an uploaded artifact into storage and returns
	// the number of bytes stored.
	SaveArtifact(ctx context.Context, deploymentID string, body io.Reader) (int64, error)

	// EvictAll drops every locally cached artifact.
	EvictAll(ctx context.Context) error
}
