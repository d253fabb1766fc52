// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The cars-node Authors

// Package workers provides abstractions for managing and running
// background workers in the application, plus the workers the node
// actually runs.
package workers

import "context"

// Worker is the interface implemented by any background worker.
//
// Implementations are expected to block until ctx is cancelled, doing
// their work on whatever schedule suits them.
type Worker interface {
	Run(ctx context.Context)
}
