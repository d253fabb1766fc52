package models

import (
	"database/sql"
	"time"
)

// Account is one registered caller of the node, keyed by the stable
// identity key derived from the caller's signing key. Email is optional
// and only ever set from a verified certificate claim.
type Account struct {
	ID          int64
	IdentityKey string
	Email       sql.NullString
	CreatedAt   time.Time
}

// RegisterResult is the outcome of a first-contact registration attempt.
// Created is false when an account for the identity key already existed;
// UserCount is the total number of accounts after the attempt.
type RegisterResult struct {
	Created   bool
	UserCount int64
}
