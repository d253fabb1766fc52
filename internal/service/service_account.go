package service

import (
	"context"
	"fmt"

	"github.com/overlaydev/cars-node/internal/logger"
	"github.com/overlaydev/cars-node/internal/store"
	"github.com/overlaydev/cars-node/models"
)

type accountService struct {
	accounts store.AccountRepository
	logger   *logger.Logger
}

// NewAccountService constructs an [AccountService] over the account
// repository.
func NewAccountService(accounts store.AccountRepository, logger *logger.Logger) AccountService {
	logger.Debug().Msg("creating account service")
	return &accountService{
		accounts: accounts,
		logger:   logger,
	}
}

// Register inserts the account if no row exists for identityKey, then
// returns the total account count. Atomicity per identity key comes from
// the repository's insert-if-absent; two concurrent registrations for the
// same key create at most one row.
func (s *accountService) Register(ctx context.Context, identityKey, email string) (models.RegisterResult, error) {
	log := logger.FromContext(ctx)

	if identityKey == "" {
		return models.RegisterResult{}, ErrEmptyIdentityKey
	}

	created, err := s.accounts.InsertIfAbsent(ctx, identityKey, email)
	if err != nil {
		return models.RegisterResult{}, fmt.Errorf("error registering account: %w", err)
	}

	if created {
		log.Info().Str("identityKey", identityKey).Str("email", email).Msg("user registered")
	} else {
		log.Info().Str("identityKey", identityKey).Msg("user already registered")
	}

	count, err := s.accounts.Count(ctx)
	if err != nil {
		return models.RegisterResult{}, fmt.Errorf("error counting accounts: %w", err)
	}

	return models.RegisterResult{Created: created, UserCount: count}, nil
}

// BindEmail overwrites the email of an existing account. A missing account
// is reported as store.ErrNoAccountFound; the caller decides whether that
// is fatal (it is not for the identity binder).
func (s *accountService) BindEmail(ctx context.Context, identityKey, email string) error {
	if identityKey == "" {
		return ErrEmptyIdentityKey
	}
	if email == "" {
		return ErrEmptyEmailClaim
	}

	if err := s.accounts.UpdateEmail(ctx, identityKey, email); err != nil {
		return fmt.Errorf("error binding email: %w", err)
	}

	return nil
}
