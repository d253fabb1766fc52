package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"

	"github.com/overlaydev/cars-node/internal/logger"
	"github.com/overlaydev/cars-node/models"
)

// accountRepository is the PostgreSQL-backed implementation of
// [AccountRepository]. It maintains the one-row-per-identity-key invariant
// against the "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type accountRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewAccountRepository constructs an [AccountRepository] backed by the
// provided database connection and logger.
func NewAccountRepository(db *DB, logger *logger.Logger) AccountRepository {
	logger.Debug().Msg("creating account repository")
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

// InsertIfAbsent performs the first-contact insert. The ON CONFLICT DO
// NOTHING form makes the operation idempotent; RowsAffected distinguishes
// a fresh insert from a pre-existing account.
func (r *accountRepository) InsertIfAbsent(ctx context.Context, identityKey, email string) (bool, error) {
	log := logger.FromContext(ctx)

	res, err := r.db.ExecContext(ctx, insertAccountIfAbsent, identityKey, nullableEmail(email))
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.InsertIfAbsent").Msg("error inserting account")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			// lost the race against a concurrent first contact
			return false, nil
		default:
			return false, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	affected, err := res.RowsAffected()
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.InsertIfAbsent").Msg("error reading affected rows")
		return false, err
	}

	return affected == 1, nil
}

// UpdateEmail overwrites the stored email of an existing account. The query
// is built with squirrel so the SET clause can grow with future certificate
// claims without string assembly.
func (r *accountRepository) UpdateEmail(ctx context.Context, identityKey, email string) error {
	log := logger.FromContext(ctx)

	query, args, err := sq.Update("users").
		Set("email", email).
		Where(sq.Eq{"identity_key": identityKey}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.UpdateEmail").Msg("error building update query")
		return fmt.Errorf("error building update query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.UpdateEmail").Msg("error updating account email")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		log.Err(err).Str("func", "*accountRepository.UpdateEmail").Msg("error reading affected rows")
		return err
	}
	if affected == 0 {
		return ErrNoAccountFound
	}

	return nil
}

// FindByIdentityKey retrieves the account row for identityKey.
func (r *accountRepository) FindByIdentityKey(ctx context.Context, identityKey string) (models.Account, error) {
	log := logger.FromContext(ctx)

	var account models.Account
	row := r.db.QueryRowContext(ctx, findAccountByIdentityKey, identityKey)

	if err := row.Scan(&account.ID, &account.IdentityKey, &account.Email, &account.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, ErrNoAccountFound
		}

		log.Err(err).Str("func", "*accountRepository.FindByIdentityKey").Msg("error: scanning error")
		return models.Account{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return account, nil
}

// Count returns the total number of registered accounts.
func (r *accountRepository) Count(ctx context.Context) (int64, error) {
	log := logger.FromContext(ctx)

	var count int64
	if err := r.db.QueryRowContext(ctx, countAccounts).Scan(&count); err != nil {
		log.Err(err).Str("func", "*accountRepository.Count").Msg("error counting accounts")
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	return count, nil
}

// nullableEmail maps an empty claim to NULL so the email column stays
// nullable instead of collecting empty strings.
func nullableEmail(email string) sql.NullString {
	return sql.NullString{String: email, Valid: email != ""}
}
