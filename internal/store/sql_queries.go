package store

const (
	// insertAccountIfAbsent relies on the unique index on identity_key:
	// of two concurrent first-contact inserts for the same key, exactly
	// one inserts a row and the other is a no-op.
	insertAccountIfAbsent = `INSERT INTO users (identity_key, email)
    VALUES ($1, $2)
    ON CONFLICT (identity_key) DO NOTHING;`

	findAccountByIdentityKey = `SELECT id, identity_key, email, created_at
    FROM users
    WHERE identity_key = $1;`

	countAccounts = `SELECT COUNT(*) FROM users;`
)
