package pgx

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/linkvault-app/linkvault/core"
)

// uniqueViolation is the PostgreSQL error code raised when an insert
// hits a unique index. The accounts table carries one on username, so a
// registration race loses here instead of producing duplicates.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (a *Adapter) CreateAccount(ctx context.Context, acc *core.Account) error {
	query := `INSERT INTO accounts (id, username, password_hash, recovery_hash, recovery_issued_at, bio, avatar_url)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING created_at, updated_at`

	var createdAt, updatedAt time.Time
	err := a.pool.QueryRow(ctx, query,
		acc.ID, acc.Username, acc.PasswordHash, acc.RecoveryHash, acc.RecoveryIssuedAt, acc.Bio, acc.AvatarURL,
	).Scan(&createdAt, &updatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrUsernameTaken
		}
		return err
	}

	acc.CreatedAt = createdAt
	acc.UpdatedAt = updatedAt
	return nil
}

const accountColumns = `id, username, password_hash, recovery_hash, recovery_issued_at, bio, avatar_url, created_at, updated_at`

func scanAccount(row pgx.Row) (*core.Account, error) {
	acc := &core.Account{}
	err := row.Scan(
		&acc.ID, &acc.Username, &acc.PasswordHash, &acc.RecoveryHash, &acc.RecoveryIssuedAt,
		&acc.Bio, &acc.AvatarURL, &acc.CreatedAt, &acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrAccountNotFound
		}
		return nil, err
	}
	return acc, nil
}

func (a *Adapter) GetAccountByID(ctx context.Context, id string) (*core.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(a.pool.QueryRow(ctx, query, id))
}

func (a *Adapter) GetAccountByUsername(ctx context.Context, username string) (*core.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`
	return scanAccount(a.pool.QueryRow(ctx, query, username))
}

func (a *Adapter) UpdatePassword(ctx context.Context, accountID, passwordHash string) error {
	query := `UPDATE accounts SET password_hash = $1, updated_at = now() WHERE id = $2`

	tag, err := a.pool.Exec(ctx, query, passwordHash, accountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrAccountNotFound
	}
	return nil
}

func (a *Adapter) UpdateRecoveryKey(ctx context.Context, accountID, recoveryHash string, issuedAt time.Time) error {
	query := `UPDATE accounts SET recovery_hash = $1, recovery_issued_at = $2, updated_at = now() WHERE id = $3`

	tag, err := a.pool.Exec(ctx, query, recoveryHash, issuedAt, accountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrAccountNotFound
	}
	return nil
}

// UpdateCredentials rotates the password hash and recovery hash in one
// statement. The reset flow depends on this being all-or-nothing.
func (a *Adapter) UpdateCredentials(ctx context.Context, accountID, passwordHash, recoveryHash string, issuedAt time.Time) error {
	query := `UPDATE accounts SET password_hash = $1, recovery_hash = $2, recovery_issued_at = $3, updated_at = now() WHERE id = $4`

	tag, err := a.pool.Exec(ctx, query, passwordHash, recoveryHash, issuedAt, accountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrAccountNotFound
	}
	return nil
}

func (a *Adapter) UpdateProfile(ctx context.Context, accountID string, update core.ProfileUpdate) (*core.Account, error) {
	query := `UPDATE accounts
	          SET bio = COALESCE($1, bio), avatar_url = COALESCE($2, avatar_url), updated_at = now()
	          WHERE id = $3
	          RETURNING ` + accountColumns

	return scanAccount(a.pool.QueryRow(ctx, query, update.Bio, update.AvatarURL, accountID))
}
