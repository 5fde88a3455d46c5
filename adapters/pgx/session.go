package pgx

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/linkvault-app/linkvault/core"
)

func (a *Adapter) CreateSession(ctx context.Context, s *core.Session) error {
	query := `INSERT INTO sessions (id, account_id, token_hash, ip_address, user_agent, expires_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING created_at, updated_at`

	return a.pool.QueryRow(ctx, query,
		s.ID, s.AccountID, s.TokenHash, s.IPAddress, s.UserAgent, s.ExpiresAt,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
}

const sessionColumns = `id, account_id, token_hash, ip_address, user_agent, expires_at, created_at, updated_at`

func scanSession(row pgx.Row) (*core.Session, error) {
	s := &core.Session{}
	err := row.Scan(
		&s.ID, &s.AccountID, &s.TokenHash, &s.IPAddress, &s.UserAgent,
		&s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrSessionNotFound
		}
		return nil, err
	}
	return s, nil
}

func (a *Adapter) GetSessionByHash(ctx context.Context, tokenHash string) (*core.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE token_hash = $1`
	return scanSession(a.pool.QueryRow(ctx, query, tokenHash))
}

func (a *Adapter) GetSessionByID(ctx context.Context, id string) (*core.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`
	return scanSession(a.pool.QueryRow(ctx, query, id))
}

func (a *Adapter) DeleteSessionByID(ctx context.Context, id string) error {
	tag, err := a.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrSessionNotFound
	}
	return nil
}

func (a *Adapter) DeleteSessionByHash(ctx context.Context, tokenHash string) error {
	tag, err := a.pool.Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrSessionNotFound
	}
	return nil
}

func (a *Adapter) DeleteAccountSessions(ctx context.Context, accountID string) (int, error) {
	tag, err := a.pool.Exec(ctx, `DELETE FROM sessions WHERE account_id = $1`, accountID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (a *Adapter) DeleteExpiredSessions(ctx context.Context) (int, error) {
	tag, err := a.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < now()`)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
