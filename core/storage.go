package core

import (
	"context"
	"time"
)

// CredentialStore persists accounts and their secret hashes. The backing
// store owns atomicity: CreateAccount must reject concurrent duplicate
// usernames through a uniqueness constraint, and every update method is
// a single atomic write. UpdateCredentials exists so the reset flow can
// rotate the password hash and the recovery hash together; a crash can
// never leave one changed without the other.
type CredentialStore interface {
	CreateAccount(ctx context.Context, a *Account) error

	GetAccountByID(ctx context.Context, id string) (*Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*Account, error)

	UpdatePassword(ctx context.Context, accountID, passwordHash string) error
	UpdateRecoveryKey(ctx context.Context, accountID, recoveryHash string, issuedAt time.Time) error
	UpdateCredentials(ctx context.Context, accountID, passwordHash, recoveryHash string, issuedAt time.Time) error

	UpdateProfile(ctx context.Context, accountID string, update ProfileUpdate) (*Account, error)
}

type SessionStorage interface {
	CreateSession(ctx context.Context, session *Session) error

	// Query methods
	GetSessionByHash(ctx context.Context, tokenHash string) (*Session, error)
	GetSessionByID(ctx context.Context, id string) (*Session, error)

	// Delete methods
	DeleteSessionByID(ctx context.Context, id string) error
	DeleteSessionByHash(ctx context.Context, tokenHash string) error
	DeleteAccountSessions(ctx context.Context, accountID string) (int, error)

	// Cleanup
	DeleteExpiredSessions(ctx context.Context) (int, error)
}

type Storage interface {
	CredentialStore
	SessionStorage
}
