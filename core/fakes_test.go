package core

import (
	"context"
	"sync"
	"time"
)

// FakeStorage is an in-memory Storage for tests. It enforces username
// uniqueness under a mutex the way the database's unique index would,
// and exposes error fields for behavior injection.
type FakeStorage struct {
	mu         sync.RWMutex
	accounts   map[string]*Account // key: account ID
	byUsername map[string]string   // username -> account ID
	sessions   map[string]*Session // key: token hash

	createAccountErr error
	getAccountErr    error
	updateErr        error
	createSessionErr error
	getSessionErr    error
	deleteSessionErr error
}

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{
		accounts:   make(map[string]*Account),
		byUsername: make(map[string]string),
		sessions:   make(map[string]*Session),
	}
}

func (f *FakeStorage) CreateAccount(ctx context.Context, a *Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createAccountErr != nil {
		return f.createAccountErr
	}
	if _, taken := f.byUsername[a.Username]; taken {
		return ErrUsernameTaken
	}

	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	stored := *a
	f.accounts[a.ID] = &stored
	f.byUsername[a.Username] = a.ID
	return nil
}

func (f *FakeStorage) GetAccountByID(ctx context.Context, id string) (*Account, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getAccountErr != nil {
		return nil, f.getAccountErr
	}
	a, ok := f.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *FakeStorage) GetAccountByUsername(ctx context.Context, username string) (*Account, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getAccountErr != nil {
		return nil, f.getAccountErr
	}
	id, ok := f.byUsername[username]
	if !ok {
		return nil, ErrAccountNotFound
	}
	copied := *f.accounts[id]
	return &copied, nil
}

func (f *FakeStorage) UpdatePassword(ctx context.Context, accountID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	a, ok := f.accounts[accountID]
	if !ok {
		return ErrAccountNotFound
	}
	a.PasswordHash = passwordHash
	a.UpdatedAt = time.Now()
	return nil
}

func (f *FakeStorage) UpdateRecoveryKey(ctx context.Context, accountID, recoveryHash string, issuedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	a, ok := f.accounts[accountID]
	if !ok {
		return ErrAccountNotFound
	}
	a.RecoveryHash = &recoveryHash
	a.RecoveryIssuedAt = &issuedAt
	a.UpdatedAt = time.Now()
	return nil
}

func (f *FakeStorage) UpdateCredentials(ctx context.Context, accountID, passwordHash, recoveryHash string, issuedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	a, ok := f.accounts[accountID]
	if !ok {
		return ErrAccountNotFound
	}
	a.PasswordHash = passwordHash
	a.RecoveryHash = &recoveryHash
	a.RecoveryIssuedAt = &issuedAt
	a.UpdatedAt = time.Now()
	return nil
}

func (f *FakeStorage) UpdateProfile(ctx context.Context, accountID string, update ProfileUpdate) (*Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	a, ok := f.accounts[accountID]
	if !ok {
		return nil, ErrAccountNotFound
	}
	if update.Bio != nil {
		a.Bio = update.Bio
	}
	if update.AvatarURL != nil {
		a.AvatarURL = update.AvatarURL
	}
	a.UpdatedAt = time.Now()
	copied := *a
	return &copied, nil
}

func (f *FakeStorage) CreateSession(ctx context.Context, s *Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createSessionErr != nil {
		return f.createSessionErr
	}
	f.sessions[s.TokenHash] = s
	return nil
}

func (f *FakeStorage) GetSessionByHash(ctx context.Context, tokenHash string) (*Session, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getSessionErr != nil {
		return nil, f.getSessionErr
	}
	s, ok := f.sessions[tokenHash]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (f *FakeStorage) GetSessionByID(ctx context.Context, id string) (*Session, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, s := range f.sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, ErrSessionNotFound
}

func (f *FakeStorage) DeleteSessionByID(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteSessionErr != nil {
		return f.deleteSessionErr
	}
	for k, s := range f.sessions {
		if s.ID == id {
			delete(f.sessions, k)
			return nil
		}
	}
	return ErrSessionNotFound
}

func (f *FakeStorage) DeleteSessionByHash(ctx context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteSessionErr != nil {
		return f.deleteSessionErr
	}
	if _, ok := f.sessions[tokenHash]; !ok {
		return ErrSessionNotFound
	}
	delete(f.sessions, tokenHash)
	return nil
}

func (f *FakeStorage) DeleteAccountSessions(ctx context.Context, accountID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for k, s := range f.sessions {
		if s.AccountID == accountID {
			delete(f.sessions, k)
			count++
		}
	}
	return count, nil
}

func (f *FakeStorage) DeleteExpiredSessions(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	now := time.Now()
	for k, s := range f.sessions {
		if s.ExpiresAt.Before(now) {
			delete(f.sessions, k)
			count++
		}
	}
	return count, nil
}

var _ Storage = (*FakeStorage)(nil)
