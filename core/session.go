package core

import (
	"context"
	"fmt"
	"time"

	"github.com/linkvault-app/linkvault/pkg/crypto"
)

type SessionConfig struct {
	MaxAge time.Duration
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		MaxAge: 24 * time.Hour,
	}
}

// SessionManager issues and verifies opaque session tokens. Storage only
// ever sees the sha256 hash of a token; the raw token goes to the client
// once and cannot be recovered from the server afterwards.
type SessionManager struct {
	config  SessionConfig
	storage SessionStorage
	cache   Cache
	ids     *crypto.NanoIDGenerator
}

type CreateSessionResult struct {
	Session *Session `json:"session"`
	Token   string   `json:"token"`
}

func NewSessionManager(config SessionConfig, storage SessionStorage, cache Cache) *SessionManager {
	if config.MaxAge == 0 {
		config = DefaultSessionConfig()
	}
	return &SessionManager{
		config:  config,
		storage: storage,
		cache:   cache,
		ids:     crypto.NewNanoID(),
	}
}

func (sm *SessionManager) Create(ctx context.Context, accountID, ipAddress, userAgent string) (*CreateSessionResult, error) {
	token, err := crypto.GenerateSessionToken(crypto.DefaultTokenLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	id, err := sm.ids.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	now := time.Now()
	session := &Session{
		ID:        id,
		AccountID: accountID,
		TokenHash: token.Hash,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		ExpiresAt: now.Add(sm.config.MaxAge),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := sm.storage.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &CreateSessionResult{
		Session: session,
		Token:   token.Token,
	}, nil
}

func (sm *SessionManager) Verify(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	tokenHash := crypto.HashToken(token)

	if sm.cache != nil {
		if session, err := sm.cache.Get(ctx, tokenHash); err == nil && session != nil {
			if time.Now().Before(session.ExpiresAt) {
				return session, nil
			}
			sm.cache.Delete(ctx, tokenHash)
		}
	}

	session, err := sm.storage.GetSessionByHash(ctx, tokenHash)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	valid, err := crypto.VerifyToken(token, session.TokenHash)
	if err != nil || !valid {
		return nil, ErrInvalidToken
	}

	if time.Now().After(session.ExpiresAt) {
		sm.storage.DeleteSessionByID(ctx, session.ID)
		return nil, ErrSessionExpired
	}

	if sm.cache != nil {
		sm.cache.Set(ctx, tokenHash, session)
	}

	return session, nil
}

func (sm *SessionManager) Destroy(ctx context.Context, token string) error {
	tokenHash := crypto.HashToken(token)

	// Invalidate cache if available
	if sm.cache != nil {
		sm.cache.Delete(ctx, tokenHash)
	}

	return sm.storage.DeleteSessionByHash(ctx, tokenHash)
}

func (sm *SessionManager) DestroyAllAccountSessions(ctx context.Context, accountID string) (int, error) {
	if sm.cache != nil {
		sm.cache.Clear(ctx)
	}

	return sm.storage.DeleteAccountSessions(ctx, accountID)
}

// PurgeExpired removes expired sessions from storage. Meant to run
// periodically from the composition root.
func (sm *SessionManager) PurgeExpired(ctx context.Context) (int, error) {
	return sm.storage.DeleteExpiredSessions(ctx)
}
