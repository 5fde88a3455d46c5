package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linkvault-app/linkvault/pkg/crypto"
)

// AuthProvider is the surface the HTTP adapter consumes.
type AuthProvider interface {
	Register(ctx context.Context, input RegisterInput, ipAddress, userAgent string) (*RegisterResult, error)
	Login(ctx context.Context, input LoginInput, ipAddress, userAgent string) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	GetSession(ctx context.Context, token string) (*SessionData, error)
	ResetPassword(ctx context.Context, input ResetPasswordInput) (*ResetPasswordResult, error)
	RotateRecoveryKey(ctx context.Context, accountID string) (*RotateRecoveryKeyResult, error)
	ChangePassword(ctx context.Context, accountID string, input ChangePasswordInput) error
}

// Auth orchestrates the credential and recovery flows. All secrets are
// hashed through a single SecretHasher; recovery keys come from a single
// generator so registration and rotation issue identically shaped keys.
type Auth struct {
	store    Storage
	sessions *SessionManager
	hasher   crypto.SecretHasher
	recovery *crypto.RecoveryKeyGenerator
	ids      *crypto.NanoIDGenerator
	logger   *slog.Logger
}

var _ AuthProvider = (*Auth)(nil)

func NewAuth(store Storage, sessions *SessionManager, hasher crypto.SecretHasher, logger *slog.Logger) *Auth {
	if hasher == nil {
		hasher = crypto.NewArgon2()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Auth{
		store:    store,
		sessions: sessions,
		hasher:   hasher,
		recovery: crypto.NewRecoveryKeyGenerator(),
		ids:      crypto.NewNanoID(),
		logger:   logger,
	}
}

// RegisterInput contains the data needed to create a new account
type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterResult contains the new account, its first session and the
// plaintext recovery key. This is the ONLY place the key ever appears in
// plaintext; the caller must show it once and drop it.
type RegisterResult struct {
	Account     *Account `json:"account"`
	Session     *Session `json:"session"`
	Token       string   `json:"token"`       // The raw session token (not the hash)
	RecoveryKey string   `json:"recoveryKey"` // One-time disclosure
}

// Register creates an account, issues its initial recovery key and opens
// a session.
func (a *Auth) Register(ctx context.Context, input RegisterInput, ipAddress, userAgent string) (*RegisterResult, error) {
	// Step 1: Validate input before touching storage
	username := NormalizeUsername(input.Username)
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	// Step 2: Hash the password
	passwordHash, err := a.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Step 3: Generate and hash the initial recovery key
	recoveryKey, recoveryHash, issuedAt, err := a.issueRecoveryKey()
	if err != nil {
		return nil, err
	}

	id, err := a.ids.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate account ID: %w", err)
	}

	// Step 4: Create the account. Uniqueness is enforced by the store;
	// a concurrent duplicate registration surfaces as ErrUsernameTaken
	// and leaves no partial row behind.
	account := &Account{
		ID:               id,
		Username:         username,
		PasswordHash:     passwordHash,
		RecoveryHash:     &recoveryHash,
		RecoveryIssuedAt: &issuedAt,
	}

	if err := a.store.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	// Step 5: Open the first session
	sessionResult, err := a.sessions.Create(ctx, account.ID, ipAddress, userAgent)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	a.logger.Info("account registered", slog.String("account_id", account.ID))

	return &RegisterResult{
		Account:     account,
		Session:     sessionResult.Session,
		Token:       sessionResult.Token,
		RecoveryKey: recoveryKey,
	}, nil
}

// LoginInput contains the credentials for authentication
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult contains the authenticated account and its session
type LoginResult struct {
	Account *Account `json:"account"`
	Session *Session `json:"session"`
	Token   string   `json:"token"` // The raw session token (not the hash)
}

// Login authenticates an account with username and password. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (a *Auth) Login(ctx context.Context, input LoginInput, ipAddress, userAgent string) (*LoginResult, error) {
	username := NormalizeUsername(input.Username)

	account, err := a.store.GetAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	valid, err := a.hasher.Verify(input.Password, account.PasswordHash)
	if err != nil || !valid {
		// A corrupt stored record verifies as a mismatch, not a pass.
		return nil, ErrInvalidCredentials
	}

	sessionResult, err := a.sessions.Create(ctx, account.ID, ipAddress, userAgent)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &LoginResult{
		Account: account,
		Session: sessionResult.Session,
		Token:   sessionResult.Token,
	}, nil
}

// Logout invalidates the current session
func (a *Auth) Logout(ctx context.Context, token string) error {
	if err := a.sessions.Destroy(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// GetSession verifies a session token and returns the session together
// with its account.
func (a *Auth) GetSession(ctx context.Context, token string) (*SessionData, error) {
	session, err := a.sessions.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	account, err := a.store.GetAccountByID(ctx, session.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &SessionData{
		Account: account,
		Session: session,
	}, nil
}

// ResetPasswordInput carries a reset attempt. The recovery key is
// accepted in any of the forms a user might transcribe it in.
type ResetPasswordInput struct {
	Username    string `json:"username"`
	RecoveryKey string `json:"recoveryKey"`
	NewPassword string `json:"newPassword"`
}

// ResetPasswordResult carries the replacement recovery key, disclosed
// exactly once. No session is issued by a reset.
type ResetPasswordResult struct {
	RecoveryKey string `json:"recoveryKey"`
}

// ResetPassword verifies the recovery key, rotates the password and
// issues a fresh recovery key. The used key stops verifying even though
// the attempt succeeded: keys are single-use by rotation.
func (a *Auth) ResetPassword(ctx context.Context, input ResetPasswordInput) (*ResetPasswordResult, error) {
	if input.RecoveryKey == "" {
		return nil, ErrRecoveryKeyRequired
	}
	if err := ValidatePassword(input.NewPassword); err != nil {
		return nil, err
	}

	username := NormalizeUsername(input.Username)

	account, err := a.store.GetAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	// Recovery never issued, malformed input, or plain mismatch: all the
	// same answer, so nothing about the account's state leaks.
	if account.RecoveryHash == nil {
		return nil, ErrInvalidCredentials
	}
	if !crypto.ValidRecoveryKeyFormat(input.RecoveryKey) {
		return nil, ErrInvalidCredentials
	}

	valid, err := a.hasher.Verify(crypto.NormalizeRecoveryKey(input.RecoveryKey), *account.RecoveryHash)
	if err != nil || !valid {
		return nil, ErrInvalidCredentials
	}

	newPasswordHash, err := a.hasher.Hash(input.NewPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newKey, newKeyHash, issuedAt, err := a.issueRecoveryKey()
	if err != nil {
		return nil, err
	}

	// One combined atomic write: a crash cannot leave the new password
	// with the old recovery key still valid.
	if err := a.store.UpdateCredentials(ctx, account.ID, newPasswordHash, newKeyHash, issuedAt); err != nil {
		return nil, fmt.Errorf("failed to update credentials: %w", err)
	}

	a.logger.Info("password reset via recovery key", slog.String("account_id", account.ID))

	return &ResetPasswordResult{RecoveryKey: newKey}, nil
}

// RotateRecoveryKeyResult carries the replacement recovery key, disclosed
// exactly once.
type RotateRecoveryKeyResult struct {
	RecoveryKey string `json:"recoveryKey"`
}

// RotateRecoveryKey issues a new recovery key for an authenticated
// account, invalidating the previous one. The password is untouched.
func (a *Auth) RotateRecoveryKey(ctx context.Context, accountID string) (*RotateRecoveryKeyResult, error) {
	newKey, newKeyHash, issuedAt, err := a.issueRecoveryKey()
	if err != nil {
		return nil, err
	}

	if err := a.store.UpdateRecoveryKey(ctx, accountID, newKeyHash, issuedAt); err != nil {
		return nil, fmt.Errorf("failed to update recovery key: %w", err)
	}

	a.logger.Info("recovery key rotated", slog.String("account_id", accountID))

	return &RotateRecoveryKeyResult{RecoveryKey: newKey}, nil
}

// ChangePasswordInput carries a settings-page password change.
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword rehashes the password after verifying the current one.
// The recovery key is untouched.
func (a *Auth) ChangePassword(ctx context.Context, accountID string, input ChangePasswordInput) error {
	if err := ValidatePassword(input.NewPassword); err != nil {
		return err
	}

	account, err := a.store.GetAccountByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}

	valid, err := a.hasher.Verify(input.CurrentPassword, account.PasswordHash)
	if err != nil || !valid {
		return ErrInvalidCredentials
	}

	newHash, err := a.hasher.Hash(input.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := a.store.UpdatePassword(ctx, accountID, newHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// issueRecoveryKey generates a fresh key and its storable hash. The
// plaintext is returned to the calling flow for one-time disclosure and
// exists nowhere else.
func (a *Auth) issueRecoveryKey() (key, hash string, issuedAt time.Time, err error) {
	key, err = a.recovery.Generate()
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to generate recovery key: %w", err)
	}
	// The normalized form is what gets hashed, so any transcription the
	// user later types (case, separators, prefix) verifies against it.
	hash, err = a.hasher.Hash(crypto.NormalizeRecoveryKey(key))
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to hash recovery key: %w", err)
	}
	return key, hash, time.Now(), nil
}
