package core

import "time"

// Account is a registered user of the service.
//
// PasswordHash and RecoveryHash are salted argon2id records; the secrets
// they derive from are never stored. The plaintext recovery key exists
// only inside RegisterResult, ResetPasswordResult and
// RotateRecoveryKeyResult, so it is structurally impossible to serialize
// it back out of an Account.
type Account struct {
	ID               string     `json:"id"`
	Username         string     `json:"username"`
	PasswordHash     string     `json:"-"` // Never expose in JSON
	RecoveryHash     *string    `json:"-"` // Never expose in JSON. Nil until a key is issued
	RecoveryIssuedAt *time.Time `json:"recoveryIssuedAt,omitempty"`
	Bio              *string    `json:"bio,omitempty"`
	AvatarURL        *string    `json:"avatarUrl,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// Session represents an active login session
type Session struct {
	ID        string    `json:"id"`
	AccountID string    `json:"accountId"`
	TokenHash string    `json:"-"` // Never expose in JSON (security!)
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SessionData combines account and session info
// The model returned to authenticated clients
type SessionData struct {
	Account *Account `json:"account"`
	Session *Session `json:"session"`
}

// PublicProfile is the subset of an account visible to anyone.
type PublicProfile struct {
	Username  string  `json:"username"`
	Bio       *string `json:"bio,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// ProfileUpdate carries the fields an account holder may change about
// their public page. Nil fields are left untouched.
type ProfileUpdate struct {
	Bio       *string `json:"bio,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}
