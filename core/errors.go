package core

import "errors"

// Authentication errors. Wrong password, wrong or never-issued recovery
// key and unknown username all collapse into ErrInvalidCredentials so an
// attacker cannot probe which usernames exist.
var (
	ErrUsernameTaken      = errors.New("username is already taken")    // 409 Conflict
	ErrAccountNotFound    = errors.New("account not found")            // 404 Not Found
	ErrInvalidCredentials = errors.New("invalid username or password") // 401 Unauthorized
)

// Session errors
var (
	ErrMissingAuthHeader = errors.New("missing authorization header") // 401
	ErrInvalidToken      = errors.New("invalid session token")        // 401
	ErrSessionNotFound   = errors.New("session not found")            // 401
	ErrSessionExpired    = errors.New("session expired")              // 401
	ErrCacheNotFound     = errors.New("session not found in cache")
)

// Validation errors (client input)
var (
	ErrInvalidAuthHeader   = errors.New("invalid authorization format, expected 'Bearer <token>'") // 401
	ErrUsernameRequired    = errors.New("username is required")                                    // 400
	ErrUsernameTooShort    = errors.New("username is too short")                                   // 400
	ErrUsernameTooLong     = errors.New("username is too long")                                    // 400
	ErrUsernameInvalid     = errors.New("username may only contain letters, digits, '_' and '-'")  // 400
	ErrPasswordRequired    = errors.New("password is required")                                    // 400
	ErrPasswordTooShort    = errors.New("password is too short")                                   // 400
	ErrPasswordTooLong     = errors.New("password is too long")                                    // 400
	ErrRecoveryKeyRequired = errors.New("recovery key is required")                                // 400
)
