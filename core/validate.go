package core

import "strings"

const (
	usernameMinLength = 3
	usernameMaxLength = 30
	passwordMinLength = 8
	passwordMaxLength = 128
)

// NormalizeUsername maps user input to the canonical stored form.
// Usernames are case-insensitive and stored lowercase.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// ValidateUsername checks a normalized username against the allowed
// shape. The username becomes part of the public page URL, so the
// charset is restricted to URL-safe characters.
func ValidateUsername(username string) error {
	if username == "" {
		return ErrUsernameRequired
	}
	if len(username) < usernameMinLength {
		return ErrUsernameTooShort
	}
	if len(username) > usernameMaxLength {
		return ErrUsernameTooLong
	}
	for i := 0; i < len(username); i++ {
		c := username[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '-':
		default:
			return ErrUsernameInvalid
		}
	}
	return nil
}

// ValidatePassword enforces length bounds only. Anything else (charset,
// composition rules) is the user's business.
func ValidatePassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if len(password) < passwordMinLength {
		return ErrPasswordTooShort
	}
	if len(password) > passwordMaxLength {
		return ErrPasswordTooLong
	}
	return nil
}
