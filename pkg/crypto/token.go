package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
)

const (
	DefaultTokenLength = 32 // 256 bits
)

// TokenPair holds a freshly generated session token and its storable hash.
type TokenPair struct {
	Token string // value returned to client
	Hash  string // value in storage
}

// GenerateSessionToken returns a random opaque token of byteLength random
// bytes together with its SHA-256 hash. Only the hash is ever persisted.
func GenerateSessionToken(byteLength int) (*TokenPair, error) {
	if byteLength <= 0 {
		byteLength = DefaultTokenLength
	}

	bytes := make([]byte, byteLength)
	if _, err := rand.Read(bytes); err != nil {
		return nil, err
	}

	token := base64.RawURLEncoding.EncodeToString(bytes)

	return &TokenPair{
		Token: token,
		Hash:  HashToken(token),
	}, nil
}

// VerifyToken reports whether token hashes to storedHash, comparing in
// constant time to prevent timing attacks.
func VerifyToken(token, storedHash string) (bool, error) {
	if token == "" || storedHash == "" {
		return false, errors.New("token and hash cannot be empty")
	}

	tokenHash := HashToken(token)

	return subtle.ConstantTimeCompare([]byte(tokenHash), []byte(storedHash)) == 1, nil
}

// HashToken returns the hex-encoded SHA-256 digest of token.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
