package crypto

import (
	"fmt"
	"strings"
)

// Recovery keys replace email-based password resets. A key looks like
//
//	RK-7WJM-Q2HD-8XKP-3NVT-5RGB-W9CZ-4FSA-6YDE
//
// 8 groups of 4 characters drawn from a 30-character alphabet that avoids
// the lookalikes 0/O, 1/I/L and U. That is 32 * log2(30) ~= 157 bits of
// entropy, comfortably past the point where offline guessing is feasible.
//
// The plaintext is shown to the user exactly once; storage only ever sees
// its argon2id hash.
const (
	recoveryKeyPrefix    = "RK"
	recoveryKeyAlphabet  = "ABCDEFGHJKMNPQRSTVWXYZ23456789"
	recoveryKeyGroups    = 8
	recoveryKeyGroupSize = 4
)

// RecoveryKeyGenerator produces recovery keys from a cryptographically
// secure random source. The same generator serves registration and every
// later rotation.
type RecoveryKeyGenerator struct {
	gen *NanoIDGenerator
}

func NewRecoveryKeyGenerator() *RecoveryKeyGenerator {
	gen, err := NewNanoIDWithAlphabet(recoveryKeyAlphabet)
	if err != nil {
		// The alphabet is a package constant; this cannot fail at runtime.
		panic(fmt.Sprintf("recovery key alphabet: %v", err))
	}
	return &RecoveryKeyGenerator{gen: gen}
}

// Generate returns a new plaintext recovery key in canonical form.
func (g *RecoveryKeyGenerator) Generate() (string, error) {
	raw, err := g.gen.Generate(recoveryKeyGroups * recoveryKeyGroupSize)
	if err != nil {
		return "", fmt.Errorf("failed to generate recovery key: %w", err)
	}

	parts := make([]string, 0, recoveryKeyGroups+1)
	parts = append(parts, recoveryKeyPrefix)
	for i := 0; i < len(raw); i += recoveryKeyGroupSize {
		parts = append(parts, raw[i:i+recoveryKeyGroupSize])
	}

	return strings.Join(parts, "-"), nil
}

// NormalizeRecoveryKey maps user input back to the canonical form a key
// was issued in: case-insensitive, separators and whitespace optional,
// the RK prefix optional. The result of normalizing an issued key is the
// key itself, so hashes computed over canonical keys verify against
// normalized user input.
func NormalizeRecoveryKey(input string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(input) {
		if (r >= 'A' && r <= 'Z') || (r >= '2' && r <= '9') {
			b.WriteByte(byte(r))
		}
	}
	body := b.String()
	// Strip the prefix only when present beyond the 32 key characters,
	// so a key whose first group itself starts with "RK" survives being
	// entered without the prefix.
	if len(body) == recoveryKeyGroups*recoveryKeyGroupSize+len(recoveryKeyPrefix) {
		body = strings.TrimPrefix(body, recoveryKeyPrefix)
	}

	if len(body) != recoveryKeyGroups*recoveryKeyGroupSize {
		// Not key-shaped; hand back the stripped input so verification
		// fails against any stored hash instead of erroring.
		return body
	}

	parts := make([]string, 0, recoveryKeyGroups+1)
	parts = append(parts, recoveryKeyPrefix)
	for i := 0; i < len(body); i += recoveryKeyGroupSize {
		parts = append(parts, body[i:i+recoveryKeyGroupSize])
	}
	return strings.Join(parts, "-")
}

// ValidRecoveryKeyFormat reports whether input normalizes to the shape of
// an issued key. It says nothing about whether the key matches any account.
func ValidRecoveryKeyFormat(input string) bool {
	normalized := NormalizeRecoveryKey(input)
	if len(normalized) != len(recoveryKeyPrefix)+recoveryKeyGroups*recoveryKeyGroupSize+recoveryKeyGroups {
		return false
	}
	for _, group := range strings.Split(normalized, "-")[1:] {
		for i := 0; i < len(group); i++ {
			if !strings.ContainsRune(recoveryKeyAlphabet, rune(group[i])) {
				return false
			}
		}
	}
	return true
}
