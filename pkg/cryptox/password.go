package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"unicode"

	"golang.org/x/crypto/argon2"
)

// ErrWeakPassword reports a plaintext password that fails the strength
// policy. It is the only error HashPassword returns for caller mistakes;
// anything else is an entropy-source failure.
var ErrWeakPassword = errors.New("cryptox: password does not meet requirements")

// MinPasswordLength is the policy floor enforced by ValidatePassword.
const MinPasswordLength = 8

// ValidatePassword enforces the password strength policy: at least
// MinPasswordLength characters with one uppercase letter, one lowercase
// letter, and one digit. The check lives here, at the hashing boundary,
// so no caller can persist a credential for a password that never met
// policy.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrWeakPassword, MinPasswordLength)
	}

	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}

	switch {
	case !upper:
		return fmt.Errorf("%w: must contain an uppercase letter", ErrWeakPassword)
	case !lower:
		return fmt.Errorf("%w: must contain a lowercase letter", ErrWeakPassword)
	case !digit:
		return fmt.Errorf("%w: must contain a digit", ErrWeakPassword)
	}

	return nil
}

// HashPassword validates the password against the strength policy and, on
// success, generates a PHC-format Argon2id hash string including salt and
// parameters. Every call uses a fresh random salt, so two hashes of the
// same password never compare equal.
func HashPassword(password string) (string, error) {
	if err := ValidatePassword(password); err != nil {
		return "", err
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey(
		[]byte(password+GetPepper()),
		salt,
		iterations,
		memory,
		parallelism,
		keyLength,
	)
	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory,
		iterations,
		parallelism,
		b64Salt,
		b64Hash,
	), nil
}

// DummyHash is a well-formed Argon2id hash of a random throwaway value.
// Verify against it when no real credential exists so the work factor is
// paid on every code path and response timing stays uniform.
const DummyHash = "$argon2id$v=19$m=19456,t=2,p=1$" +
	"3vYl8R2mS0qFZy1uQp7w4g$Qx9sM1cT6bV0nW3eH5jK8rL2aP7dU4iY1oC6fS9gT0k"

// VerifyPassword compares a plaintext password against a PHC-style Argon2id
// hash. A mismatch is a normal false, not an error; malformed credentials
// also report false. The underlying comparison is constant-time.
func VerifyPassword(password, encodedHash string) bool {
	params, salt, expected, err := decodePHC(encodedHash)
	if err != nil {
		return false
	}

	computed := argon2.IDKey(
		[]byte(password+GetPepper()),
		salt,
		params.iterations,
		params.memory,
		params.parallelism,
		uint32(len(expected)), // #nosec G115 - hash lengths are small
	)

	return subtle.ConstantTimeCompare(computed, expected) == 1
}

type phcParams struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
}

// decodePHC parses $argon2id$v=19$m=X,t=Y,p=Z$salt$hash into its components.
func decodePHC(encodedHash string) (phcParams, []byte, []byte, error) {
	parts := make([]string, 0, 6)
	start := 0
	for i := range len(encodedHash) {
		if encodedHash[i] == '$' {
			parts = append(parts, encodedHash[start:i])
			start = i + 1
		}
	}
	parts = append(parts, encodedHash[start:])

	// Expected structure: ["", "argon2id", "v=19", "m=X,t=Y,p=Z", "salt", "hash"]
	if len(parts) != 6 {
		return phcParams{}, nil, nil, errors.New("invalid hash format: expected 6 parts")
	}
	if parts[1] != "argon2id" {
		return phcParams{}, nil, nil, errors.New("invalid hash format: not argon2id")
	}
	if parts[2] != "v=19" {
		return phcParams{}, nil, nil, errors.New("invalid hash format: wrong version")
	}

	var p phcParams
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.iterations, &p.parallelism); err != nil {
		return phcParams{}, nil, nil, fmt.Errorf("invalid hash format: failed to parse parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return phcParams{}, nil, nil, fmt.Errorf("invalid hash format: failed to decode salt: %w", err)
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return phcParams{}, nil, nil, fmt.Errorf("invalid hash format: failed to decode hash: %w", err)
	}

	return p, salt, hash, nil
}
