package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

type User struct {
	ID           string
	Email        string // normalized to lowercase
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string // argon2 encoded
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName returns the user's display name.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

var (
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

const (
	UsernameMinLength = 3
	UsernameMaxLength = 50
	NameMaxLength     = 100
)

// NormalizeEmail lowercases and trims an email address. Emails are stored
// and compared in normalized form so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks that the address has a plausible mailbox@domain.tld
// shape. Returns an error wrapping ErrValidation on failure.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if !emailRe.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	return nil
}

// ValidateUsername checks length and character set constraints.
func ValidateUsername(username string) error {
	if len(username) < UsernameMinLength || len(username) > UsernameMaxLength {
		return fmt.Errorf("%w: username must be between %d and %d characters",
			ErrValidation, UsernameMinLength, UsernameMaxLength)
	}
	if !usernameRe.MatchString(username) {
		return fmt.Errorf("%w: username may only contain letters, digits and underscores", ErrValidation)
	}
	return nil
}

// ValidateName checks a first or last name. The field argument names the
// offending field in the error message.
func ValidateName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: %s is required", ErrValidation, field)
	}
	if len(name) > NameMaxLength {
		return fmt.Errorf("%w: %s must be at most %d characters", ErrValidation, field, NameMaxLength)
	}
	return nil
}
