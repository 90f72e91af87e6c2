package domain

import "time"

// TokenTypeBearer is the only token type this service issues.
const TokenTypeBearer = "bearer"

// Session represents an issued access token plus the identity it was
// issued for.
type Session struct {
	AccessToken string
	TokenType   string
	UserID      string
	Email       string
	ExpiresAt   time.Time
}

// TokenInfo is the identity carried in a verified access token. Email may
// be empty when the token has no email claim.
type TokenInfo struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}
