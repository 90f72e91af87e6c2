package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Signer is our interface for anything that can sign access tokens.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
}

// Verifier validates a token and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")

	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// hmacMethods maps the configurable algorithm names onto jwt methods.
var hmacMethods = map[string]*jwt.SigningMethodHMAC{
	"HS256": jwt.SigningMethodHS256,
	"HS384": jwt.SigningMethodHS384,
	"HS512": jwt.SigningMethodHS512,
}

// SupportedAlgorithm reports whether alg names a supported HMAC algorithm.
func SupportedAlgorithm(alg string) bool {
	_, ok := hmacMethods[alg]
	return ok
}

// HMAC signs and verifies tokens with a shared symmetric secret. It is both
// a Signer and a Verifier. The secret and algorithm are fixed at
// construction; the type is safe for concurrent use.
type HMAC struct {
	method *jwt.SigningMethodHMAC
	secret []byte
	issuer string
}

// NewHMAC creates an HMAC signer/verifier for the given algorithm
// (HS256, HS384, or HS512).
func NewHMAC(alg string, secret []byte, issuer string) (*HMAC, error) {
	method, ok := hmacMethods[alg]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported algorithm %q", ErrAlgMismatch, alg)
	}
	if len(secret) == 0 {
		return nil, errors.New("jwtx: signing secret must not be empty")
	}
	return &HMAC{method: method, secret: secret, issuer: issuer}, nil
}

// Alg returns the configured algorithm name.
func (h *HMAC) Alg() string { return h.method.Alg() }

// Sign produces a compact serialized token for the claims.
func (h *HMAC) Sign(c Claims) (string, error) {
	return jwt.NewWithClaims(h.method, c).SignedString(h.secret)
}

// Verify parses and validates a compact token. The signature, algorithm,
// expiry, not-before, and (when configured) issuer are all enforced; the
// exp claim is required so a token can never outlive verification.
func (h *HMAC) Verify(token string) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{h.method.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if h.issuer != "" {
		opts = append(opts, jwt.WithIssuer(h.issuer))
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return h.secret, nil
	}, opts...)
	if err != nil {
		return Claims{}, mapParseError(err)
	}
	if !parsed.Valid {
		return Claims{}, ErrInvalidClaim
	}

	return claims, nil
}

// mapParseError translates jwt/v5's error chain into the package sentinels
// so callers can switch on errors.Is without importing the jwt module.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrInvalidSig, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return fmt.Errorf("%w: %v", ErrNotYetValid, err)
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return fmt.Errorf("%w: %v", ErrIssuer, err)
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return fmt.Errorf("%w: %v", ErrInvalidClaim, err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidClaim, err)
	}
}
