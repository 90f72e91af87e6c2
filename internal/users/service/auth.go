package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pillarhq/userd/internal/users/domain"
	"github.com/pillarhq/userd/internal/users/metrics"
	"github.com/pillarhq/userd/internal/users/store"
	"github.com/pillarhq/userd/pkg/cryptox"
	"github.com/pillarhq/userd/pkg/jwtx"
	"github.com/pillarhq/userd/pkg/slogx"
)

var (
	// ErrInvalidCredentials is returned for every authentication failure
	// caused by the caller: unknown email, deactivated account, or wrong
	// password. Keeping it uniform prevents account enumeration.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrInvalidToken is returned when a presented token fails
	// verification for any reason.
	ErrInvalidToken = errors.New("invalid_token")
)

// AuthService authenticates users and issues, verifies and refreshes
// access tokens. Tokens are stateless; nothing is persisted per token and
// refreshing does not invalidate the token being exchanged.
type AuthService struct {
	Store     store.Store
	Signer    jwtx.Signer
	Verifier  jwtx.Verifier
	Issuer    string
	AccessTTL time.Duration
}

// Authenticate checks an email/password pair and, on success, issues an
// access token for the account. All caller-caused failures surface as
// ErrInvalidCredentials; infrastructure failures propagate unchanged.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.Session, error) {
	l := slogx.FromContext(ctx)
	email = domain.NormalizeEmail(email)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Hash anyway so response timing doesn't reveal whether the
			// account exists.
			cryptox.VerifyPassword(password, cryptox.DummyHash)
			metrics.RecordAuthAttempt("invalid_credentials")
			return nil, ErrInvalidCredentials
		}
		metrics.RecordAuthAttempt("error")
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !user.Active {
		l.Info("login rejected for inactive account", slog.String("user_id", user.ID))
		metrics.RecordAuthAttempt("inactive_account")
		return nil, ErrInvalidCredentials
	}

	if !cryptox.VerifyPassword(password, user.PasswordHash) {
		metrics.RecordAuthAttempt("invalid_password")
		return nil, ErrInvalidCredentials
	}

	session, err := s.issue(user.ID, user.Email)
	if err != nil {
		metrics.RecordAuthAttempt("error")
		return nil, err
	}

	metrics.RecordAuthAttempt("success")
	l.Info("user authenticated", slog.String("user_id", user.ID))
	return session, nil
}

// VerifyToken validates an access token and returns the identity it
// carries. A token without an email claim is still valid; one without a
// subject is not.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*domain.TokenInfo, error) {
	claims, err := s.Verifier.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &domain.TokenInfo{
		UserID:    claims.Subject,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// RefreshToken exchanges a still-valid access token for a fresh one with
// the same identity and a new expiry. Refreshing requires both subject and
// email claims; the old token remains usable until it expires.
func (s *AuthService) RefreshToken(ctx context.Context, token string) (*domain.Session, error) {
	claims, err := s.Verifier.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" || claims.Email == "" {
		return nil, ErrInvalidToken
	}

	session, err := s.issue(claims.Subject, claims.Email)
	if err != nil {
		return nil, err
	}

	slogx.FromContext(ctx).Info("token refreshed", slog.String("user_id", claims.Subject))
	return session, nil
}

func (s *AuthService) issue(userID, email string) (*domain.Session, error) {
	claims := jwtx.NewAccessClaims(userID, email, s.AccessTTL, s.Issuer, time.Now())

	token, err := s.Signer.Sign(claims)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	metrics.RecordTokenIssued()
	return &domain.Session{
		AccessToken: token,
		TokenType:   domain.TokenTypeBearer,
		UserID:      userID,
		Email:       email,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}
