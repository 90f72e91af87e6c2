package service

import (
	"context"
	"testing"
	"time"

	"github.com/pillarhq/userd/internal/users/events"
	"github.com/pillarhq/userd/internal/users/store"
	"github.com/pillarhq/userd/internal/users/store/drivers/sqlite"
	"github.com/pillarhq/userd/pkg/jwtx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIssuer = "userd-test"

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func newAuthService(t *testing.T, s store.Store) *AuthService {
	t.Helper()

	hm, err := jwtx.NewHMAC("HS256", []byte("test-secret-key-0123456789abcdef"), testIssuer)
	require.NoError(t, err)

	return &AuthService{
		Store:     s,
		Signer:    hm,
		Verifier:  hm,
		Issuer:    testIssuer,
		AccessTTL: 30 * time.Minute,
	}
}

func seedUser(t *testing.T, s store.Store, email, password string) string {
	t.Helper()

	users := &UserService{Store: s, Events: events.NopPublisher{}}
	u, err := users.Create(context.Background(), CreateUserParams{
		Email:     email,
		Username:  "u" + time.Now().Format("150405") + email[:1] + "x",
		Password:  password,
		FirstName: "Seed",
		LastName:  "User",
	})
	require.NoError(t, err)
	return u.ID
}

func TestAuthService_AuthenticateSuccess(t *testing.T) {
	s := newTestStore(t)
	auth := newAuthService(t, s)
	ctx := context.Background()

	id := seedUser(t, s, "alice@example.com", "Sup3rSecret")

	session, err := auth.Authenticate(ctx, "alice@example.com", "Sup3rSecret")
	require.NoError(t, err)
	assert.Equal(t, id, session.UserID)
	assert.Equal(t, "alice@example.com", session.Email)
	assert.Equal(t, "bearer", session.TokenType)
	assert.NotEmpty(t, session.AccessToken)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), session.ExpiresAt, 5*time.Second)
}

func TestAuthService_AuthenticateEmailCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	auth := newAuthService(t, s)

	seedUser(t, s, "bob@example.com", "Sup3rSecret")

	session, err := auth.Authenticate(context.Background(), "BOB@Example.COM", "Sup3rSecret")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", session.Email)
}

func TestAuthService_AuthenticateFailuresAreUniform(t *testing.T) {
	s := newTestStore(t)
	auth := newAuthService(t, s)
	ctx := context.Background()

	id := seedUser(t, s, "carol@example.com", "Sup3rSecret")

	// Unknown email
	_, err := auth.Authenticate(ctx, "nobody@example.com", "Sup3rSecret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Wrong password
	_, err = auth.Authenticate(ctx, "carol@example.com", "WrongPass1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Deactivated account, even with the right password
	require.NoError(t, s.Users().SetUserActive(ctx, id, false))
	_, err = auth.Authenticate(ctx, "carol@example.com", "Sup3rSecret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_VerifyToken(t *testing.T) {
	s := newTestStore(t)
	auth := newAuthService(t, s)
	ctx := context.Background()

	id := seedUser(t, s, "dave@example.com", "Sup3rSecret")
	session, err := auth.Authenticate(ctx, "dave@example.com", "Sup3rSecret")
	require.NoError(t, err)

	info, err := auth.VerifyToken(ctx, session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, id, info.UserID)
	assert.Equal(t, "dave@example.com", info.Email)
	assert.WithinDuration(t, session.ExpiresAt, info.ExpiresAt, time.Second)
}

func TestAuthService_VerifyTokenRejectsGarbage(t *testing.T) {
	s := newTestStore(t)
	auth := newAuthService(t, s)
	ctx := context.Background()

	for _, token := range []string{"", "not-a-jwt", "aaa.bbb.ccc"} {
		_, err := auth.VerifyToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestAuthService_VerifyTokenRejectsWrongKey(t *testing.T) {
	s := newTestStore(t)
	auth := newAuthService(t, s)
	ctx := context.Background()

	other, err := jwtx.NewHMAC("HS256", []byte("a-completely-different-secret!!!"), testIssuer)
	require.NoError(t, err)

	claims := jwtx.NewAccessClaims("someone", "x@example.com", time.Minute, testIssuer, time.Now())
	token, err := other.Sign(claims)
	require.NoError(t, err)

	_, err = auth.VerifyToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_VerifyTokenWithoutEmailIsValid(t *testing.T) {
	s := newTestStore(t)
	auth := newAuthService(t, s)
	ctx := context.Background()

	hm := auth.Signer.(*jwtx.HMAC)
	claims := jwtx.NewAccessClaims("user-123", "", time.Minute, testIssuer, time.Now())
	token, err := hm.Sign(claims)
	require.NoError(t, err)

	info, err := auth.VerifyToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", info.UserID)
	assert.Empty(t, info.Email)
}

func TestAuthService_RefreshToken(t *testing.T) {
	s := newTestStore(t)
	auth := newAuthService(t, s)
	ctx := context.Background()

	id := seedUser(t, s, "erin@example.com", "Sup3rSecret")
	session, err := auth.Authenticate(ctx, "erin@example.com", "Sup3rSecret")
	require.NoError(t, err)

	fresh, err := auth.RefreshToken(ctx, session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, id, fresh.UserID)
	assert.Equal(t, "erin@example.com", fresh.Email)
	assert.NotEqual(t, session.AccessToken, fresh.AccessToken)

	// The old token is not invalidated by refreshing.
	info, err := auth.VerifyToken(ctx, session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, id, info.UserID)
}

func TestAuthService_RefreshRequiresEmailClaim(t *testing.T) {
	s := newTestStore(t)
	auth := newAuthService(t, s)
	ctx := context.Background()

	hm := auth.Signer.(*jwtx.HMAC)
	claims := jwtx.NewAccessClaims("user-123", "", time.Minute, testIssuer, time.Now())
	token, err := hm.Sign(claims)
	require.NoError(t, err)

	_, err = auth.RefreshToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_RefreshRejectsExpiredToken(t *testing.T) {
	s := newTestStore(t)
	auth := newAuthService(t, s)
	ctx := context.Background()

	hm := auth.Signer.(*jwtx.HMAC)
	claims := jwtx.NewAccessClaims("user-123", "x@example.com", time.Minute,
		testIssuer, time.Now().Add(-time.Hour))
	token, err := hm.Sign(claims)
	require.NoError(t, err)

	_, err = auth.RefreshToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
