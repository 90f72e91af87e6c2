package service

import (
	"context"
	"sync"
	"testing"

	"github.com/pillarhq/userd/internal/users/domain"
	"github.com/pillarhq/userd/internal/users/store"
	"github.com/pillarhq/userd/pkg/cryptox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPublisher captures events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.UserEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e domain.UserEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) all() []domain.UserEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.UserEvent(nil), p.events...)
}

func newUserService(t *testing.T) (*UserService, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	return &UserService{Store: newTestStore(t), Events: pub}, pub
}

func validParams() CreateUserParams {
	return CreateUserParams{
		Email:     "alice@example.com",
		Username:  "alice",
		Password:  "Sup3rSecret",
		FirstName: "Alice",
		LastName:  "Smith",
	}
}

func TestUserService_Create(t *testing.T) {
	svc, pub := newUserService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, validParams())
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.True(t, user.Active)
	assert.NotEqual(t, "Sup3rSecret", user.PasswordHash)
	assert.True(t, cryptox.VerifyPassword("Sup3rSecret", user.PasswordHash))

	evts := pub.all()
	require.Len(t, evts, 1)
	assert.Equal(t, domain.EventUserCreated, evts[0].Type)
	assert.Equal(t, user.ID, evts[0].UserID)
}

func TestUserService_CreateNormalizesEmail(t *testing.T) {
	svc, _ := newUserService(t)

	p := validParams()
	p.Email = "  ALICE@Example.COM "
	user, err := svc.Create(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestUserService_CreateValidation(t *testing.T) {
	svc, pub := newUserService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*CreateUserParams)
	}{
		{"bad email", func(p *CreateUserParams) { p.Email = "not-an-email" }},
		{"empty email", func(p *CreateUserParams) { p.Email = "" }},
		{"short username", func(p *CreateUserParams) { p.Username = "ab" }},
		{"bad username chars", func(p *CreateUserParams) { p.Username = "al ice!" }},
		{"empty first name", func(p *CreateUserParams) { p.FirstName = "  " }},
		{"empty last name", func(p *CreateUserParams) { p.LastName = "" }},
		{"weak password", func(p *CreateUserParams) { p.Password = "alllowercase123" }},
		{"short password", func(p *CreateUserParams) { p.Password = "Ab1" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)
			_, err := svc.Create(ctx, p)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	// Nothing persisted, nothing published
	list, err := svc.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list.Users)
	assert.Empty(t, pub.all())
}

func TestUserService_CreateConflicts(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, validParams())
	require.NoError(t, err)

	dupEmail := validParams()
	dupEmail.Username = "different"
	_, err = svc.Create(ctx, dupEmail)
	assert.ErrorIs(t, err, ErrEmailTaken)

	// Email uniqueness is case-insensitive through normalization
	dupEmailCase := validParams()
	dupEmailCase.Email = "ALICE@EXAMPLE.COM"
	dupEmailCase.Username = "different2"
	_, err = svc.Create(ctx, dupEmailCase)
	assert.ErrorIs(t, err, ErrEmailTaken)

	dupUsername := validParams()
	dupUsername.Email = "other@example.com"
	_, err = svc.Create(ctx, dupUsername)
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

// indexConflictStore simulates a concurrent insert slipping past the in-tx
// existence checks, so creation only trips the unique index.
type indexConflictStore struct {
	store.Store
}

func (s *indexConflictStore) WithTx(context.Context, func(store.Tx) error) error {
	return store.ErrAlreadyExists
}

func TestUserService_CreateIndexConflictsReportCollidedField(t *testing.T) {
	backing := newTestStore(t)
	seeded := &UserService{Store: backing, Events: &recordingPublisher{}}
	ctx := context.Background()

	_, err := seeded.Create(ctx, validParams())
	require.NoError(t, err)

	svc := &UserService{Store: &indexConflictStore{Store: backing}, Events: &recordingPublisher{}}

	dupUsername := validParams()
	dupUsername.Email = "other@example.com"
	_, err = svc.Create(ctx, dupUsername)
	assert.ErrorIs(t, err, ErrUsernameTaken)

	dupEmail := validParams()
	dupEmail.Username = "different"
	_, err = svc.Create(ctx, dupEmail)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserService_GetNotFound(t *testing.T) {
	svc, _ := newUserService(t)

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUserService_ListClampsPagination(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, validParams())
	require.NoError(t, err)

	list, err := svc.List(ctx, -5, -10)
	require.NoError(t, err)
	assert.Equal(t, DefaultListLimit, list.Limit)
	assert.Equal(t, 0, list.Offset)
	assert.EqualValues(t, 1, list.Total)

	list, err = svc.List(ctx, 10_000, 0)
	require.NoError(t, err)
	assert.Equal(t, MaxListLimit, list.Limit)
}

func TestUserService_Update(t *testing.T) {
	svc, pub := newUserService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, validParams())
	require.NoError(t, err)

	first := "Alicia"
	updated, err := svc.Update(ctx, user.ID, UpdateUserParams{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.FirstName)
	assert.Equal(t, "Smith", updated.LastName) // unchanged

	empty := " "
	_, err = svc.Update(ctx, user.ID, UpdateUserParams{LastName: &empty})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Update(ctx, "missing", UpdateUserParams{FirstName: &first})
	assert.ErrorIs(t, err, store.ErrNotFound)

	evts := pub.all()
	require.Len(t, evts, 2) // created + updated
	assert.Equal(t, domain.EventUserUpdated, evts[1].Type)
}

func TestUserService_ActivateDeactivate(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, validParams())
	require.NoError(t, err)

	deactivated, err := svc.Deactivate(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.Active)

	reactivated, err := svc.Activate(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, reactivated.Active)

	_, err = svc.Deactivate(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUserService_Delete(t *testing.T) {
	svc, pub := newUserService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, validParams())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, user.ID))

	_, err = svc.Get(ctx, user.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, user.ID), store.ErrNotFound)

	evts := pub.all()
	require.Len(t, evts, 2)
	assert.Equal(t, domain.EventUserDeleted, evts[1].Type)
}
