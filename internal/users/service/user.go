package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pillarhq/userd/internal/users/domain"
	"github.com/pillarhq/userd/internal/users/events"
	"github.com/pillarhq/userd/internal/users/metrics"
	"github.com/pillarhq/userd/internal/users/store"
	"github.com/pillarhq/userd/pkg/cryptox"
	"github.com/pillarhq/userd/pkg/idx"
	"github.com/pillarhq/userd/pkg/slogx"
)

var (
	ErrEmailTaken    = errors.New("email_taken")
	ErrUsernameTaken = errors.New("username_taken")
)

// List pagination bounds.
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// CreateUserParams carries the validated-at-the-edge inputs for Create.
type CreateUserParams struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
}

// UpdateUserParams carries optional profile mutations. Nil means unchanged.
type UpdateUserParams struct {
	FirstName *string
	LastName  *string
}

// UserList is a page of users with the total row count for pagination.
type UserList struct {
	Users  []domain.User
	Total  int64
	Limit  int
	Offset int
}

// UserService implements user CRUD and lifecycle operations.
type UserService struct {
	Store  store.Store
	Events events.Publisher
}

// Create validates all fields, hashes the password, and inserts the user.
// New accounts start active. Email uniqueness is checked under the same
// transaction that inserts, so concurrent registrations cannot race past it.
func (s *UserService) Create(ctx context.Context, p CreateUserParams) (domain.User, error) {
	p.Email = domain.NormalizeEmail(p.Email)

	if err := domain.ValidateEmail(p.Email); err != nil {
		metrics.RecordUserOperation("create", "validation_error")
		return domain.User{}, err
	}
	if err := domain.ValidateUsername(p.Username); err != nil {
		metrics.RecordUserOperation("create", "validation_error")
		return domain.User{}, err
	}
	if err := domain.ValidateName("first_name", p.FirstName); err != nil {
		metrics.RecordUserOperation("create", "validation_error")
		return domain.User{}, err
	}
	if err := domain.ValidateName("last_name", p.LastName); err != nil {
		metrics.RecordUserOperation("create", "validation_error")
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		if errors.Is(err, cryptox.ErrWeakPassword) {
			metrics.RecordUserOperation("create", "validation_error")
			return domain.User{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		metrics.RecordUserOperation("create", "error")
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Email:        p.Email,
		Username:     p.Username,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByEmail(ctx, user.Email); err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if _, err := tx.Users().GetUserByUsername(ctx, user.Username); err == nil {
			return ErrUsernameTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		return tx.Users().CreateUser(ctx, user)
	})
	if err != nil {
		// The unique indexes back up the in-tx checks; when one fires,
		// look up which field actually collided.
		if errors.Is(err, store.ErrAlreadyExists) {
			if _, lookupErr := s.Store.Users().GetUserByUsername(ctx, user.Username); lookupErr == nil {
				err = ErrUsernameTaken
			} else {
				err = ErrEmailTaken
			}
		}
		status := "error"
		if errors.Is(err, ErrEmailTaken) || errors.Is(err, ErrUsernameTaken) {
			status = "conflict"
		}
		metrics.RecordUserOperation("create", status)
		return domain.User{}, err
	}

	metrics.RecordUserOperation("create", "success")
	slogx.FromContext(ctx).Info("user created",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)
	s.Events.Publish(ctx, domain.UserEvent{
		Type:       domain.EventUserCreated,
		UserID:     user.ID,
		Email:      user.Email,
		OccurredAt: now,
	})

	return user, nil
}

// Get fetches a user by ID.
func (s *UserService) Get(ctx context.Context, id string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// List returns a page of users. Limit is clamped to [1, MaxListLimit];
// offset is clamped to >= 0.
func (s *UserService) List(ctx context.Context, limit, offset int) (UserList, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.Store.Users().ListUsers(ctx, limit, offset)
	if err != nil {
		return UserList{}, err
	}

	total, err := s.Store.Users().CountUsers(ctx)
	if err != nil {
		return UserList{}, err
	}

	return UserList{
		Users:  users,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

// Update mutates the profile fields present in params and returns the
// updated user. Passing no fields is a no-op read.
func (s *UserService) Update(ctx context.Context, id string, p UpdateUserParams) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.RecordUserOperation("update", "not_found")
		}
		return domain.User{}, err
	}

	firstName := user.FirstName
	if p.FirstName != nil {
		firstName = *p.FirstName
	}
	lastName := user.LastName
	if p.LastName != nil {
		lastName = *p.LastName
	}

	if err := domain.ValidateName("first_name", firstName); err != nil {
		metrics.RecordUserOperation("update", "validation_error")
		return domain.User{}, err
	}
	if err := domain.ValidateName("last_name", lastName); err != nil {
		metrics.RecordUserOperation("update", "validation_error")
		return domain.User{}, err
	}

	if err := s.Store.Users().UpdateUserName(ctx, id, firstName, lastName); err != nil {
		metrics.RecordUserOperation("update", "error")
		return domain.User{}, err
	}

	updated, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	metrics.RecordUserOperation("update", "success")
	s.Events.Publish(ctx, domain.UserEvent{
		Type:   domain.EventUserUpdated,
		UserID: updated.ID,
		Email:  updated.Email,
	})

	return updated, nil
}

// Activate marks the account active so it can authenticate again.
func (s *UserService) Activate(ctx context.Context, id string) (domain.User, error) {
	return s.setActive(ctx, id, true)
}

// Deactivate marks the account inactive. The row and credential are kept;
// only authentication is blocked.
func (s *UserService) Deactivate(ctx context.Context, id string) (domain.User, error) {
	return s.setActive(ctx, id, false)
}

func (s *UserService) setActive(ctx context.Context, id string, active bool) (domain.User, error) {
	op := "deactivate"
	if active {
		op = "activate"
	}

	if err := s.Store.Users().SetUserActive(ctx, id, active); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.RecordUserOperation(op, "not_found")
		} else {
			metrics.RecordUserOperation(op, "error")
		}
		return domain.User{}, err
	}

	user, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	metrics.RecordUserOperation(op, "success")
	slogx.FromContext(ctx).Info("user "+op+"d", slog.String("user_id", id))
	s.Events.Publish(ctx, domain.UserEvent{
		Type:   domain.EventUserUpdated,
		UserID: user.ID,
		Email:  user.Email,
	})

	return user, nil
}

// Delete permanently removes a user.
func (s *UserService) Delete(ctx context.Context, id string) error {
	user, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.RecordUserOperation("delete", "not_found")
		}
		return err
	}

	if err := s.Store.Users().DeleteUser(ctx, id); err != nil {
		metrics.RecordUserOperation("delete", "error")
		return err
	}

	metrics.RecordUserOperation("delete", "success")
	slogx.FromContext(ctx).Info("user deleted", slog.String("user_id", id))
	s.Events.Publish(ctx, domain.UserEvent{
		Type:   domain.EventUserDeleted,
		UserID: user.ID,
		Email:  user.Email,
	})

	return nil
}
