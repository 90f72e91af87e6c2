package users_test

import (
	"net/http"
	"testing"

	"github.com/pillarhq/userd/pkg/userdsdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUserLifecycle walks the whole CRUD surface: register, read, list,
// update, deactivate, reactivate, delete.
func TestUserLifecycle(t *testing.T) {
	client := setupServer(t)
	ctx := t.Context()

	user := registerUser(t, client, "erin@example.com", "erin")
	assert.True(t, user.Active)
	token := loginUser(t, client, "erin@example.com")

	// Read back
	got, err := client.GetUser(ctx, token.AccessToken, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "erin", got.Username)

	// List
	list, err := client.ListUsers(ctx, token.AccessToken, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Total)
	require.Len(t, list.Users, 1)
	assert.Equal(t, user.ID, list.Users[0].ID)

	// Update first name only
	first := "Erin"
	updated, err := client.UpdateUser(ctx, token.AccessToken, user.ID, userdsdk.UpdateUserRequest{
		FirstName: &first,
	})
	require.NoError(t, err)
	assert.Equal(t, "Erin", updated.FirstName)
	assert.Equal(t, "User", updated.LastName)

	// Deactivate then reactivate
	deactivated, err := client.DeactivateUser(ctx, token.AccessToken, user.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.Active)

	reactivated, err := client.ActivateUser(ctx, token.AccessToken, user.ID)
	require.NoError(t, err)
	assert.True(t, reactivated.Active)

	// Delete
	require.NoError(t, client.DeleteUser(ctx, token.AccessToken, user.ID))
	_, err = client.GetUser(ctx, token.AccessToken, user.ID)
	var apiErr *userdsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

// TestRegistrationValidation asserts the signup endpoint rejects bad input
// with 400 and a validation code.
func TestRegistrationValidation(t *testing.T) {
	client := setupServer(t)
	ctx := t.Context()

	tests := []struct {
		name string
		req  userdsdk.CreateUserRequest
	}{
		{"bad email", userdsdk.CreateUserRequest{
			Email: "not-an-email", Username: "frank", Password: testPassword,
			FirstName: "F", LastName: "K",
		}},
		{"weak password", userdsdk.CreateUserRequest{
			Email: "frank@example.com", Username: "frank", Password: "alllowercase123",
			FirstName: "F", LastName: "K",
		}},
		{"short username", userdsdk.CreateUserRequest{
			Email: "frank@example.com", Username: "fk", Password: testPassword,
			FirstName: "F", LastName: "K",
		}},
		{"missing first name", userdsdk.CreateUserRequest{
			Email: "frank@example.com", Username: "frank", Password: testPassword,
			LastName: "K",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.CreateUser(ctx, tt.req)
			var apiErr *userdsdk.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
			assert.Equal(t, userdsdk.ErrorCodeValidation, apiErr.Code)
		})
	}
}

// TestRegistrationConflicts duplicate email or username is a 409.
func TestRegistrationConflicts(t *testing.T) {
	client := setupServer(t)
	ctx := t.Context()

	registerUser(t, client, "grace@example.com", "grace")

	_, err := client.CreateUser(ctx, userdsdk.CreateUserRequest{
		Email: "grace@example.com", Username: "grace2", Password: testPassword,
		FirstName: "G", LastName: "H",
	})
	var apiErr *userdsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)

	_, err = client.CreateUser(ctx, userdsdk.CreateUserRequest{
		Email: "grace2@example.com", Username: "grace", Password: testPassword,
		FirstName: "G", LastName: "H",
	})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
}

// TestProtectedEndpointsRequireToken every authenticated route rejects a
// missing bearer token with 401.
func TestProtectedEndpointsRequireToken(t *testing.T) {
	client := setupServer(t)
	ctx := t.Context()

	user := registerUser(t, client, "heidi@example.com", "heidi")

	var apiErr *userdsdk.APIError

	_, err := client.GetUser(ctx, "", user.ID)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	_, err = client.ListUsers(ctx, "", 10, 0)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	err = client.DeleteUser(ctx, "garbage-token", user.ID)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

// TestResponsesNeverLeakPasswordHash the word "hash" or the stored
// credential must never appear in API responses.
func TestResponsesNeverLeakPasswordHash(t *testing.T) {
	client := setupServer(t)
	ctx := t.Context()

	user := registerUser(t, client, "ivan@example.com", "ivan")
	token := loginUser(t, client, "ivan@example.com")

	got, err := client.GetUser(ctx, token.AccessToken, user.ID)
	require.NoError(t, err)

	// UserResponse has no hash field; make sure nothing password-like
	// sneaks through the known fields either.
	assert.NotContains(t, got.Email, "argon2")
	assert.NotContains(t, got.Username, "argon2")
	assert.NotEqual(t, testPassword, got.FirstName)
}

// TestHealthEndpoints liveness and readiness respond without auth.
func TestHealthEndpoints(t *testing.T) {
	client := setupServer(t)
	ctx := t.Context()

	live, err := client.GetLiveness(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", live.Status)

	ready, err := client.GetReadiness(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", ready.Status)
	require.NotNil(t, ready.Checks)
	assert.Equal(t, "ok", ready.Checks.Database)
}
