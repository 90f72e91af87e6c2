package userdsdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// CreateUser registers a new user. This endpoint does not require
// authentication.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/v1/users", "", req)
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeJSON(resp, &user, http.StatusCreated); err != nil {
		return nil, err
	}

	return &user, nil
}

// GetUser fetches a single user by ID.
func (c *Client) GetUser(ctx context.Context, token, userID string) (*UserResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, "/api/v1/users/"+url.PathEscape(userID), token, nil)
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}

	return &user, nil
}

// ListUsers fetches a page of users.
func (c *Client) ListUsers(ctx context.Context, token string, limit, offset int) (*UserListResponse, error) {
	path := fmt.Sprintf("/api/v1/users?limit=%d&offset=%d", limit, offset)
	resp, err := c.doJSON(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}

	var list UserListResponse
	if err := decodeJSON(resp, &list, http.StatusOK); err != nil {
		return nil, err
	}

	return &list, nil
}

// UpdateUser updates a user's profile fields. Nil fields in the request
// are left unchanged.
func (c *Client) UpdateUser(ctx context.Context, token, userID string, req UpdateUserRequest) (*UserResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPut, "/api/v1/users/"+url.PathEscape(userID), token, req)
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}

	return &user, nil
}

// DeleteUser permanently removes a user.
func (c *Client) DeleteUser(ctx context.Context, token, userID string) error {
	resp, err := c.doJSON(ctx, http.MethodDelete, "/api/v1/users/"+url.PathEscape(userID), token, nil)
	if err != nil {
		return err
	}

	return checkStatusNoContent(resp)
}

// ActivateUser marks a user account as active, allowing it to authenticate.
func (c *Client) ActivateUser(ctx context.Context, token, userID string) (*UserResponse, error) {
	return c.setActive(ctx, token, userID, "activate")
}

// DeactivateUser marks a user account as inactive. Inactive accounts cannot
// log in but their data is retained.
func (c *Client) DeactivateUser(ctx context.Context, token, userID string) (*UserResponse, error) {
	return c.setActive(ctx, token, userID, "deactivate")
}

func (c *Client) setActive(ctx context.Context, token, userID, action string) (*UserResponse, error) {
	path := "/api/v1/users/" + url.PathEscape(userID) + "/" + action
	resp, err := c.doJSON(ctx, http.MethodPost, path, token, nil)
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}

	return &user, nil
}
