package userdsdk

import (
	"context"
	"net/http"
)

// Login exchanges an email and password for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var token TokenResponse
	if err := decodeJSON(resp, &token, http.StatusOK); err != nil {
		return nil, err
	}

	return &token, nil
}

// Verify checks whether an access token is valid and returns the identity
// it carries.
func (c *Client) Verify(ctx context.Context, token string) (*VerifyResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/verify", token, nil)
	if err != nil {
		return nil, err
	}

	var result VerifyResponse
	if err := decodeJSON(resp, &result, http.StatusOK); err != nil {
		return nil, err
	}

	return &result, nil
}

// Refresh exchanges a still-valid access token for a fresh one with a new
// expiry.
func (c *Client) Refresh(ctx context.Context, token string) (*TokenResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/refresh", token, nil)
	if err != nil {
		return nil, err
	}

	var fresh TokenResponse
	if err := decodeJSON(resp, &fresh, http.StatusOK); err != nil {
		return nil, err
	}

	return &fresh, nil
}
