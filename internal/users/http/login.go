package http

import (
	"net/http"

	"github.com/pillarhq/userd/internal/users/service"
	"github.com/pillarhq/userd/pkg/httpx"
	"github.com/pillarhq/userd/pkg/userdsdk"
)

type LoginHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP handles the login endpoint.
//
//	@Summary		Authenticate with email and password
//	@Description	Exchanges an email/password pair for a short-lived bearer access token.
//	@Description	All credential failures return the same 401 so accounts cannot be enumerated.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		userdsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	userdsdk.TokenResponse
//	@Failure		400		{object}	userdsdk.APIError	"Malformed request body"
//	@Failure		401		{object}	userdsdk.APIError	"Invalid credentials"
//	@Failure		429		{object}	userdsdk.APIError	"Rate limit exceeded"
//	@Router			/api/v1/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req userdsdk.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		userdsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.Email == "" || req.Password == "" {
		userdsdk.ErrInvalidRequest.WithMessage("email and password are required").WriteError(w)
		return
	}

	session, err := h.AuthService.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, userdsdk.TokenResponse{
		AccessToken: session.AccessToken,
		TokenType:   session.TokenType,
		UserID:      session.UserID,
		Email:       session.Email,
		ExpiresAt:   session.ExpiresAt,
	})
}
