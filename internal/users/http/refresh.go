package http

import (
	"net/http"

	"github.com/pillarhq/userd/internal/users/service"
	"github.com/pillarhq/userd/pkg/httpx"
	"github.com/pillarhq/userd/pkg/userdsdk"
)

type RefreshHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP handles the token refresh endpoint.
//
//	@Summary		Refresh an access token
//	@Description	Exchanges a still-valid bearer token for a fresh one with a new expiry.
//	@Description	Refreshing requires both subject and email claims. The old token remains
//	@Description	valid until its original expiry.
//	@Tags			Auth
//	@Produce		json
//	@Param			Authorization	header		string	true	"Bearer {token}"
//	@Success		200				{object}	userdsdk.TokenResponse
//	@Failure		401				{object}	userdsdk.APIError	"Invalid token or missing email claim"
//	@Router			/api/v1/auth/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token, ok := httpx.BearerToken(r)
	if !ok {
		writeServiceError(w, r, service.ErrInvalidToken)
		return
	}

	session, err := h.AuthService.RefreshToken(r.Context(), token)
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
