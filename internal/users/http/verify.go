package http

import (
	"net/http"

	"github.com/pillarhq/userd/internal/users/service"
	"github.com/pillarhq/userd/pkg/httpx"
	"github.com/pillarhq/userd/pkg/userdsdk"
)

type VerifyHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP handles the token verification endpoint.
//
//	@Summary		Verify an access token
//	@Description	Validates the bearer token from the Authorization header and returns
//	@Description	the identity it carries. Tokens without an email claim are still valid.
//	@Tags			Auth
//	@Produce		json
//	@Param			Authorization	header		string	true	"Bearer {token}"
//	@Success		200				{object}	userdsdk.VerifyResponse
//	@Failure		401				{object}	userdsdk.APIError	"Missing, malformed, expired or tampered token"
//	@Router			/api/v1/auth/verify [post].
func (h *VerifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token, ok := httpx.BearerToken(r)
	if !ok {
		writeServiceError(w, r, service.ErrInvalidToken)
		return
	}

	info, err := h.AuthService.VerifyToken(r.Context(), token)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, userdsdk.VerifyResponse{
		Valid:     true,
		UserID:    info.UserID,
		Email:     info.Email,
		ExpiresAt: info.ExpiresAt,
	})
}
