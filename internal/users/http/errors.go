package http

import (
	"errors"
	"net/http"

	"github.com/pillarhq/userd/internal/users/domain"
	"github.com/pillarhq/userd/internal/users/service"
	"github.com/pillarhq/userd/internal/users/store"
	"github.com/pillarhq/userd/pkg/slogx"
	"github.com/pillarhq/userd/pkg/userdsdk"
)

// writeServiceError translates service and store errors into API
// responses. Unknown errors become a 500 and get logged with detail that
// never reaches the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		userdsdk.ErrValidation.WithMessage(err.Error()).WriteError(w)

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
		userdsdk.ErrUnauthorized.WriteError(w)

	case errors.Is(err, store.ErrNotFound):
		userdsdk.ErrNotFound.WriteError(w)

	case errors.Is(err, service.ErrEmailTaken):
		userdsdk.ErrAlreadyExists.WithMessage("email already registered").WriteError(w)

	case errors.Is(err, service.ErrUsernameTaken):
		userdsdk.ErrAlreadyExists.WithMessage("username already taken").WriteError(w)

	default:
		slogx.FromContext(r.Context()).Error("request failed",
			"path", r.URL.Path, "err", err)
		userdsdk.ErrServerError.WriteError(w)
	}
}
