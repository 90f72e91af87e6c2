package http

import (
	"net/http"
	"strconv"

	"github.com/pillarhq/userd/internal/users/domain"
	"github.com/pillarhq/userd/internal/users/service"
	"github.com/pillarhq/userd/pkg/httpx"
	"github.com/pillarhq/userd/pkg/userdsdk"
)

type UsersHandler struct {
	UserService *service.UserService
}

func toUserResponse(u domain.User) userdsdk.UserResponse {
	return userdsdk.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// HandleCreate handles user registration.
//
//	@Summary		Register a new user
//	@Description	Creates a user account. New accounts start active. Email and username
//	@Description	must be unique; the email is normalized to lowercase before storage.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		userdsdk.CreateUserRequest	true	"New user"
//	@Success		201		{object}	userdsdk.UserResponse
//	@Failure		400		{object}	userdsdk.APIError	"Validation failure"
//	@Failure		409		{object}	userdsdk.APIError	"Email or username already taken"
//	@Router			/api/v1/users [post].
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req userdsdk.CreateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		userdsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.UserService.Create(r.Context(), service.CreateUserParams{
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

// HandleGet handles fetching a single user.
//
//	@Summary	Get a user by ID
//	@Tags		Users
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"User ID"
//	@Success	200	{object}	userdsdk.UserResponse
//	@Failure	401	{object}	userdsdk.APIError	"Invalid or missing access token"
//	@Failure	404	{object}	userdsdk.APIError	"User not found"
//	@Router		/api/v1/users/{id} [get].
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleList handles listing users with pagination.
//
//	@Summary		List users
//	@Description	Returns a page of users ordered by creation date. Limit defaults to 50
//	@Description	and is capped at 200.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Param			limit	query		int	false	"Page size"
//	@Param			offset	query		int	false	"Rows to skip"
//	@Success		200		{object}	userdsdk.UserListResponse
//	@Failure		401		{object}	userdsdk.APIError	"Invalid or missing access token"
//	@Router			/api/v1/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	list, err := h.UserService.List(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	users := make([]userdsdk.UserResponse, 0, len(list.Users))
	for _, u := range list.Users {
		users = append(users, toUserResponse(u))
	}

	httpx.WriteJSON(w, http.StatusOK, userdsdk.UserListResponse{
		Users:  users,
		Total:  list.Total,
		Limit:  list.Limit,
		Offset: list.Offset,
	})
}

// HandleUpdate handles profile updates.
//
//	@Summary		Update a user's profile
//	@Description	Updates first and/or last name. Omitted fields are left unchanged.
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"User ID"
//	@Param			request	body		userdsdk.UpdateUserRequest	true	"Fields to update"
//	@Success		200		{object}	userdsdk.UserResponse
//	@Failure		400		{object}	userdsdk.APIError	"Validation failure"
//	@Failure		401		{object}	userdsdk.APIError	"Invalid or missing access token"
//	@Failure		404		{object}	userdsdk.APIError	"User not found"
//	@Router			/api/v1/users/{id} [put].
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req userdsdk.UpdateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		userdsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.UserService.Update(r.Context(), r.PathValue("id"), service.UpdateUserParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleDelete handles permanent user removal.
//
//	@Summary	Delete a user
//	@Tags		Users
//	@Security	BearerAuth
//	@Param		id	path	string	true	"User ID"
//	@Success	204	"Deleted"
//	@Failure	401	{object}	userdsdk.APIError	"Invalid or missing access token"
//	@Failure	404	{object}	userdsdk.APIError	"User not found"
//	@Router		/api/v1/users/{id} [delete].
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.UserService.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleActivate handles reactivating an account.
//
//	@Summary	Activate a user account
//	@Tags		Users
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"User ID"
//	@Success	200	{object}	userdsdk.UserResponse
//	@Failure	401	{object}	userdsdk.APIError	"Invalid or missing access token"
//	@Failure	404	{object}	userdsdk.APIError	"User not found"
//	@Router		/api/v1/users/{id}/activate [post].
func (h *UsersHandler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.Activate(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleDeactivate handles deactivating an account.
//
//	@Summary		Deactivate a user account
//	@Description	Deactivated accounts cannot log in but their data is retained.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"User ID"
//	@Success		200	{object}	userdsdk.UserResponse
//	@Failure		401	{object}	userdsdk.APIError	"Invalid or missing access token"
//	@Failure		404	{object}	userdsdk.APIError	"User not found"
//	@Router			/api/v1/users/{id}/deactivate [post].
func (h *UsersHandler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.Deactivate(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}
