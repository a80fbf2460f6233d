package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "eventplanner/internal/delivery/http/helpers"
	"eventplanner/internal/delivery/http/middleware"
	"eventplanner/internal/domain"
)

// UpdateProfileRequest is the request body for PATCH /users/me. All fields
// optional; omitted fields are unchanged.
type UpdateProfileRequest struct {
	Username  *string `json:"username"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// Validate implements Validator.
func (u UpdateProfileRequest) Validate() []string {
	var errs []string
	if u.Username != nil && strings.TrimSpace(*u.Username) == "" {
		errs = append(errs, "username cannot be empty")
	}
	return errs
}

type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

// GetMe godoc
// @Summary Get the current user's profile
// @Description Returns the authenticated user's profile. Requires Bearer token.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the user"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/me [get]
func (c *UserController) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	user, err := c.Service.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "user not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, user)
}

// UpdateMe godoc
// @Summary Update the current user's profile
// @Description Updates username, first name, and last name. Omitted fields are unchanged. Requires Bearer token.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateProfileRequest true "Fields to update (all optional)"
// @Success 200 {object} helpers.APIResponse "data contains the updated user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (username taken)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/me [patch]
func (c *UserController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req UpdateProfileRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.Update(r.Context(), userID, domain.UserPatch{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "user not found")
			return
		}
		if errors.Is(err, domain.ErrDuplicateEmail) {
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "username already taken")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, user)
}

// GetUserByID godoc
// @Summary Get a user by ID
// @Description Returns a user's public profile. Requires Bearer token.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the user"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID} [get]
func (c *UserController) GetUserByID(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if userID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing userID")
		return
	}
	user, err := c.Service.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "user not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, user)
}

// GetUserByUsername godoc
// @Summary Get a user by username
// @Description Returns a user's public profile looked up by username. Requires Bearer token.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} helpers.APIResponse "data contains the user"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/username/{username} [get]
func (c *UserController) GetUserByUsername(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if username == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing username")
		return
	}
	user, err := c.Service.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "user not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, user)
}

// SearchUsers godoc
// @Summary Search users
// @Description Searches users by username, email, first name, or last name (case-insensitive substring). Optional exclude_event filters out users already on that event's roster. Requires Bearer token.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search term"
// @Param exclude_event query string false "Event ID whose roster members are excluded"
// @Success 200 {object} helpers.APIResponse "data is an array of users"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/search [get]
func (c *UserController) SearchUsers(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(term) < 2 {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "q must be at least 2 characters")
		return
	}
	excludeEventID := strings.TrimSpace(r.URL.Query().Get("exclude_event"))
	users, err := c.Service.Search(r.Context(), term, excludeEventID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	if users == nil {
		users = []*domain.User{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, users)
}

// ListUsers godoc
// @Summary List users by role or active flag
// @Description Returns users filtered by role or active status. Admin only. Exactly one of role or active must be provided.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param role query string false "Role filter: user, admin, or superadmin"
// @Param active query bool false "Active filter"
// @Success 200 {object} helpers.APIResponse "data is an array of users"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not admin)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users [get]
func (c *UserController) ListUsers(w http.ResponseWriter, r *http.Request) {
	role := strings.TrimSpace(r.URL.Query().Get("role"))
	activeParam := strings.TrimSpace(r.URL.Query().Get("active"))
	if (role == "") == (activeParam == "") {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "exactly one of role or active is required")
		return
	}

	var (
		users []*domain.User
		err   error
	)
	if role != "" {
		users, err = c.Service.ListByRole(r.Context(), role)
	} else {
		switch activeParam {
		case "true":
			users, err = c.Service.ListByActive(r.Context(), true)
		case "false":
			users, err = c.Service.ListByActive(r.Context(), false)
		default:
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "active must be true or false")
			return
		}
	}
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	if users == nil {
		users = []*domain.User{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, users)
}
