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

// InviteRequest is the request body for POST /events/{eventID}/invitations.
type InviteRequest struct {
	UserID  string  `json:"user_id"`
	Message *string `json:"message"`
}

// Validate implements Validator.
func (i InviteRequest) Validate() []string {
	if strings.TrimSpace(i.UserID) == "" {
		return []string{"user_id is required"}
	}
	return nil
}

// RespondInvitationRequest is the request body for POST /invitations/{invitationID}/respond.
type RespondInvitationRequest struct {
	Decision string `json:"decision"`
}

// Validate implements Validator.
func (r RespondInvitationRequest) Validate() []string {
	if r.Decision != domain.InvitationAccepted && r.Decision != domain.InvitationDeclined {
		return []string{"decision must be \"accepted\" or \"declined\""}
	}
	return nil
}

// ListEventInvitationsResponse is the data payload for GET /events/{eventID}/invitations (200).
type ListEventInvitationsResponse struct {
	Items      []*domain.Invitation `json:"items"`
	Pagination h.PaginationMeta     `json:"pagination"`
}

// CancelInvitationResponse is the data payload for DELETE /invitations/{invitationID} (200).
type CancelInvitationResponse struct {
	Status string `json:"status"`
}

// SweepExpiredResponse is the data payload for POST /invitations/sweep (200).
type SweepExpiredResponse struct {
	Expired int64 `json:"expired"`
}

type InvitationController struct {
	Logger  *slog.Logger
	Service domain.InvitationService
}

func NewInvitationController(logger *slog.Logger, svc domain.InvitationService) *InvitationController {
	return &InvitationController{
		Logger:  logger,
		Service: svc,
	}
}

// Invite godoc
// @Summary Invite a user to an event
// @Description Creates a pending invitation for the user and sends a notification email (best effort). Only the event owner can invite. A user can hold at most one pending invitation per event, and users already on the roster cannot be invited. Invitations expire after 7 days.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body InviteRequest true "User to invite and optional message"
// @Success 201 {object} helpers.APIResponse "data contains the created invitation"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (event or user)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (pending invitation exists or already participant)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/invitations [post]
func (c *InvitationController) Invite(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req InviteRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	invitation, err := c.Service.Invite(r.Context(), eventID, req.UserID, actorID, req.Message)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "user not found")
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
			return
		}
		if errors.Is(err, domain.ErrAlreadyInvited) {
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "user already has a pending invitation")
			return
		}
		if errors.Is(err, domain.ErrAlreadyParticipant) {
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "user is already a participant")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, invitation)
}

// ListEventInvitations godoc
// @Summary List invitations for an event
// @Description Returns a paginated list of invitations for the event, any status, newest first. Only the event owner can list. Use page and page_size query params. Requires authentication.
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains items and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/invitations [get]
func (c *InvitationController) ListEventInvitations(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	params := h.ParsePagination(r)
	invitations, total, err := c.Service.ListForEvent(r.Context(), eventID, actorID, params)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	meta := h.NewPaginationMeta(params.Page, params.PageSize, total)
	h.WriteJSONSuccess(w, http.StatusOK, ListEventInvitationsResponse{Items: invitations, Pagination: meta})
}

// ListMyInvitations godoc
// @Summary List the current user's pending invitations
// @Description Returns pending, unexpired invitations addressed to the authenticated user, newest first. Requires Bearer token.
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data is an array of invitations"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations/me [get]
func (c *InvitationController) ListMyInvitations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	invitations, err := c.Service.ListForUser(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, invitations)
}

// Respond godoc
// @Summary Accept or decline an invitation
// @Description The invited user accepts or declines a pending invitation. Accepting adds the user to the event roster in the same transaction. Expired or already-handled invitations return 409.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param invitationID path string true "Invitation ID (UUID)"
// @Param body body RespondInvitationRequest true "Decision: accepted or declined"
// @Success 200 {object} helpers.APIResponse "data contains the updated invitation"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not the invited user)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (invitation closed or already participant)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations/{invitationID}/respond [post]
func (c *InvitationController) Respond(w http.ResponseWriter, r *http.Request) {
	invitationID := r.PathValue("invitationID")
	if invitationID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing invitationID")
		return
	}
	var req RespondInvitationRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	invitation, err := c.Service.Respond(r.Context(), invitationID, actorID, req.Decision)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "invitation not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
			return
		}
		if errors.Is(err, domain.ErrInvitationClosed) {
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "invitation is no longer pending")
			return
		}
		if errors.Is(err, domain.ErrAlreadyParticipant) {
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "user is already a participant")
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
	h.WriteJSONSuccess(w, http.StatusOK, invitation)
}

// Cancel godoc
// @Summary Cancel a pending invitation
// @Description Deletes a pending invitation. Only the event owner can cancel. Already-handled invitations return 409.
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param invitationID path string true "Invitation ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (invitation no longer pending)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations/{invitationID} [delete]
func (c *InvitationController) Cancel(w http.ResponseWriter, r *http.Request) {
	invitationID := r.PathValue("invitationID")
	if invitationID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing invitationID")
		return
	}
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.Cancel(r.Context(), invitationID, actorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "invitation not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
			return
		}
		if errors.Is(err, domain.ErrInvitationClosed) {
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "invitation is no longer pending")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, CancelInvitationResponse{Status: "cancelled"})
}

// SweepExpired godoc
// @Summary Expire stale invitations
// @Description Marks all pending invitations past their expiry as expired and returns the count. Admin only. The same sweep also runs periodically in the background.
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the number of expired invitations"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not admin)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations/sweep [post]
func (c *InvitationController) SweepExpired(w http.ResponseWriter, r *http.Request) {
	expired, err := c.Service.SweepExpired(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, SweepExpiredResponse{Expired: expired})
}
