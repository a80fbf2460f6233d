package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "eventplanner/internal/delivery/http/helpers"
	"eventplanner/internal/delivery/http/middleware"
	"eventplanner/internal/domain"
)

// CreateTaskRequest is the request body for POST /events/{eventID}/tasks.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	AssignedTo  *string    `json:"assigned_to"`
}

// Validate implements Validator.
func (c CreateTaskRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	return errs
}

// UpdateTaskRequest is the request body for PATCH /tasks/{taskID}. All fields
// optional; omitted fields are unchanged. Sending clear_due_date or
// clear_assigned_to as true nulls the respective field.
type UpdateTaskRequest struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	Status          *string    `json:"status"`
	Priority        *string    `json:"priority"`
	DueDate         *time.Time `json:"due_date"`
	ClearDueDate    bool       `json:"clear_due_date"`
	AssignedTo      *string    `json:"assigned_to"`
	ClearAssignedTo bool       `json:"clear_assigned_to"`
}

// Validate implements Validator.
func (u UpdateTaskRequest) Validate() []string {
	var errs []string
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		errs = append(errs, "title cannot be empty")
	}
	if u.DueDate != nil && u.ClearDueDate {
		errs = append(errs, "due_date and clear_due_date are mutually exclusive")
	}
	if u.AssignedTo != nil && u.ClearAssignedTo {
		errs = append(errs, "assigned_to and clear_assigned_to are mutually exclusive")
	}
	return errs
}

type TaskController struct {
	Logger  *slog.Logger
	Service domain.TaskService
}

func NewTaskController(logger *slog.Logger, svc domain.TaskService) *TaskController {
	return &TaskController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateTask godoc
// @Summary Create a task for an event
// @Description Creates a task scoped to the event. The authenticated user becomes the task owner. Requires authentication.
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body CreateTaskRequest true "Task data"
// @Success 201 {object} helpers.APIResponse "data contains the created task"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (roster membership required)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/tasks [post]
func (c *TaskController) CreateTask(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req CreateTaskRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	now := time.Now()
	task := domain.NewTask(eventID, userID, req.Title, req.Description, now, now)
	task.Status = req.Status
	task.Priority = req.Priority
	task.DueDate = req.DueDate
	task.AssignedTo = req.AssignedTo
	if err := c.Service.CreateTask(r.Context(), userID, task); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
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
	h.WriteJSONSuccess(w, http.StatusCreated, task)
}

// GetTaskByID godoc
// @Summary Get a task by ID
// @Description Returns the task. Requires authentication.
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param taskID path string true "Task ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the task"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tasks/{taskID} [get]
func (c *TaskController) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("taskID")
	if taskID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing taskID")
		return
	}
	task, err := c.Service.GetTaskByID(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "task not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, task)
}

// ListEventTasks godoc
// @Summary List tasks of an event
// @Description Returns all tasks scoped to the event, newest first. Requires authentication.
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data is an array of tasks"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/tasks [get]
func (c *TaskController) ListEventTasks(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	tasks, err := c.Service.ListTasksByEvent(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, tasks)
}

// ListMyTasks godoc
// @Summary List tasks owned by the current user
// @Description Returns tasks created by the authenticated user, newest first. Requires Bearer token.
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data is an array of tasks"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tasks/me [get]
func (c *TaskController) ListMyTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	tasks, err := c.Service.ListTasksByOwner(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, tasks)
}

// ListParticipatingTasks godoc
// @Summary List tasks visible to the current user as a participant
// @Description Returns tasks the authenticated user owns plus tasks of events where the user is on the roster, newest first. Requires Bearer token.
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data is an array of tasks"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tasks/participating [get]
func (c *TaskController) ListParticipatingTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	tasks, err := c.Service.ListTasksByParticipant(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, tasks)
}

// ListValidatedTasks godoc
// @Summary List tasks validated by the current user
// @Description Returns tasks whose validated_by is the authenticated user, newest first. Requires Bearer token.
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data is an array of tasks"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tasks/validated [get]
func (c *TaskController) ListValidatedTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	tasks, err := c.Service.ListTasksValidatedBy(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, tasks)
}

// UpdateTask godoc
// @Summary Update a task
// @Description Updates task fields. Only the task owner can update. Omitted fields are unchanged; clear_due_date and clear_assigned_to null the respective fields. Requires authentication.
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param taskID path string true "Task ID (UUID)"
// @Param body body UpdateTaskRequest true "Fields to update (all optional)"
// @Success 200 {object} helpers.APIResponse "data contains the updated task"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not task owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tasks/{taskID} [patch]
func (c *TaskController) UpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("taskID")
	if taskID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing taskID")
		return
	}
	var req UpdateTaskRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	task, err := c.Service.UpdateTask(r.Context(), taskID, actorID, domain.TaskPatch{
		Title:           req.Title,
		Description:     req.Description,
		Status:          req.Status,
		Priority:        req.Priority,
		DueDate:         req.DueDate,
		ClearDueDate:    req.ClearDueDate,
		AssignedTo:      req.AssignedTo,
		ClearAssignedTo: req.ClearAssignedTo,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "task not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
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
	h.WriteJSONSuccess(w, http.StatusOK, task)
}

// ValidateTask godoc
// @Summary Validate a task
// @Description Marks the task as validated by the authenticated user. A task can be validated at most once; a second validation returns 409 no matter who tries.
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param taskID path string true "Task ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the validated task"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already validated)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tasks/{taskID}/validate [post]
func (c *TaskController) ValidateTask(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("taskID")
	if taskID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing taskID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	task, err := c.Service.ValidateTask(r.Context(), taskID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "task not found")
			return
		}
		if errors.Is(err, domain.ErrAlreadyValidated) {
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "task is already validated")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, task)
}

// UnvalidateTask godoc
// @Summary Remove a task validation
// @Description Clears validated_by. Only the user who validated the task can unvalidate it.
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param taskID path string true "Task ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the task"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not the validator)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tasks/{taskID}/validate [delete]
func (c *TaskController) UnvalidateTask(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("taskID")
	if taskID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing taskID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	task, err := c.Service.UnvalidateTask(r.Context(), taskID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "task not found")
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
	h.WriteJSONSuccess(w, http.StatusOK, task)
}
