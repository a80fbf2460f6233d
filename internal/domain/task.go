package domain

import (
	"context"
	"time"
)

// Task is a unit of work scoped to an event. Status, priority, due date, and
// assignee are free-form; ValidatedBy records who confirmed the task.
// swagger:model Task
type Task struct {
	ID          string     `json:"id"`
	EventID     string     `json:"event_id"`
	OwnerID     string     `json:"owner_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	AssignedTo  *string    `json:"assigned_to"`
	ValidatedBy *string    `json:"validated_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTask returns a new Task. ID is set by the repository on create.
func NewTask(eventID, ownerID, title string, description *string, createdAt, updatedAt time.Time) *Task {
	return &Task{
		EventID:     eventID,
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// TaskPatch carries optional task fields for partial updates. Nil means
// leave unchanged. ClearDueDate and ClearAssignedTo null the respective
// columns explicitly.
type TaskPatch struct {
	Title           *string
	Description     *string
	Status          *string
	Priority        *string
	DueDate         *time.Time
	ClearDueDate    bool
	AssignedTo      *string
	ClearAssignedTo bool
}

// TaskRepository defines task storage. Validate and Unvalidate are single
// conditional updates so concurrent callers race in the database, not in
// application code.
type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	GetByID(ctx context.Context, id string) (*Task, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Task, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]*Task, error)
	// ListByParticipantID returns tasks owned by the user plus tasks of
	// events where the user is on the roster.
	ListByParticipantID(ctx context.Context, userID string) ([]*Task, error)
	ListValidatedBy(ctx context.Context, userID string) ([]*Task, error)
	Update(ctx context.Context, id string, patch TaskPatch) (*Task, error)
	// Validate sets validated_by to validatorID only while it is NULL;
	// returns ErrAlreadyValidated when another validator won.
	Validate(ctx context.Context, id, validatorID string) (*Task, error)
	// Unvalidate clears validated_by only when it equals validatorID;
	// returns ErrForbidden otherwise.
	Unvalidate(ctx context.Context, id, validatorID string) (*Task, error)
}

// TaskService defines task operations. CreateTask checks event existence;
// roster membership is enforced only when the service was built with
// RequireParticipant.
type TaskService interface {
	CreateTask(ctx context.Context, actorID string, task *Task) error
	GetTaskByID(ctx context.Context, taskID string) (*Task, error)
	ListTasksByEvent(ctx context.Context, eventID string) ([]*Task, error)
	ListTasksByOwner(ctx context.Context, ownerID string) ([]*Task, error)
	ListTasksByParticipant(ctx context.Context, userID string) ([]*Task, error)
	ListTasksValidatedBy(ctx context.Context, userID string) ([]*Task, error)
	UpdateTask(ctx context.Context, taskID, actorID string, patch TaskPatch) (*Task, error)
	ValidateTask(ctx context.Context, taskID, actorID string) (*Task, error)
	UnvalidateTask(ctx context.Context, taskID, actorID string) (*Task, error)
}
