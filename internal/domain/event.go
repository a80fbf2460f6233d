package domain

import (
	"context"
	"time"
)

// Event represents a planned activity with an owner, time window, and
// location.
// swagger:model Event
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Location    *string    `json:"location"`
	OwnerID     string     `json:"owner_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is set by the
// repository on create.
func NewEvent(title, ownerID string, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Title:     title,
		OwnerID:   ownerID,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// EventPatch carries optional event fields for partial updates. Nil means
// leave unchanged.
type EventPatch struct {
	Title       *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Location    *string
}

// EventRepository defines the interface for event storage.
// Create also inserts the owner's roster entry in the same transaction;
// Delete removes participants, tasks, and invitations of the event in the
// same transaction.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]*Event, error)
	ListByParticipantID(ctx context.Context, userID string) ([]*Event, error)
	Update(ctx context.Context, id string, patch EventPatch) (*Event, error)
	Delete(ctx context.Context, id string) error
}

// EventService defines event and roster operations. Caller identity is the
// authenticated actor; ownership checks yield ErrForbidden.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEventByID(ctx context.Context, eventID string) (*Event, error)
	ListEventsByOwner(ctx context.Context, ownerID string) ([]*Event, error)
	ListEventsByParticipant(ctx context.Context, userID string) ([]*Event, error)
	UpdateEvent(ctx context.Context, eventID, actorID string, patch EventPatch) (*Event, error)
	DeleteEvent(ctx context.Context, eventID, actorID string) error

	AddParticipant(ctx context.Context, eventID, userID, actorID, role string) (*Participant, error)
	RemoveParticipant(ctx context.Context, eventID, userID, actorID string) error
	ListParticipants(ctx context.Context, eventID string) ([]*Participant, error)
}
