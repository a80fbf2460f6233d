package domain

import (
	"context"
	"time"
)

// Participant roles on an event roster.
const (
	ParticipantRoleOwner  = "owner"
	ParticipantRoleMember = "participant"
)

// Participant is a user on an event's roster. Username and Email are display
// fields joined from the users table on reads.
// swagger:model Participant
type Participant struct {
	EventID  string    `json:"event_id"`
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
	Username string    `json:"username,omitempty"`
	Email    string    `json:"email,omitempty"`
}

// ParticipantRepository defines roster storage. Exactly one owner row exists
// per event, inserted by EventRepository.Create.
type ParticipantRepository interface {
	Add(ctx context.Context, eventID, userID, role string) error
	Remove(ctx context.Context, eventID, userID string) error
	ListByEventID(ctx context.Context, eventID string) ([]*Participant, error)
	IsParticipant(ctx context.Context, eventID, userID string) (bool, error)
}
