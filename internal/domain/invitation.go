package domain

import (
	"context"
	"time"
)

// Invitation statuses. Transitions are one-way from pending; a pending
// invitation may also be deleted via cancel.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationDeclined = "declined"
	InvitationExpired  = "expired"
)

// InvitationTTL is the default lifetime of a pending invitation.
const InvitationTTL = 7 * 24 * time.Hour

// Invitation is a pending offer for a user to join an event's roster.
// InvitedUsername, InvitedEmail, and EventTitle are display fields joined on
// reads.
// swagger:model Invitation
type Invitation struct {
	ID            string    `json:"id"`
	EventID       string    `json:"event_id"`
	InvitedUserID string    `json:"invited_user_id"`
	InviterID     string    `json:"inviter_id"`
	Message       *string   `json:"message"`
	Status        string    `json:"status"`
	ExpiresAt     time.Time `json:"expires_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	InvitedUsername string `json:"invited_username,omitempty"`
	InvitedEmail    string `json:"invited_email,omitempty"`
	EventTitle      string `json:"event_title,omitempty"`
}

// NewInvitation returns a pending Invitation expiring InvitationTTL from
// now. ID is set by the repository on create.
func NewInvitation(eventID, invitedUserID, inviterID string, message *string, now time.Time) *Invitation {
	return &Invitation{
		EventID:       eventID,
		InvitedUserID: invitedUserID,
		InviterID:     inviterID,
		Message:       message,
		Status:        InvitationPending,
		ExpiresAt:     now.Add(InvitationTTL),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// InvitationRepository defines invitation storage. Status changes are
// conditional on the row still being pending; callers get
// ErrInvitationClosed when the row was already handled.
type InvitationRepository interface {
	Create(ctx context.Context, inv *Invitation) error
	GetByID(ctx context.Context, id string) (*Invitation, error)
	ListByEventID(ctx context.Context, eventID string, params PaginationParams) ([]*Invitation, int, error)
	ListPendingByUserID(ctx context.Context, userID string) ([]*Invitation, error)
	// Decline flips a pending invitation to declined.
	Decline(ctx context.Context, id string) error
	// Accept flips a pending invitation to accepted and inserts the roster
	// entry in the same transaction; a duplicate roster entry rolls both back
	// with ErrAlreadyParticipant.
	Accept(ctx context.Context, id, eventID, userID string) error
	// DeletePending removes a pending invitation (cancel).
	DeletePending(ctx context.Context, id string) error
	// ExpirePending marks all pending invitations past their expiry as
	// expired and returns the number of rows updated. Idempotent.
	ExpirePending(ctx context.Context, now time.Time) (int64, error)
}

// InvitationService defines the invitation lifecycle.
type InvitationService interface {
	Invite(ctx context.Context, eventID, userID, actorID string, message *string) (*Invitation, error)
	ListForEvent(ctx context.Context, eventID, actorID string, params PaginationParams) ([]*Invitation, int, error)
	ListForUser(ctx context.Context, userID string) ([]*Invitation, error)
	// Respond handles decision "accepted" or "declined" by the invited user.
	Respond(ctx context.Context, invitationID, actorID, decision string) (*Invitation, error)
	Cancel(ctx context.Context, invitationID, actorID string) error
	SweepExpired(ctx context.Context) (int64, error)
}
