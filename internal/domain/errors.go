package domain

import "errors"

// Sentinel errors shared across services and repositories. Repositories map
// driver-level conditions (sql.ErrNoRows, unique violations) onto these so
// the HTTP layer can translate them with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")

	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")

	// ErrAlreadyParticipant is returned when adding a user who already has a
	// roster entry for the event.
	ErrAlreadyParticipant = errors.New("already a participant")

	// ErrNotParticipant is returned when removing a user who has no roster
	// entry for the event.
	ErrNotParticipant = errors.New("not a participant")

	// ErrOwnerParticipant is returned when trying to remove the event owner
	// from the roster.
	ErrOwnerParticipant = errors.New("cannot remove the event owner")

	// ErrAlreadyInvited is returned when a pending invitation already exists
	// for the (event, user) pair.
	ErrAlreadyInvited = errors.New("already invited")

	// ErrInvitationClosed is returned when responding to or cancelling an
	// invitation that is no longer pending.
	ErrInvitationClosed = errors.New("invitation already handled or expired")

	// ErrAlreadyValidated is returned when validating a task whose
	// validated_by is already set.
	ErrAlreadyValidated = errors.New("task already validated")
)
