package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventplanner/internal/domain"
)

type invitationService struct {
	invitationRepo  domain.InvitationRepository
	eventRepo       domain.EventRepository
	participantRepo domain.ParticipantRepository
	userRepo        domain.UserRepository
	emailService    domain.EmailService
	logger          *slog.Logger
	contextTimeout  time.Duration
}

func NewInvitationService(invitationRepo domain.InvitationRepository,
	eventRepo domain.EventRepository,
	participantRepo domain.ParticipantRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.InvitationService {
	return &invitationService{
		invitationRepo:  invitationRepo,
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		userRepo:        userRepo,
		emailService:    emailService,
		logger:          logger,
		contextTimeout:  timeout,
	}
}

func (s *invitationService) Invite(ctx context.Context, eventID, invitedUserID, actorID string, message *string) (*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := domain.CanPerform(actorID, domain.ActionEventManageInvitations, event); err != nil {
		return nil, err
	}

	invited, err := s.userRepo.GetByID(ctx, invitedUserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get invited user: %w", err)
	}

	isParticipant, err := s.participantRepo.IsParticipant(ctx, eventID, invitedUserID)
	if err != nil {
		return nil, fmt.Errorf("check participant: %w", err)
	}
	if isParticipant {
		return nil, domain.ErrAlreadyParticipant
	}

	invitation := domain.NewInvitation(eventID, invitedUserID, actorID, message, time.Now())
	if err := s.invitationRepo.Create(ctx, invitation); err != nil {
		if errors.Is(err, domain.ErrAlreadyInvited) {
			return nil, domain.ErrAlreadyInvited
		}
		return nil, fmt.Errorf("create invitation: %w", err)
	}

	invitation.InvitedUsername = invited.Username
	invitation.InvitedEmail = invited.Email
	invitation.EventTitle = event.Title

	// A failed notification never fails the invite.
	if s.emailService != nil {
		inviter, err := s.userRepo.GetByID(ctx, actorID)
		inviterName := actorID
		if err == nil {
			inviterName = inviter.Username
		}
		note := ""
		if message != nil {
			note = *message
		}
		if err := s.emailService.SendEventInvitation(ctx, &domain.EventInvitationEmailData{
			Email:       invited.Email,
			InviterName: inviterName,
			EventTitle:  event.Title,
			Message:     note,
		}); err != nil {
			s.logger.WarnContext(ctx, "invitation email failed",
				"invitation_id", invitation.ID, "err", err)
		}
	}

	return invitation, nil
}

func (s *invitationService) ListForEvent(ctx context.Context, eventID, actorID string, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, fmt.Errorf("get event: %w", err)
	}
	if err := domain.CanPerform(actorID, domain.ActionEventManageInvitations, event); err != nil {
		return nil, 0, err
	}

	invitations, total, err := s.invitationRepo.ListByEventID(ctx, eventID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list invitations: %w", err)
	}
	if invitations == nil {
		invitations = []*domain.Invitation{}
	}
	return invitations, total, nil
}

func (s *invitationService) ListForUser(ctx context.Context, userID string) ([]*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	invitations, err := s.invitationRepo.ListPendingByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list pending invitations: %w", err)
	}
	if invitations == nil {
		invitations = []*domain.Invitation{}
	}
	return invitations, nil
}

func (s *invitationService) Respond(ctx context.Context, invitationID, actorID, decision string) (*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	invitation, err := s.invitationRepo.GetByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	if err := domain.CanPerform(actorID, domain.ActionInvitationRespond, invitation); err != nil {
		return nil, err
	}
	if invitation.Status != domain.InvitationPending {
		return nil, domain.ErrInvitationClosed
	}
	if time.Now().After(invitation.ExpiresAt) {
		// Lazily retire the row so the state we report matches storage.
		if _, err := s.invitationRepo.ExpirePending(ctx, time.Now()); err != nil {
			return nil, fmt.Errorf("expire invitations: %w", err)
		}
		return nil, domain.ErrInvitationClosed
	}

	switch decision {
	case domain.InvitationAccepted:
		err = s.invitationRepo.Accept(ctx, invitationID, invitation.EventID, invitation.InvitedUserID)
		invitation.Status = domain.InvitationAccepted
	case domain.InvitationDeclined:
		err = s.invitationRepo.Decline(ctx, invitationID)
		invitation.Status = domain.InvitationDeclined
	default:
		return nil, fmt.Errorf("%w: decision must be accepted or declined", domain.ErrInvalidInput)
	}
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound),
			errors.Is(err, domain.ErrInvitationClosed),
			errors.Is(err, domain.ErrAlreadyParticipant):
			return nil, err
		}
		return nil, fmt.Errorf("respond to invitation: %w", err)
	}
	invitation.UpdatedAt = time.Now()
	return invitation, nil
}

func (s *invitationService) Cancel(ctx context.Context, invitationID, actorID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	invitation, err := s.invitationRepo.GetByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get invitation: %w", err)
	}

	event, err := s.eventRepo.GetByID(ctx, invitation.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if err := domain.CanPerform(actorID, domain.ActionEventManageInvitations, event); err != nil {
		return err
	}

	if err := s.invitationRepo.DeletePending(ctx, invitationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvitationClosed) {
			return err
		}
		return fmt.Errorf("cancel invitation: %w", err)
	}
	return nil
}

func (s *invitationService) SweepExpired(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	expired, err := s.invitationRepo.ExpirePending(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("expire invitations: %w", err)
	}
	if expired > 0 {
		s.logger.InfoContext(ctx, "expired stale invitations", "count", expired)
	}
	return expired, nil
}
