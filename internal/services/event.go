package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventplanner/internal/domain"
)

type eventService struct {
	eventRepo       domain.EventRepository
	participantRepo domain.ParticipantRepository
	userRepo        domain.UserRepository
	contextTimeout  time.Duration
}

func NewEventService(eventRepo domain.EventRepository,
	participantRepo domain.ParticipantRepository,
	userRepo domain.UserRepository,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		userRepo:        userRepo,
		contextTimeout:  timeout,
	}
}

// validateWindow enforces end >= start when both bounds are set.
func validateWindow(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return fmt.Errorf("%w: end_date before start_date", domain.ErrInvalidInput)
	}
	return nil
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if strings.TrimSpace(event.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if event.OwnerID == "" {
		return fmt.Errorf("%w: event owner is required", domain.ErrInvalidInput)
	}
	if err := validateWindow(event.StartDate, event.EndDate); err != nil {
		return err
	}

	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()

	return s.eventRepo.Create(ctx, event)
}

func (s *eventService) GetEventByID(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListEventsByOwner(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.ListByOwnerID(ctx, ownerID)
}

func (s *eventService) ListEventsByParticipant(ctx context.Context, userID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.ListByParticipantID(ctx, userID)
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID, actorID string, patch domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := domain.CanPerform(actorID, domain.ActionEventMutate, event); err != nil {
		return nil, err
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrInvalidInput)
	}

	// Revalidate the window against the merged result.
	start := event.StartDate
	if patch.StartDate != nil {
		start = patch.StartDate
	}
	end := event.EndDate
	if patch.EndDate != nil {
		end = patch.EndDate
	}
	if err := validateWindow(start, end); err != nil {
		return nil, err
	}

	updated, err := s.eventRepo.Update(ctx, eventID, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID, actorID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if err := domain.CanPerform(actorID, domain.ActionEventMutate, event); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) AddParticipant(ctx context.Context, eventID, userID, actorID, role string) (*domain.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := domain.CanPerform(actorID, domain.ActionEventManageParticipants, event); err != nil {
		return nil, err
	}
	if role == "" {
		role = domain.ParticipantRoleMember
	}
	if role != domain.ParticipantRoleMember {
		// The owner row is created with the event and is unique.
		return nil, fmt.Errorf("%w: role must be %q", domain.ErrInvalidInput, domain.ParticipantRoleMember)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := s.participantRepo.Add(ctx, eventID, userID, role); err != nil {
		if errors.Is(err, domain.ErrAlreadyParticipant) {
			return nil, domain.ErrAlreadyParticipant
		}
		return nil, fmt.Errorf("add participant: %w", err)
	}

	return &domain.Participant{
		EventID:  eventID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now(),
		Username: user.Username,
		Email:    user.Email,
	}, nil
}

func (s *eventService) RemoveParticipant(ctx context.Context, eventID, userID, actorID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if err := domain.CanPerform(actorID, domain.ActionEventManageParticipants, event); err != nil {
		return err
	}
	if userID == event.OwnerID {
		return domain.ErrOwnerParticipant
	}
	if err := s.participantRepo.Remove(ctx, eventID, userID); err != nil {
		if errors.Is(err, domain.ErrNotParticipant) {
			return domain.ErrNotParticipant
		}
		return fmt.Errorf("remove participant: %w", err)
	}
	return nil
}

func (s *eventService) ListParticipants(ctx context.Context, eventID string) ([]*domain.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	participants, err := s.participantRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	if participants == nil {
		participants = []*domain.Participant{}
	}
	return participants, nil
}
