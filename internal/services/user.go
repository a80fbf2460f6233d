package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventplanner/internal/domain"
)

const searchLimit = 20

type userService struct {
	userRepo        domain.UserRepository
	participantRepo domain.ParticipantRepository
	contextTimeout  time.Duration
}

func NewUserService(userRepo domain.UserRepository,
	participantRepo domain.ParticipantRepository,
	timeout time.Duration,
) domain.UserService {
	return &userService{
		userRepo:        userRepo,
		participantRepo: participantRepo,
		contextTimeout:  timeout,
	}
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if patch.Username != nil && strings.TrimSpace(*patch.Username) == "" {
		return nil, fmt.Errorf("%w: username cannot be empty", domain.ErrInvalidInput)
	}

	user, err := s.userRepo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *userService) Search(ctx context.Context, term, excludeEventID string) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	term = strings.TrimSpace(term)
	if term == "" {
		return []*domain.User{}, nil
	}

	users, err := s.userRepo.Search(ctx, term, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	if excludeEventID == "" {
		return users, nil
	}

	participants, err := s.participantRepo.ListByEventID(ctx, excludeEventID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	onRoster := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		onRoster[p.UserID] = struct{}{}
	}
	filtered := make([]*domain.User, 0, len(users))
	for _, u := range users {
		if _, ok := onRoster[u.ID]; !ok {
			filtered = append(filtered, u)
		}
	}
	return filtered, nil
}

func (s *userService) ListByRole(ctx context.Context, role string) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !domain.ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}
	users, err := s.userRepo.ListByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	if users == nil {
		users = []*domain.User{}
	}
	return users, nil
}

func (s *userService) ListByActive(ctx context.Context, active bool) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	users, err := s.userRepo.ListByActive(ctx, active)
	if err != nil {
		return nil, fmt.Errorf("list users by active: %w", err)
	}
	if users == nil {
		users = []*domain.User{}
	}
	return users, nil
}
