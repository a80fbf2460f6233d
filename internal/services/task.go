package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventplanner/internal/domain"
)

type taskService struct {
	taskRepo           domain.TaskRepository
	eventRepo          domain.EventRepository
	participantRepo    domain.ParticipantRepository
	requireParticipant bool
	contextTimeout     time.Duration
}

// NewTaskService builds a TaskService. When requireParticipant is set,
// creating a task demands roster membership on the target event.
func NewTaskService(taskRepo domain.TaskRepository,
	eventRepo domain.EventRepository,
	participantRepo domain.ParticipantRepository,
	requireParticipant bool,
	timeout time.Duration,
) domain.TaskService {
	return &taskService{
		taskRepo:           taskRepo,
		eventRepo:          eventRepo,
		participantRepo:    participantRepo,
		requireParticipant: requireParticipant,
		contextTimeout:     timeout,
	}
}

func (s *taskService) CreateTask(ctx context.Context, actorID string, task *domain.Task) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if strings.TrimSpace(task.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if task.EventID == "" {
		return fmt.Errorf("%w: event_id is required", domain.ErrInvalidInput)
	}

	if _, err := s.eventRepo.GetByID(ctx, task.EventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}

	if s.requireParticipant {
		isParticipant, err := s.participantRepo.IsParticipant(ctx, task.EventID, actorID)
		if err != nil {
			return fmt.Errorf("check participant: %w", err)
		}
		if !isParticipant {
			return domain.ErrForbidden
		}
	}

	task.OwnerID = actorID
	task.ValidatedBy = nil
	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()

	return s.taskRepo.Create(ctx, task)
}

func (s *taskService) GetTaskByID(ctx context.Context, taskID string) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

func (s *taskService) ListTasksByEvent(ctx context.Context, eventID string) ([]*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return s.list(s.taskRepo.ListByEventID(ctx, eventID))
}

func (s *taskService) ListTasksByOwner(ctx context.Context, ownerID string) ([]*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.list(s.taskRepo.ListByOwnerID(ctx, ownerID))
}

func (s *taskService) ListTasksByParticipant(ctx context.Context, userID string) ([]*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.list(s.taskRepo.ListByParticipantID(ctx, userID))
}

func (s *taskService) ListTasksValidatedBy(ctx context.Context, userID string) ([]*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.list(s.taskRepo.ListValidatedBy(ctx, userID))
}

func (s *taskService) list(tasks []*domain.Task, err error) ([]*domain.Task, error) {
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, nil
}

func (s *taskService) UpdateTask(ctx context.Context, taskID, actorID string, patch domain.TaskPatch) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	if err := domain.CanPerform(actorID, domain.ActionTaskMutate, task); err != nil {
		return nil, err
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrInvalidInput)
	}

	updated, err := s.taskRepo.Update(ctx, taskID, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return updated, nil
}

func (s *taskService) ValidateTask(ctx context.Context, taskID, actorID string) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	task, err := s.taskRepo.Validate(ctx, taskID, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrAlreadyValidated) {
			return nil, err
		}
		return nil, fmt.Errorf("validate task: %w", err)
	}
	return task, nil
}

func (s *taskService) UnvalidateTask(ctx context.Context, taskID, actorID string) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	task, err := s.taskRepo.Unvalidate(ctx, taskID, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrForbidden) {
			return nil, err
		}
		return nil, fmt.Errorf("unvalidate task: %w", err)
	}
	return task, nil
}
