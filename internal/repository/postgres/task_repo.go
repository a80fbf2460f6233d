package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventplanner/internal/domain"
)

const taskColumns = `id, event_id, owner_id, title, description, status, priority, due_date, assigned_to, validated_by, created_at, updated_at`

type taskRepository struct {
	DB *sql.DB
}

func NewTaskRepository(db *sql.DB) domain.TaskRepository {
	return &taskRepository{
		DB: db,
	}
}

func (r *taskRepository) Create(ctx context.Context, t *domain.Task) error {
	query := `
		INSERT INTO event_tasks (event_id, owner_id, title, description, status, priority, due_date, assigned_to, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		t.EventID, t.OwnerID, t.Title, t.Description, t.Status, t.Priority,
		t.DueDate, t.AssignedTo, t.CreatedAt, t.UpdatedAt,
	).Scan(&t.ID)
}

func scanTask(row interface{ Scan(...any) error }) (*domain.Task, error) {
	t := &domain.Task{}
	var descNull, statusNull, prioNull, assignNull, validNull sql.NullString
	var dueNull sql.NullTime
	err := row.Scan(
		&t.ID, &t.EventID, &t.OwnerID, &t.Title, &descNull, &statusNull,
		&prioNull, &dueNull, &assignNull, &validNull, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if descNull.Valid {
		t.Description = &descNull.String
	}
	if statusNull.Valid {
		t.Status = &statusNull.String
	}
	if prioNull.Valid {
		t.Priority = &prioNull.String
	}
	if dueNull.Valid {
		t.DueDate = &dueNull.Time
	}
	if assignNull.Valid {
		t.AssignedTo = &assignNull.String
	}
	if validNull.Valid {
		t.ValidatedBy = &validNull.String
	}
	return t, nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM event_tasks WHERE id = $1`, taskColumns)
	t, err := scanTask(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *taskRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM event_tasks WHERE event_id = $1 ORDER BY created_at DESC`, taskColumns)
	return r.list(ctx, query, eventID)
}

func (r *taskRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM event_tasks WHERE owner_id = $1 ORDER BY created_at DESC`, taskColumns)
	return r.list(ctx, query, ownerID)
}

// ListByParticipantID returns tasks the user owns plus tasks of events where
// the user is on the roster.
func (r *taskRepository) ListByParticipantID(ctx context.Context, userID string) ([]*domain.Task, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM event_tasks
		WHERE owner_id = $1
		   OR event_id IN (SELECT event_id FROM event_participants WHERE user_id = $1)
		ORDER BY created_at DESC
	`, taskColumns)
	return r.list(ctx, query, userID)
}

func (r *taskRepository) ListValidatedBy(ctx context.Context, userID string) ([]*domain.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM event_tasks WHERE validated_by = $1 ORDER BY updated_at DESC`, taskColumns)
	return r.list(ctx, query, userID)
}

func (r *taskRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	if patch.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", n))
		args = append(args, *patch.Title)
		n++
	}
	if patch.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", n))
		args = append(args, *patch.Description)
		n++
	}
	if patch.Status != nil {
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", n))
		args = append(args, *patch.Status)
		n++
	}
	if patch.Priority != nil {
		setClauses = append(setClauses, fmt.Sprintf("priority = $%d", n))
		args = append(args, *patch.Priority)
		n++
	}
	switch {
	case patch.ClearDueDate:
		setClauses = append(setClauses, "due_date = NULL")
	case patch.DueDate != nil:
		setClauses = append(setClauses, fmt.Sprintf("due_date = $%d", n))
		args = append(args, *patch.DueDate)
		n++
	}
	switch {
	case patch.ClearAssignedTo:
		setClauses = append(setClauses, "assigned_to = NULL")
	case patch.AssignedTo != nil:
		setClauses = append(setClauses, fmt.Sprintf("assigned_to = $%d", n))
		args = append(args, *patch.AssignedTo)
		n++
	}
	if len(setClauses) == 1 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE event_tasks SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, taskColumns)
	t, err := scanTask(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// Validate is a single conditional update guarded by validated_by IS NULL,
// so under concurrent callers at most one row version carries each winner.
func (r *taskRepository) Validate(ctx context.Context, id, validatorID string) (*domain.Task, error) {
	query := fmt.Sprintf(`
		UPDATE event_tasks SET validated_by = $1, updated_at = NOW()
		WHERE id = $2 AND validated_by IS NULL
		RETURNING %s
	`, taskColumns)
	t, err := scanTask(r.DB.QueryRowContext(ctx, query, validatorID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.validateMiss(ctx, id)
		}
		return nil, err
	}
	return t, nil
}

func (r *taskRepository) Unvalidate(ctx context.Context, id, validatorID string) (*domain.Task, error) {
	query := fmt.Sprintf(`
		UPDATE event_tasks SET validated_by = NULL, updated_at = NOW()
		WHERE id = $1 AND validated_by = $2
		RETURNING %s
	`, taskColumns)
	t, err := scanTask(r.DB.QueryRowContext(ctx, query, id, validatorID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	return t, nil
}

// validateMiss tells a missing task apart from an already-validated one.
func (r *taskRepository) validateMiss(ctx context.Context, id string) error {
	var validNull sql.NullString
	err := r.DB.QueryRowContext(ctx, `SELECT validated_by FROM event_tasks WHERE id = $1`, id).Scan(&validNull)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	return domain.ErrAlreadyValidated
}
