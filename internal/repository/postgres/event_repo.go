package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventplanner/internal/domain"
)

const eventColumns = `id, title, description, start_date, end_date, location, owner_id, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

// Create inserts the event and its owner roster entry in one transaction.
func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO events (title, description, start_date, end_date, location, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, query,
		e.Title, e.Description, e.StartDate, e.EndDate, e.Location, e.OwnerID, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	ownerRow := `
		INSERT INTO event_participants (event_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.ExecContext(ctx, ownerRow, e.ID, e.OwnerID, domain.ParticipantRoleOwner, e.CreatedAt); err != nil {
		return fmt.Errorf("insert owner participant: %w", err)
	}

	return tx.Commit()
}

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	var descNull, locNull sql.NullString
	var startNull, endNull sql.NullTime
	err := row.Scan(
		&e.ID, &e.Title, &descNull, &startNull, &endNull, &locNull,
		&e.OwnerID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if descNull.Valid {
		e.Description = &descNull.String
	}
	if startNull.Valid {
		e.StartDate = &startNull.Time
	}
	if endNull.Valid {
		e.EndDate = &endNull.Time
	}
	if locNull.Valid {
		e.Location = &locNull.String
	}
	return e, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM events
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, eventColumns)
	return r.list(ctx, query, ownerID)
}

// ListByParticipantID returns events the user owns plus events where the
// user has a roster entry, most recent first.
func (r *eventRepository) ListByParticipantID(ctx context.Context, userID string) ([]*domain.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM events
		WHERE owner_id = $1
		   OR id IN (SELECT event_id FROM event_participants WHERE user_id = $1)
		ORDER BY created_at DESC
	`, eventColumns)
	return r.list(ctx, query, userID)
}

func (r *eventRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
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
	if patch.StartDate != nil {
		setClauses = append(setClauses, fmt.Sprintf("start_date = $%d", n))
		args = append(args, *patch.StartDate)
		n++
	}
	if patch.EndDate != nil {
		setClauses = append(setClauses, fmt.Sprintf("end_date = $%d", n))
		args = append(args, *patch.EndDate)
		n++
	}
	if patch.Location != nil {
		setClauses = append(setClauses, fmt.Sprintf("location = $%d", n))
		args = append(args, *patch.Location)
		n++
	}
	if n == 1 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// Delete removes the event and everything scoped to it in one transaction.
// Any failure rolls the whole cascade back.
func (r *eventRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM event_participants WHERE event_id = $1`,
		`DELETE FROM event_tasks WHERE event_id = $1`,
		`DELETE FROM event_invitations WHERE event_id = $1`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("cascade delete: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}

	return tx.Commit()
}
