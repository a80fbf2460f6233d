package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"eventplanner/internal/domain"
)

type participantRepository struct {
	DB *sql.DB
}

func NewParticipantRepository(db *sql.DB) domain.ParticipantRepository {
	return &participantRepository{
		DB: db,
	}
}

func (r *participantRepository) Add(ctx context.Context, eventID, userID, role string) error {
	query := `
		INSERT INTO event_participants (event_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, NOW())
	`
	_, err := r.DB.ExecContext(ctx, query, eventID, userID, role)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrAlreadyParticipant
		}
		return err
	}
	return nil
}

func (r *participantRepository) Remove(ctx context.Context, eventID, userID string) error {
	query := `DELETE FROM event_participants WHERE event_id = $1 AND user_id = $2`
	result, err := r.DB.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotParticipant
	}
	return nil
}

func (r *participantRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Participant, error) {
	query := `
		SELECT p.event_id, p.user_id, p.role, p.joined_at, u.username, u.email
		FROM event_participants p
		JOIN users u ON u.id = p.user_id
		WHERE p.event_id = $1
		ORDER BY p.joined_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	participants := make([]*domain.Participant, 0)
	for rows.Next() {
		p := &domain.Participant{}
		if err := rows.Scan(&p.EventID, &p.UserID, &p.Role, &p.JoinedAt, &p.Username, &p.Email); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (r *participantRepository) IsParticipant(ctx context.Context, eventID, userID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM event_participants WHERE event_id = $1 AND user_id = $2)`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, eventID, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
