package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"eventplanner/internal/domain"
)

const invitationColumns = `i.id, i.event_id, i.invited_user_id, i.inviter_id, i.message, i.status,
		i.expires_at, i.created_at, i.updated_at, u.username, u.email, e.title`

type invitationRepository struct {
	DB *sql.DB
}

func NewInvitationRepository(db *sql.DB) domain.InvitationRepository {
	return &invitationRepository{
		DB: db,
	}
}

func (r *invitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	query := `
		INSERT INTO event_invitations (event_id, invited_user_id, inviter_id, message, status, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		inv.EventID, inv.InvitedUserID, inv.InviterID, inv.Message, inv.Status,
		inv.ExpiresAt, inv.CreatedAt, inv.UpdatedAt,
	).Scan(&inv.ID)
	if err != nil {
		// Partial unique index on (event_id, invited_user_id) WHERE status='pending'
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrAlreadyInvited
		}
		return err
	}
	return nil
}

func scanInvitation(row interface{ Scan(...any) error }) (*domain.Invitation, error) {
	inv := &domain.Invitation{}
	var msgNull sql.NullString
	var username, email, title sql.NullString
	err := row.Scan(
		&inv.ID, &inv.EventID, &inv.InvitedUserID, &inv.InviterID, &msgNull, &inv.Status,
		&inv.ExpiresAt, &inv.CreatedAt, &inv.UpdatedAt, &username, &email, &title,
	)
	if err != nil {
		return nil, err
	}
	if msgNull.Valid {
		inv.Message = &msgNull.String
	}
	inv.InvitedUsername = username.String
	inv.InvitedEmail = email.String
	inv.EventTitle = title.String
	return inv, nil
}

func (r *invitationRepository) GetByID(ctx context.Context, id string) (*domain.Invitation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM event_invitations i
		JOIN users u ON u.id = i.invited_user_id
		JOIN events e ON e.id = i.event_id
		WHERE i.id = $1
	`, invitationColumns)
	inv, err := scanInvitation(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *invitationRepository) ListByEventID(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM event_invitations WHERE event_id = $1`
	if err := r.DB.QueryRowContext(ctx, countQuery, eventID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM event_invitations i
		JOIN users u ON u.id = i.invited_user_id
		JOIN events e ON e.id = i.event_id
		WHERE i.event_id = $1
		ORDER BY i.created_at DESC
		LIMIT $2 OFFSET $3
	`, invitationColumns)
	invs, err := r.list(ctx, query, eventID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	return invs, total, nil
}

func (r *invitationRepository) ListPendingByUserID(ctx context.Context, userID string) ([]*domain.Invitation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM event_invitations i
		JOIN users u ON u.id = i.invited_user_id
		JOIN events e ON e.id = i.event_id
		WHERE i.invited_user_id = $1 AND i.status = 'pending'
		ORDER BY i.created_at DESC
	`, invitationColumns)
	return r.list(ctx, query, userID)
}

func (r *invitationRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Invitation, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	invs := make([]*domain.Invitation, 0)
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invs = append(invs, inv)
	}
	return invs, rows.Err()
}

// Decline flips the row only while it is still pending; a handled row yields
// ErrInvitationClosed, a missing row ErrNotFound.
func (r *invitationRepository) Decline(ctx context.Context, id string) error {
	query := `
		UPDATE event_invitations SET status = 'declined', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return r.closedOrMissing(ctx, id)
	}
	return nil
}

// Accept performs the status flip and the roster insert in one transaction
// so a failure on either side leaves both tables untouched.
func (r *invitationRepository) Accept(ctx context.Context, id, eventID, userID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	update := `
		UPDATE event_invitations SET status = 'accepted', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`
	result, err := tx.ExecContext(ctx, update, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return r.closedOrMissing(ctx, id)
	}

	insert := `
		INSERT INTO event_participants (event_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, NOW())
	`
	if _, err := tx.ExecContext(ctx, insert, eventID, userID, domain.ParticipantRoleMember); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrAlreadyParticipant
		}
		return fmt.Errorf("insert participant: %w", err)
	}

	return tx.Commit()
}

func (r *invitationRepository) DeletePending(ctx context.Context, id string) error {
	query := `DELETE FROM event_invitations WHERE id = $1 AND status = 'pending'`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return r.closedOrMissing(ctx, id)
	}
	return nil
}

// ExpirePending is idempotent: the predicate becomes false for a row after
// its first successful update, so repeated or concurrent sweeps are safe.
func (r *invitationRepository) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE event_invitations SET status = 'expired', updated_at = NOW()
		WHERE status = 'pending' AND expires_at < $1
	`
	result, err := r.DB.ExecContext(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// closedOrMissing distinguishes a handled invitation from a missing one
// after a conditional update matched nothing.
func (r *invitationRepository) closedOrMissing(ctx context.Context, id string) error {
	var status string
	err := r.DB.QueryRowContext(ctx, `SELECT status FROM event_invitations WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	return domain.ErrInvitationClosed
}
