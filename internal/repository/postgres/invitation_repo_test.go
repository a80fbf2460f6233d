package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"eventplanner/internal/domain"
)

func TestInvitationRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "inserts pending invitation and scans id",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO event_invitations`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("inv-1"))
			},
		},
		{
			name: "pending duplicate maps to ErrAlreadyInvited",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO event_invitations`).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: domain.ErrAlreadyInvited,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)

			repo := NewInvitationRepository(db)
			inv := &domain.Invitation{
				EventID:       "ev-1",
				InvitedUserID: "user-2",
				InviterID:     "user-1",
				Status:        domain.InvitationPending,
				ExpiresAt:     now.Add(7 * 24 * time.Hour),
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			err = repo.Create(ctx, inv)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				require.Equal(t, "inv-1", inv.ID)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestInvitationRepository_Accept(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "flips status and adds roster row in one transaction",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`UPDATE event_invitations SET status = 'accepted'`).
					WithArgs("inv-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`INSERT INTO event_participants`).
					WithArgs("ev-1", "user-2", domain.ParticipantRoleMember).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "handled invitation maps to ErrInvitationClosed",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`UPDATE event_invitations SET status = 'accepted'`).
					WithArgs("inv-1").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(`SELECT status FROM event_invitations WHERE id = \$1`).
					WithArgs("inv-1").
					WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(domain.InvitationDeclined))
				mock.ExpectRollback()
			},
			wantErr: domain.ErrInvitationClosed,
		},
		{
			name: "missing invitation maps to ErrNotFound",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`UPDATE event_invitations SET status = 'accepted'`).
					WithArgs("inv-1").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(`SELECT status FROM event_invitations WHERE id = \$1`).
					WithArgs("inv-1").
					WillReturnError(sql.ErrNoRows)
				mock.ExpectRollback()
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "roster conflict rolls back and maps to ErrAlreadyParticipant",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`UPDATE event_invitations SET status = 'accepted'`).
					WithArgs("inv-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`INSERT INTO event_participants`).
					WithArgs("ev-1", "user-2", domain.ParticipantRoleMember).
					WillReturnError(&pq.Error{Code: "23505"})
				mock.ExpectRollback()
			},
			wantErr: domain.ErrAlreadyParticipant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)

			repo := NewInvitationRepository(db)
			err = repo.Accept(ctx, "inv-1", "ev-1", "user-2")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestInvitationRepository_Decline(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE event_invitations SET status = 'declined'`).
		WithArgs("inv-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewInvitationRepository(db)
	require.NoError(t, repo.Decline(ctx, "inv-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvitationRepository_ExpirePending(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE event_invitations SET status = 'expired'`).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	repo := NewInvitationRepository(db)
	expired, err := repo.ExpirePending(ctx, now)
	require.NoError(t, err)
	require.Equal(t, int64(3), expired)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvitationRepository_ListByEventID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM event_invitations WHERE event_id = \$1`).
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectQuery(`FROM event_invitations i`).
		WithArgs("ev-1", 2, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "event_id", "invited_user_id", "inviter_id", "message", "status",
			"expires_at", "created_at", "updated_at", "username", "email", "title",
		}).
			AddRow("inv-2", "ev-1", "user-3", "user-1", nil, domain.InvitationPending,
				now.Add(24*time.Hour), now, now, "carol", "carol@example.com", "launch party").
			AddRow("inv-1", "ev-1", "user-2", "user-1", "please come", domain.InvitationAccepted,
				now.Add(24*time.Hour), now.Add(-time.Hour), now, "bob", "bob@example.com", "launch party"))

	repo := NewInvitationRepository(db)
	invs, total, err := repo.ListByEventID(ctx, "ev-1", domain.PaginationParams{Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, 5, total)
	require.Len(t, invs, 2)
	require.Nil(t, invs[0].Message)
	require.Equal(t, "carol", invs[0].InvitedUsername)
	require.NotNil(t, invs[1].Message)
	require.Equal(t, "please come", *invs[1].Message)
	require.Equal(t, "launch party", invs[1].EventTitle)
	require.NoError(t, mock.ExpectationsWereMet())
}
