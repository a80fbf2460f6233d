package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"eventplanner/internal/domain"
)

func taskRows(t *domain.Task) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "event_id", "owner_id", "title", "description", "status",
		"priority", "due_date", "assigned_to", "validated_by", "created_at", "updated_at",
	}).AddRow(
		t.ID, t.EventID, t.OwnerID, t.Title, t.Description, t.Status,
		t.Priority, t.DueDate, t.AssignedTo, t.ValidatedBy, t.CreatedAt, t.UpdatedAt,
	)
}

func TestTaskRepository_Validate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	validator := "user-9"

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "claims unvalidated task",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE event_tasks SET validated_by = \$1, updated_at = NOW\(\)`).
					WithArgs(validator, "task-1").
					WillReturnRows(taskRows(&domain.Task{
						ID: "task-1", EventID: "ev-1", OwnerID: "user-1",
						Title: "book venue", ValidatedBy: &validator,
						CreatedAt: now, UpdatedAt: now,
					}))
			},
		},
		{
			name: "already validated task maps to ErrAlreadyValidated",
			mock: func(mock sqlmock.Sqlmock) {
				other := "user-2"
				mock.ExpectQuery(`UPDATE event_tasks SET validated_by = \$1, updated_at = NOW\(\)`).
					WithArgs(validator, "task-1").
					WillReturnError(sql.ErrNoRows)
				mock.ExpectQuery(`SELECT validated_by FROM event_tasks WHERE id = \$1`).
					WithArgs("task-1").
					WillReturnRows(sqlmock.NewRows([]string{"validated_by"}).AddRow(other))
			},
			wantErr: domain.ErrAlreadyValidated,
		},
		{
			name: "missing task maps to ErrNotFound",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE event_tasks SET validated_by = \$1, updated_at = NOW\(\)`).
					WithArgs(validator, "task-1").
					WillReturnError(sql.ErrNoRows)
				mock.ExpectQuery(`SELECT validated_by FROM event_tasks WHERE id = \$1`).
					WithArgs("task-1").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)

			repo := NewTaskRepository(db)
			task, err := repo.Validate(ctx, "task-1", validator)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, task)
			} else {
				require.NoError(t, err)
				require.NotNil(t, task.ValidatedBy)
				require.Equal(t, validator, *task.ValidatedBy)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTaskRepository_Unvalidate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "clears own validation",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE event_tasks SET validated_by = NULL, updated_at = NOW\(\)`).
					WithArgs("task-1", "user-9").
					WillReturnRows(taskRows(&domain.Task{
						ID: "task-1", EventID: "ev-1", OwnerID: "user-1",
						Title: "book venue", CreatedAt: now, UpdatedAt: now,
					}))
			},
		},
		{
			name: "someone else's validation maps to ErrForbidden",
			mock: func(mock sqlmock.Sqlmock) {
				other := "user-2"
				mock.ExpectQuery(`UPDATE event_tasks SET validated_by = NULL, updated_at = NOW\(\)`).
					WithArgs("task-1", "user-9").
					WillReturnError(sql.ErrNoRows)
				mock.ExpectQuery(`SELECT (.+) FROM event_tasks WHERE id = \$1`).
					WithArgs("task-1").
					WillReturnRows(taskRows(&domain.Task{
						ID: "task-1", EventID: "ev-1", OwnerID: "user-1",
						Title: "book venue", ValidatedBy: &other,
						CreatedAt: now, UpdatedAt: now,
					}))
			},
			wantErr: domain.ErrForbidden,
		},
		{
			name: "missing task maps to ErrNotFound",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE event_tasks SET validated_by = NULL, updated_at = NOW\(\)`).
					WithArgs("task-1", "user-9").
					WillReturnError(sql.ErrNoRows)
				mock.ExpectQuery(`SELECT (.+) FROM event_tasks WHERE id = \$1`).
					WithArgs("task-1").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)

			repo := NewTaskRepository(db)
			task, err := repo.Unvalidate(ctx, "task-1", "user-9")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, task)
			} else {
				require.NoError(t, err)
				require.Nil(t, task.ValidatedBy)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTaskRepository_Update_EmptyPatchReturnsCurrent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM event_tasks WHERE id = \$1`).
		WithArgs("task-1").
		WillReturnRows(taskRows(&domain.Task{
			ID: "task-1", EventID: "ev-1", OwnerID: "user-1",
			Title: "book venue", CreatedAt: now, UpdatedAt: now,
		}))

	repo := NewTaskRepository(db)
	task, err := repo.Update(ctx, "task-1", domain.TaskPatch{})
	require.NoError(t, err)
	require.Equal(t, "book venue", task.Title)
	require.NoError(t, mock.ExpectationsWereMet())
}
