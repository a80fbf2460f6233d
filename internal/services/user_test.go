package services

import (
	"context"
	"testing"
	"time"

	"eventplanner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Search(t *testing.T) {
	ctx := context.Background()
	timeout := 5 * time.Second

	userRepo := newFakeUserRepo()
	userRepo.addUser("user-1", "alice", "alice@example.com")
	userRepo.addUser("user-2", "alina", "alina@example.com")
	userRepo.addUser("user-3", "bob", "bob@example.com")
	participantRepo := newFakeParticipantRepo()
	require.NoError(t, participantRepo.Add(ctx, "ev-1", "user-1", domain.ParticipantRoleOwner))
	svc := NewUserService(userRepo, participantRepo, timeout)

	t.Run("matches by username", func(t *testing.T) {
		users, err := svc.Search(ctx, "ali", "")
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("blank term yields empty result", func(t *testing.T) {
		users, err := svc.Search(ctx, "   ", "")
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("roster members filtered out", func(t *testing.T) {
		users, err := svc.Search(ctx, "ali", "ev-1")
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "user-2", users[0].ID)
	})
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()
	timeout := 5 * time.Second
	newName := "alice2"
	empty := "  "

	userRepo := newFakeUserRepo()
	userRepo.addUser("user-1", "alice", "alice@example.com")
	svc := NewUserService(userRepo, newFakeParticipantRepo(), timeout)

	got, err := svc.Update(ctx, "user-1", domain.UserPatch{Username: &newName})
	require.NoError(t, err)
	assert.Equal(t, newName, got.Username)

	_, err = svc.Update(ctx, "user-1", domain.UserPatch{Username: &empty})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Update(ctx, "user-missing", domain.UserPatch{Username: &newName})
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserService_ListByRole(t *testing.T) {
	ctx := context.Background()
	timeout := 5 * time.Second

	userRepo := newFakeUserRepo()
	admin := userRepo.addUser("user-1", "alice", "alice@example.com")
	admin.Role = domain.RoleAdmin
	userRepo.addUser("user-2", "bob", "bob@example.com")
	svc := NewUserService(userRepo, newFakeParticipantRepo(), timeout)

	admins, err := svc.ListByRole(ctx, domain.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "user-1", admins[0].ID)

	_, err = svc.ListByRole(ctx, "emperor")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
