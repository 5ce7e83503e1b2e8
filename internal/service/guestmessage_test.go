package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raditya/storefront-api/internal/dto"
)

func newGuestMessageFixture(t *testing.T) (*GuestMessageService, *mockGuestMessageRepo) {
	t.Helper()
	messages := newMockGuestMessageRepo()
	return NewGuestMessageService(messages), messages
}

func TestGuestMessageLifecycle(t *testing.T) {
	svc, _ := newGuestMessageFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, dto.CreateGuestMessageRequest{
		Name:    "Visitor",
		Email:   "visitor@example.com",
		Message: "Do you ship abroad?",
	})
	require.NoError(t, err)
	assert.False(t, created.IsRead)

	read, err := svc.SetRead(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrGuestMessageNotFound)
}

func TestGuestMessageUnknownID(t *testing.T) {
	svc, _ := newGuestMessageFixture(t)
	ctx := context.Background()

	_, err := svc.SetRead(ctx, uuid.New(), true)
	assert.ErrorIs(t, err, ErrGuestMessageNotFound)

	err = svc.Delete(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrGuestMessageNotFound)
}

func TestGuestMessageStats(t *testing.T) {
	svc, repo := newGuestMessageFixture(t)
	ctx := context.Background()

	older, err := svc.Create(ctx, dto.CreateGuestMessageRequest{
		Name: "A", Email: "a@example.com", Message: "first",
	})
	require.NoError(t, err)
	latest, err := svc.Create(ctx, dto.CreateGuestMessageRequest{
		Name: "B", Email: "b@example.com", Message: "second",
	})
	require.NoError(t, err)

	repo.messages[older.ID].CreatedAt = time.Now().Add(-time.Hour)
	repo.messages[latest.ID].CreatedAt = time.Now()

	_, err = svc.SetRead(ctx, older.ID, true)
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Read)
	assert.Equal(t, 1, stats.Unread)
	require.NotNil(t, stats.Latest)
	assert.Equal(t, latest.ID, stats.Latest.ID)
}
