package service

import (
	"context"
	"io"
	"testing"
	"time"

	"salonbot/internal/flow"
	"salonbot/internal/models"
	"salonbot/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionService() *SessionService {
	logger := zerolog.New(io.Discard)
	return NewSessionService(repository.NewMemorySessionRepository(time.Hour), &logger)
}

func TestSessionServiceRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newSessionService()

	require.NoError(t, svc.Set(ctx, &models.Session{ChatID: 1, Step: flow.StepBookingCategory}))

	got, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, flow.StepBookingCategory, got.Step)

	require.NoError(t, svc.Clear(ctx, 1))
	got, err = svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionServiceMutate(t *testing.T) {
	ctx := context.Background()
	svc := newSessionService()

	t.Run("CreatesWhenMissing", func(t *testing.T) {
		err := svc.Mutate(ctx, 5, func(s *models.Session) {
			s.Step = flow.StepBookingDateTime
			s.ServiceID = 9
		})
		require.NoError(t, err)

		got, err := svc.Get(ctx, 5)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, int64(5), got.ChatID)
		assert.Equal(t, int64(9), got.ServiceID)
	})

	t.Run("UpdatesExisting", func(t *testing.T) {
		err := svc.Mutate(ctx, 5, func(s *models.Session) {
			s.Step = flow.StepBookingNote
		})
		require.NoError(t, err)

		got, err := svc.Get(ctx, 5)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, flow.StepBookingNote, got.Step)
		assert.Equal(t, int64(9), got.ServiceID, "other fields survive the mutation")
	})
}

func TestSessionServiceRateLimit(t *testing.T) {
	ctx := context.Background()
	svc := newSessionService()

	allowed, err := svc.CheckRateLimit(ctx, 1, 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = svc.CheckRateLimit(ctx, 1, 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
}
