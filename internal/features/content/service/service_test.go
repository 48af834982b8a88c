package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocab-progress-backend/internal/common/config"
	"vocab-progress-backend/internal/features/content/models"
)

func newTestService(t *testing.T) *contentService {
	t.Helper()
	bank, err := models.DefaultBank()
	require.NoError(t, err)
	return &contentService{
		bank: bank,
		cfg: config.ContentConfig{
			ExamDate:      time.Date(2026, 1, 7, 8, 0, 0, 0, time.UTC),
			QuizSize:      10,
			OddOneOutSize: 5,
		},
		now: func() time.Time { return time.Date(2026, 1, 6, 8, 0, 0, 0, time.UTC) },
	}
}

func TestQuizRound(t *testing.T) {
	s := newTestService(t)

	round, err := s.Quiz(context.Background())
	require.NoError(t, err)
	assert.Len(t, round, 10)

	seen := map[string]bool{}
	for _, q := range round {
		assert.False(t, seen[q.ID], "duplicate %s", q.ID)
		seen[q.ID] = true
	}
}

func TestOddOneOutRound(t *testing.T) {
	s := newTestService(t)

	round, err := s.OddOneOut(context.Background())
	require.NoError(t, err)
	assert.Len(t, round, 5)
}

func TestCountdown(t *testing.T) {
	c := newTestService(t).Countdown(context.Background())
	assert.Equal(t, 1, c.Days)
	assert.Equal(t, int64(86400), c.RemainingSeconds)
}
