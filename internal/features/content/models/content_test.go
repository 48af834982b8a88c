package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBank(t *testing.T) {
	b, err := DefaultBank()
	require.NoError(t, err)

	assert.GreaterOrEqual(t, len(b.Quiz), 10)
	assert.GreaterOrEqual(t, len(b.OddOneOut), 5)
	for _, q := range b.Quiz {
		assert.Contains(t, q.Options, q.CorrectAnswer, q.ID)
	}
	for _, q := range b.OddOneOut {
		assert.Contains(t, q.Words, q.OddWord, q.ID)
	}
}

func TestNewCountdown(t *testing.T) {
	target := time.Date(2026, 1, 7, 10, 0, 0, 0, time.UTC)

	c := NewCountdown(target, target.Add(-(49*time.Hour + 3*time.Minute + 7*time.Second)))
	assert.Equal(t, 2, c.Days)
	assert.Equal(t, 1, c.Hours)
	assert.Equal(t, 3, c.Minutes)
	assert.Equal(t, 7, c.Seconds)
	assert.False(t, c.Passed)

	c = NewCountdown(target, target.Add(time.Minute))
	assert.True(t, c.Passed)
	assert.Zero(t, c.Days+c.Hours+c.Minutes+c.Seconds)
}
