//go:build !integration

package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_Allow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	for i := 0; i < 5; i++ {
		ok, err := m.Allow(ctx, "ip-1", 5, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "request %d within burst", i+1)
	}
	ok, _ := m.Allow(ctx, "ip-1", 5, time.Minute)
	assert.False(t, ok, "sixth request should be limited")

	ok, _ = m.Allow(ctx, "ip-2", 5, time.Minute)
	assert.True(t, ok, "other keys are unaffected")

	// one token refills every window/limit
	now = now.Add(12 * time.Second)
	ok, _ = m.Allow(ctx, "ip-1", 5, time.Minute)
	assert.True(t, ok)
}

func TestMemory_DisabledLimit(t *testing.T) {
	m := NewMemory()
	ok, err := m.Allow(context.Background(), "k", 0, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, m.size())
}

func TestMemory_Sweep(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	_, _ = m.Allow(context.Background(), "old", 1, time.Minute)
	now = now.Add(time.Hour)
	_, _ = m.Allow(context.Background(), "fresh", 1, time.Minute)

	assert.Equal(t, 1, m.Sweep(30*time.Minute))
	assert.Equal(t, 1, m.size())

	now = now.Add(time.Hour)
	n, err := m.SweepJob(30 * time.Minute)(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, m.size())
}
