// Package ratelimit holds the in-process per-client limiter used when no
// redis is configured.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type entry struct {
	limiter *rate.Limiter
	last    time.Time
}

// Memory keeps one token bucket per key. Buckets refill at limit/window and
// hold at most limit tokens.
type Memory struct {
	mu      sync.Mutex
	buckets map[string]*entry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{buckets: make(map[string]*entry), now: time.Now}
}

// Allow never returns an error; the signature matches the redis limiter.
func (m *Memory) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 || window <= 0 {
		return true, nil
	}
	now := m.now()

	m.mu.Lock()
	e, ok := m.buckets[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit)}
		m.buckets[key] = e
	}
	e.last = now
	m.mu.Unlock()

	return e.limiter.AllowN(now, 1), nil
}

// Sweep drops buckets idle for longer than idle and returns how many were removed.
func (m *Memory) Sweep(idle time.Duration) int {
	cutoff := m.now().Add(-idle)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k, e := range m.buckets {
		if e.last.Before(cutoff) {
			delete(m.buckets, k)
			n++
		}
	}
	return n
}

// SweepJob adapts Sweep to the scheduler's job signature.
func (m *Memory) SweepJob(idle time.Duration) func(context.Context) (int, error) {
	return func(context.Context) (int, error) { return m.Sweep(idle), nil }
}

func (m *Memory) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buckets)
}
