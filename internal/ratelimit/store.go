package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Store keeps the throttle's per-key counters and per-IP blocks.
type Store interface {
	// Hit counts one request for key in a fixed window of the given length
	// and returns the count including this request.
	Hit(ctx context.Context, key string, window time.Duration) (int, error)
	Block(ctx context.Context, ip string, d time.Duration) error
	// BlockedFor returns the remaining block time for ip, or 0.
	BlockedFor(ctx context.Context, ip string) (time.Duration, error)
	// Blocked lists every currently blocked IP with its remaining block time.
	Blocked(ctx context.Context) (map[string]time.Duration, error)
	// Prune removes expired counters and blocks.
	Prune(ctx context.Context) error
}

type counter struct {
	count   int
	resetAt time.Time
}

// MemoryStore is a process-local Store. Limits are per instance.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]*counter
	blocks   map[string]time.Time
	now      func() time.Time
}

func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		counters: make(map[string]*counter),
		blocks:   make(map[string]time.Time),
		now:      now,
	}
}

func (s *MemoryStore) Hit(_ context.Context, key string, window time.Duration) (int, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.counters[key]
	if !ok || now.After(c.resetAt) {
		s.counters[key] = &counter{count: 1, resetAt: now.Add(window)}
		return 1, nil
	}
	c.count++
	return c.count, nil
}

func (s *MemoryStore) Block(_ context.Context, ip string, d time.Duration) error {
	s.mu.Lock()
	s.blocks[ip] = s.now().Add(d)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) BlockedFor(_ context.Context, ip string) (time.Duration, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.blocks[ip]
	if !ok {
		return 0, nil
	}
	if !now.Before(until) {
		delete(s.blocks, ip)
		return 0, nil
	}
	return until.Sub(now), nil
}

func (s *MemoryStore) Blocked(_ context.Context) (map[string]time.Duration, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]time.Duration, len(s.blocks))
	for ip, until := range s.blocks {
		if now.Before(until) {
			out[ip] = until.Sub(now)
		}
	}
	return out, nil
}

func (s *MemoryStore) Prune(_ context.Context) error {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, c := range s.counters {
		if now.After(c.resetAt) {
			delete(s.counters, k)
		}
	}
	for ip, until := range s.blocks {
		if !now.Before(until) {
			delete(s.blocks, ip)
		}
	}
	return nil
}

// Size returns the number of counters and blocks held (for tests).
func (s *MemoryStore) Size() (counters, blocks int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.counters), len(s.blocks)
}
