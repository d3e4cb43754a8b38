// Package ratelimit provides the per-identity request limiter, the global IP
// throttle that guards the edge, and their backing stores.
package ratelimit

import (
	"sync"
	"time"
)

// DefaultAbuseThreshold is the number of distinct IPs an identity may use
// within one window before an abuse signal is raised.
const DefaultAbuseThreshold = 5

// AbuseFunc is called when an identity is seen from more distinct IPs than allowed.
type AbuseFunc func(identity string, distinctIPs int)

type window struct {
	count   int
	resetAt time.Time
	ips     map[string]struct{}
	flagged bool
}

// Limiter is a fixed-window counter keyed by identity. A burst of up to twice
// the limit is possible across a window boundary.
type Limiter struct {
	mu             sync.Mutex
	windows        map[string]*window
	now            func() time.Time
	abuseThreshold int
	onAbuse        AbuseFunc
}

type LimiterOption func(*Limiter)

func WithClock(now func() time.Time) LimiterOption {
	return func(l *Limiter) { l.now = now }
}

func WithAbuseThreshold(n int) LimiterOption {
	return func(l *Limiter) { l.abuseThreshold = n }
}

func WithAbuseHandler(fn AbuseFunc) LimiterOption {
	return func(l *Limiter) { l.onAbuse = fn }
}

func NewLimiter(opts ...LimiterOption) *Limiter {
	l := &Limiter{
		windows:        make(map[string]*window),
		now:            time.Now,
		abuseThreshold: DefaultAbuseThreshold,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow reports whether one more request from identity fits in the current
// window. ip is optional and only feeds the abuse signal; it never blocks.
func (l *Limiter) Allow(identity string, limit int, period time.Duration, ip string) bool {
	now := l.now()

	l.mu.Lock()
	w, ok := l.windows[identity]
	if !ok || now.After(w.resetAt) {
		w = &window{count: 1, resetAt: now.Add(period), ips: make(map[string]struct{})}
		l.windows[identity] = w
		abuse := l.observe(w, ip)
		l.mu.Unlock()
		l.signal(identity, abuse)
		return true
	}

	abuse := l.observe(w, ip)
	allowed := w.count < limit
	if allowed {
		w.count++
	}
	l.mu.Unlock()

	l.signal(identity, abuse)
	return allowed
}

// observe records ip and returns the distinct IP count when it first crosses
// the threshold within this window, otherwise 0.
func (l *Limiter) observe(w *window, ip string) int {
	if ip == "" {
		return 0
	}
	w.ips[ip] = struct{}{}
	if len(w.ips) > l.abuseThreshold && !w.flagged {
		w.flagged = true
		return len(w.ips)
	}
	return 0
}

func (l *Limiter) signal(identity string, distinctIPs int) {
	if distinctIPs > 0 && l.onAbuse != nil {
		l.onAbuse(identity, distinctIPs)
	}
}

// Cleanup deletes windows that have expired and returns how many were removed.
func (l *Limiter) Cleanup() int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for id, w := range l.windows {
		if now.After(w.resetAt) {
			delete(l.windows, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked identities.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}
