package ratelimit

import (
	"context"
	"strings"
	"time"

	"github.com/AnthoniusHendriyanto/askastro-service/internal/logging"
)

// PathLimit applies Limit to every path starting with Prefix.
type PathLimit struct {
	Prefix string
	Limit  int
}

type ThrottleConfig struct {
	DefaultLimit  int
	Window        time.Duration
	BlockDuration time.Duration
	// PathLimits are checked in order; the first matching prefix wins.
	PathLimits    []PathLimit
	ExcludedPaths []string
}

// DefaultPathLimits are the stricter thresholds for sensitive routes.
func DefaultPathLimits() []PathLimit {
	return []PathLimit{
		{Prefix: "/api/auth", Limit: 30},
		{Prefix: "/api/user", Limit: 40},
		{Prefix: "/api/transactions", Limit: 20},
	}
}

// DefaultExcludedPaths are never throttled.
func DefaultExcludedPaths() []string {
	return []string{"/api/health", "/metrics", "/favicon.ico", "/public/"}
}

// Decision is the outcome of a throttle check.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Throttle is the IP-keyed gate that runs before identity is known. An IP that
// exceeds the threshold for a path group is blocked for BlockDuration.
type Throttle struct {
	store Store
	cfg   ThrottleConfig
	log   logging.Logger
}

func NewThrottle(store Store, cfg ThrottleConfig, log logging.Logger) *Throttle {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Throttle{store: store, cfg: cfg, log: log}
}

// Check counts one request from ip to path. Store failures fail open.
func (t *Throttle) Check(ctx context.Context, ip, path string) Decision {
	if t.excluded(path) {
		return Decision{Allowed: true}
	}

	group, limit := t.limitFor(path)

	remaining, err := t.store.BlockedFor(ctx, ip)
	if err != nil {
		t.log.Warn(ctx, "throttle store unavailable", "op", "blocked_for", "ip", ip, "error", err)
		return Decision{Allowed: true, Limit: limit}
	}
	if remaining > 0 {
		return Decision{Allowed: false, Limit: limit, RetryAfter: remaining}
	}

	count, err := t.store.Hit(ctx, ip+"|"+group, t.cfg.Window)
	if err != nil {
		t.log.Warn(ctx, "throttle store unavailable", "op", "hit", "ip", ip, "error", err)
		return Decision{Allowed: true, Limit: limit}
	}

	if count > limit {
		if err := t.store.Block(ctx, ip, t.cfg.BlockDuration); err != nil {
			t.log.Warn(ctx, "throttle store unavailable", "op", "block", "ip", ip, "error", err)
		}
		t.log.Warn(ctx, "ip blocked", "ip", ip, "path", path, "count", count, "limit", limit)
		return Decision{Allowed: false, Limit: limit, RetryAfter: t.cfg.BlockDuration}
	}

	return Decision{Allowed: true, Limit: limit, Remaining: limit - count}
}

// Blocked lists the currently blocked IPs.
func (t *Throttle) Blocked(ctx context.Context) (map[string]time.Duration, error) {
	return t.store.Blocked(ctx)
}

// Prune drops expired state from the store.
func (t *Throttle) Prune(ctx context.Context) {
	if err := t.store.Prune(ctx); err != nil {
		t.log.Warn(ctx, "throttle prune failed", "error", err)
	}
}

func (t *Throttle) limitFor(path string) (string, int) {
	for _, pl := range t.cfg.PathLimits {
		if strings.HasPrefix(path, pl.Prefix) {
			return pl.Prefix, pl.Limit
		}
	}
	return "default", t.cfg.DefaultLimit
}

func (t *Throttle) excluded(path string) bool {
	for _, p := range t.cfg.ExcludedPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// ClientIP returns the first X-Forwarded-For entry, then X-Real-IP, then fallback.
func ClientIP(forwardedFor, realIP, fallback string) string {
	if forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(realIP); ip != "" {
		return ip
	}
	if fallback == "" {
		return "unknown"
	}
	return fallback
}

// RunJanitor runs every task each interval until ctx is cancelled.
func RunJanitor(ctx context.Context, interval time.Duration, tasks ...func(context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, task := range tasks {
				task(ctx)
			}
		}
	}
}
